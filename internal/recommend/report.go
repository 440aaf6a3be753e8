// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"fmt"
	"sort"
)

// Report is the result of resolving recommendations for a batch of courses
// at one min quality.
type Report struct {
	// N is the number of slots per record.
	N int `json:"n"`

	// MinQuality is the quality floor the batch was resolved with.
	MinQuality float64 `json:"min_quality"`

	// Records are ordered by CourseID ascending.
	Records []Record `json:"records"`

	// Stats summarizes Records.
	Stats Stats `json:"stats"`
}

// Stats summarizes a batch of records.
type Stats struct {
	// TotalCourses is the number of records.
	TotalCourses int `json:"total_courses"`

	// CoursesWithRecommendations counts records whose first slot is filled.
	CoursesWithRecommendations int `json:"courses_with_recommendations"`

	// CoveragePercent is CoursesWithRecommendations / TotalCourses * 100,
	// or 0 for an empty batch.
	CoveragePercent float64 `json:"coverage_percent"`

	// MeanRecommendedQuality is the mean quality over every filled slot.
	// Only meaningful when HasMeanQuality is true.
	MeanRecommendedQuality float64 `json:"mean_recommended_quality"`

	// HasMeanQuality is false when no slot was filled.
	HasMeanQuality bool `json:"has_mean_quality"`

	// Histogram[k] is the number of courses with exactly k filled slots,
	// for k in 0..n.
	Histogram []int `json:"histogram"`

	// FilledSlots, BackfilledSlots and SentinelSlots count slots over the
	// whole batch.
	FilledSlots     int `json:"filled_slots"`
	BackfilledSlots int `json:"backfilled_slots"`
	SentinelSlots   int `json:"sentinel_slots"`
}

// ReportAll resolves recommendations for every course in courses, in
// ascending id order regardless of the order given. Duplicates are
// resolved once.
func (r *Resolver) ReportAll(courses []CourseID, n int, minQuality float64) (*Report, error) {
	if err := checkArgs(n, minQuality); err != nil {
		return nil, err
	}

	ordered := sortCourses(append([]CourseID(nil), courses...))

	records := make([]Record, 0, len(ordered))
	for _, course := range ordered {
		slots, err := r.Recommend(course, n, minQuality)
		if err != nil {
			return nil, fmt.Errorf("recommend course %d: %w", course, err)
		}
		records = append(records, Record{
			CourseID:           course,
			CourseQuality:      r.Quality(course),
			Slots:              slots,
			HasRecommendations: len(slots) > 0 && slots[0].OK,
		})
	}

	return &Report{
		N:          n,
		MinQuality: minQuality,
		Records:    records,
		Stats:      Summarize(records, n),
	}, nil
}

// Summarize computes batch statistics. n sizes the histogram; records with
// more filled slots than n are counted in the last bucket.
func Summarize(records []Record, n int) Stats {
	if n < 0 {
		n = 0
	}
	stats := Stats{
		TotalCourses: len(records),
		Histogram:    make([]int, n+1),
	}

	var qualitySum float64
	for _, rec := range records {
		if rec.HasRecommendations {
			stats.CoursesWithRecommendations++
		}
		for _, s := range rec.Slots {
			if !s.OK {
				stats.SentinelSlots++
				continue
			}
			qualitySum += s.Quality
			if s.Backfilled {
				stats.BackfilledSlots++
			}
		}
		filled := rec.Filled()
		stats.FilledSlots += filled
		if filled > n {
			filled = n
		}
		stats.Histogram[filled]++
	}

	if stats.TotalCourses > 0 {
		stats.CoveragePercent = float64(stats.CoursesWithRecommendations) / float64(stats.TotalCourses) * 100
	}
	if stats.FilledSlots > 0 {
		stats.MeanRecommendedQuality = qualitySum / float64(stats.FilledSlots)
		stats.HasMeanQuality = true
	}
	return stats
}

// Lookup returns the record for course.
func (rep *Report) Lookup(course CourseID) (Record, bool) {
	i := sort.Search(len(rep.Records), func(i int) bool { return rep.Records[i].CourseID >= course })
	if i < len(rep.Records) && rep.Records[i].CourseID == course {
		return rep.Records[i], true
	}
	return Record{}, false
}
