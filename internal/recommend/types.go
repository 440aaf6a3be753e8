// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package recommend builds the course co-purchase recommendation index and
// resolves recommendations from it.
//
// The flow is strictly one-directional and rebuilt per batch run:
//
//	counts := recommend.Aggregate(purchases)
//	index, err := recommend.BuildIndex(counts, quality, threshold)
//	resolver := recommend.NewResolver(index, quality, universe, recommend.WithSeed(42))
//	report, err := resolver.ReportAll(universe, 2, 60)
//
// Nothing in this package performs I/O. All inputs are treated as
// immutable snapshots once handed over.
package recommend

import (
	"errors"
	"time"
)

// DefaultQuality is the score assumed for a course missing from the
// quality table.
const DefaultQuality = 50.0

// ErrInvalidArgument is returned (wrapped) when a caller passes a negative
// threshold, a negative n, or an unusable min quality.
var ErrInvalidArgument = errors.New("invalid argument")

// CourseID identifies a course.
type CourseID int64

// UserID identifies a purchasing user.
type UserID int64

// Purchase is one user to course purchase association.
type Purchase struct {
	// UserID is the buyer.
	UserID UserID `json:"user_id"`

	// CourseID is the purchased course.
	CourseID CourseID `json:"course_id"`

	// PurchasedAt is informational only; aggregation ignores it.
	PurchasedAt time.Time `json:"purchased_at"`
}

// CoursePair is an unordered pair of distinct courses stored with the
// smaller id first. Build it with NewCoursePair.
type CoursePair struct {
	Low  CourseID `json:"course1"`
	High CourseID `json:"course2"`
}

// NewCoursePair returns the canonical pair for a and b. ok is false when
// a == b, since a course never pairs with itself.
func NewCoursePair(a, b CourseID) (pair CoursePair, ok bool) {
	switch {
	case a < b:
		return CoursePair{Low: a, High: b}, true
	case a > b:
		return CoursePair{Low: b, High: a}, true
	default:
		return CoursePair{}, false
	}
}

// less orders pairs by (Low, High).
func (p CoursePair) less(o CoursePair) bool {
	if p.Low != o.Low {
		return p.Low < o.Low
	}
	return p.High < o.High
}

// QualityScores maps a course to its quality score, nominally in [0, 100].
type QualityScores map[CourseID]float64

// Lookup returns the course's score, or DefaultQuality if it has none.
func (q QualityScores) Lookup(id CourseID) float64 {
	if score, ok := q[id]; ok {
		return score
	}
	return DefaultQuality
}

// normalized maps a quality score to [0, 1].
func (q QualityScores) normalized(id CourseID) float64 {
	return q.Lookup(id) / 100
}

// Edge is one directed recommendation candidate in the index.
type Edge struct {
	// Candidate is the recommended course.
	Candidate CourseID `json:"candidate"`

	// Weight is pair frequency times the mean normalized quality of both
	// courses.
	Weight float64 `json:"weight"`
}

// Slot is one recommendation position. A Slot with OK == false is the
// "no recommendation" sentinel and its Course must not be read.
type Slot struct {
	// Course is the recommended course when OK is true.
	Course CourseID `json:"course_id"`

	// Quality is the recommended course's effective quality score.
	Quality float64 `json:"quality"`

	// OK is false for a padded, empty slot.
	OK bool `json:"ok"`

	// Backfilled is true when the course came from the random
	// high-quality fallback rather than the co-purchase index.
	Backfilled bool `json:"backfilled"`
}

// Record is one row of a batch report.
type Record struct {
	// CourseID is the course the recommendations are for.
	CourseID CourseID `json:"course_id"`

	// CourseQuality is the course's own effective quality.
	CourseQuality float64 `json:"course_quality"`

	// Slots has exactly n entries, sentinels last.
	Slots []Slot `json:"slots"`

	// HasRecommendations reports whether the first slot is filled.
	HasRecommendations bool `json:"has_recommendations"`
}

// Filled returns the number of non-sentinel slots.
func (r Record) Filled() int {
	n := 0
	for _, s := range r.Slots {
		if s.OK {
			n++
		}
	}
	return n
}

// Slot returns slot i, or a sentinel when i is out of range.
func (r Record) Slot(i int) Slot {
	if i < 0 || i >= len(r.Slots) {
		return Slot{}
	}
	return r.Slots[i]
}
