// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package quality

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/coursepair/internal/recommend"
)

// CategoryShare is the size of one quality category.
type CategoryShare struct {
	Category Category `json:"category"`
	Courses  int      `json:"courses"`
	Percent  float64  `json:"percent"`
}

// Summary describes the distribution of quality scores.
type Summary struct {
	Courses    int             `json:"courses"`
	Categories []CategoryShare `json:"categories"`
	Mean       float64         `json:"mean"`
	Median     float64         `json:"median"`
	Min        float64         `json:"min"`
	Max        float64         `json:"max"`

	// RetentionCorrelation is the Pearson correlation between quality
	// score and retention rate. Zero when undefined.
	RetentionCorrelation float64 `json:"retention_correlation"`
}

// Distribution summarizes metrics. Categories are listed High, Medium, Low.
func Distribution(metrics []Metrics) Summary {
	s := Summary{Courses: len(metrics)}

	counts := map[Category]int{}
	scores := make([]float64, len(metrics))
	retention := make([]float64, len(metrics))
	for i := range metrics {
		counts[metrics[i].Category]++
		scores[i] = metrics[i].QualityScore
		retention[i] = metrics[i].RetentionRate
	}

	for _, c := range []Category{CategoryHigh, CategoryMedium, CategoryLow} {
		share := CategoryShare{Category: c, Courses: counts[c]}
		if s.Courses > 0 {
			share.Percent = float64(counts[c]) / float64(s.Courses) * 100
		}
		s.Categories = append(s.Categories, share)
	}

	if len(scores) == 0 {
		return s
	}

	s.Mean = stat.Mean(scores, nil)
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	// stat.Quantile(0.5, stat.Empirical, ...) returns the lower middle value
	// for an even count. The reported median is the midpoint.
	if mid := len(sorted) / 2; len(sorted)%2 == 0 {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.Median = sorted[mid]
	}

	if len(scores) > 1 && !constant(scores) && !constant(retention) {
		s.RetentionCorrelation = stat.Correlation(scores, retention, nil)
	}
	return s
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// CoursesIn lists the courses of one category, in input order.
func CoursesIn(metrics []Metrics, category string) ([]recommend.CourseID, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("courses in category: %w", err)
	}
	var ids []recommend.CourseID
	for i := range metrics {
		if metrics[i].Category == c {
			ids = append(ids, metrics[i].CourseID)
		}
	}
	return ids, nil
}
