// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package quality supplies per-course quality scores in [0, 100].
//
// Scores come from a Provider. Two providers exist: a seeded synthetic
// generator that draws the underlying course metrics from fixed
// distributions, and a table provider that reads precomputed scores from
// the analytics database.
package quality

import (
	"fmt"
	"math"

	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/validation"
)

// Category buckets a quality score.
type Category string

const (
	CategoryHigh   Category = "High"
	CategoryMedium Category = "Medium"
	CategoryLow    Category = "Low"
)

// Category thresholds (inclusive lower bounds).
const (
	HighThreshold   = 70.0
	MediumThreshold = 50.0
)

// Metrics are the observable signals behind a course's quality score.
type Metrics struct {
	CourseID   recommend.CourseID `json:"course_id"`
	CourseName string             `json:"course_name"`

	// COR is the completion rate in percent.
	COR float64 `json:"cor" validate:"gte=0,lte=100"`

	// CSI is the customer satisfaction index on a 1..5 scale.
	CSI float64 `json:"csi" validate:"gte=1,lte=5"`

	// NPS is the net promoter score.
	NPS float64 `json:"nps" validate:"gte=-100,lte=100"`

	// HomeworkCheckHours is the mean homework review turnaround.
	HomeworkCheckHours float64 `json:"homework_check_time" validate:"gte=0"`

	// RetentionRate is the percent of buyers who purchase another course.
	RetentionRate float64 `json:"retention_rate" validate:"gte=0,lte=100"`

	// PositiveReviews is the percent of positive reviews.
	PositiveReviews float64 `json:"positive_reviews" validate:"gte=0,lte=100"`

	// TeacherRating is on a 1..5 scale.
	TeacherRating float64 `json:"teacher_rating" validate:"gte=1,lte=5"`

	QualityScore float64  `json:"quality_score" validate:"gte=0,lte=100"`
	Category     Category `json:"quality_category" validate:"oneof=High Medium Low"`
}

// Weights of each normalized metric in the composite score. They sum to 1.
const (
	weightCOR       = 0.25
	weightCSI       = 0.20
	weightNPS       = 0.15
	weightHomework  = 0.10
	weightRetention = 0.15
	weightReviews   = 0.10
	weightTeacher   = 0.05
)

// homeworkCap is the turnaround (hours) at which the homework signal
// bottoms out.
const homeworkCap = 72.0

// Score computes the composite quality score of m, scaled to 0..100.
func Score(m *Metrics) float64 {
	corNorm := m.COR / 100
	csiNorm := (m.CSI - 1) / 4
	npsNorm := (m.NPS + 100) / 200
	hwNorm := 1 - clip(m.HomeworkCheckHours, 1, homeworkCap)/homeworkCap
	retentionNorm := m.RetentionRate / 100
	reviewsNorm := m.PositiveReviews / 100
	teacherNorm := (m.TeacherRating - 1) / 4

	score := corNorm*weightCOR +
		csiNorm*weightCSI +
		npsNorm*weightNPS +
		hwNorm*weightHomework +
		retentionNorm*weightRetention +
		reviewsNorm*weightReviews +
		teacherNorm*weightTeacher

	return score * 100
}

// CategoryOf buckets a score.
func CategoryOf(score float64) Category {
	switch {
	case score >= HighThreshold:
		return CategoryHigh
	case score >= MediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// ParseCategory accepts a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryHigh, CategoryMedium, CategoryLow:
		return c, nil
	default:
		return "", fmt.Errorf("unknown quality category %q: must be High, Medium or Low", s)
	}
}

// Finalize fills QualityScore and Category from the raw metrics.
func (m *Metrics) Finalize() {
	m.QualityScore = Score(m)
	m.Category = CategoryOf(m.QualityScore)
}

// Validate checks metric ranges.
func (m *Metrics) Validate() error {
	if err := validation.ValidateStruct(m); err != nil {
		return fmt.Errorf("course %d: %w", m.CourseID, err)
	}
	return nil
}

// ValidateScore checks only the score and category, for metrics loaded as
// a bare score without the signals behind it.
func (m *Metrics) ValidateScore() error {
	if err := validation.ValidateFields(m, "QualityScore", "Category"); err != nil {
		return fmt.Errorf("course %d: %w", m.CourseID, err)
	}
	return nil
}

// ScoresOf extracts the score table consumed by the recommender.
func ScoresOf(metrics []Metrics) recommend.QualityScores {
	scores := make(recommend.QualityScores, len(metrics))
	for i := range metrics {
		scores[metrics[i].CourseID] = metrics[i].QualityScore
	}
	return scores
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
