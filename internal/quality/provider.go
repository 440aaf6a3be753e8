// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package quality

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/coursepair/internal/recommend"
)

// Provider returns quality metrics for a set of courses. Providers may
// omit courses; the recommender then applies recommend.DefaultQuality.
type Provider interface {
	Metrics(ctx context.Context, courses []recommend.CourseID) ([]Metrics, error)
	Name() string
}

// ScoreSource loads precomputed scores, e.g. from a course_quality table.
type ScoreSource interface {
	LoadQualityScores(ctx context.Context) (recommend.QualityScores, error)
}

// TableProvider serves precomputed scores. Only QualityScore and Category
// are populated on the returned metrics.
type TableProvider struct {
	source ScoreSource
}

// NewTableProvider creates a provider over source.
func NewTableProvider(source ScoreSource) *TableProvider {
	return &TableProvider{source: source}
}

// Metrics implements Provider. Courses without a stored score are left
// out. Scores outside [0, 100], and NaN, are rejected.
func (p *TableProvider) Metrics(ctx context.Context, courses []recommend.CourseID) ([]Metrics, error) {
	scores, err := p.source.LoadQualityScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("load quality scores: %w", err)
	}

	ids := append([]recommend.CourseID(nil), courses...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	metrics := make([]Metrics, 0, len(ids))
	for _, id := range ids {
		score, ok := scores[id]
		if !ok {
			continue
		}
		m := Metrics{
			CourseID:     id,
			CourseName:   fmt.Sprintf("Course %d", id),
			QualityScore: score,
			Category:     CategoryOf(score),
		}
		if err := m.ValidateScore(); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// Name implements Provider.
func (p *TableProvider) Name() string {
	return "table"
}

var (
	_ Provider = (*SyntheticProvider)(nil)
	_ Provider = (*TableProvider)(nil)
)
