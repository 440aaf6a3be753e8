// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package quality

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomtom215/coursepair/internal/recommend"
)

// DefaultSeed makes synthetic metrics reproducible across runs.
const DefaultSeed int64 = 42

// Generator draws synthetic course metrics:
//
//	cor                 Beta(5,2)*40 + 30
//	csi                 Beta(8,2)*2 + 3
//	nps                 Normal(20, 30), clipped to [-100, 100]
//	homework_check_time Exponential(mean 24h), clipped to [1, 168]
//	retention_rate      Beta(3,5)*40 + 10, clipped to [5, 80]
//	positive_reviews    Beta(8,2)*40 + 40
//	teacher_rating      Beta(9,2)*2 + 3
//
// Each metric is drawn for all courses before moving to the next metric,
// so adding a course changes every later column. Callers needing stable
// per-course values should keep the course list fixed.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Generate returns finalized metrics for courses, in the given order.
func (g *Generator) Generate(courses []recommend.CourseID) []Metrics {
	src := recommend.NewRand(g.seed)
	n := len(courses)

	cor := draw(n, distuv.Beta{Alpha: 5, Beta: 2, Src: src}, 40, 30)
	csi := draw(n, distuv.Beta{Alpha: 8, Beta: 2, Src: src}, 2, 3)
	nps := draw(n, distuv.Normal{Mu: 20, Sigma: 30, Src: src}, 1, 0)
	homework := draw(n, distuv.Exponential{Rate: 1.0 / 24, Src: src}, 1, 0)
	retention := draw(n, distuv.Beta{Alpha: 3, Beta: 5, Src: src}, 40, 10)
	reviews := draw(n, distuv.Beta{Alpha: 8, Beta: 2, Src: src}, 40, 40)
	teacher := draw(n, distuv.Beta{Alpha: 9, Beta: 2, Src: src}, 2, 3)

	metrics := make([]Metrics, n)
	for i, id := range courses {
		m := Metrics{
			CourseID:           id,
			CourseName:         fmt.Sprintf("Course %d", id),
			COR:                cor[i],
			CSI:                csi[i],
			NPS:                clip(nps[i], -100, 100),
			HomeworkCheckHours: clip(homework[i], 1, 168),
			RetentionRate:      clip(retention[i], 5, 80),
			PositiveReviews:    reviews[i],
			TeacherRating:      teacher[i],
		}
		m.Finalize()
		metrics[i] = m
	}
	return metrics
}

type sampler interface {
	Rand() float64
}

func draw(n int, dist sampler, scale, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()*scale + offset
	}
	return out
}

// SyntheticProvider is a Provider backed by a Generator.
type SyntheticProvider struct {
	gen *Generator
}

// NewSyntheticProvider creates a synthetic provider for the given seed.
func NewSyntheticProvider(seed int64) *SyntheticProvider {
	return &SyntheticProvider{gen: NewGenerator(seed)}
}

// Metrics implements Provider.
func (p *SyntheticProvider) Metrics(ctx context.Context, courses []recommend.CourseID) ([]Metrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metrics := p.gen.Generate(courses)
	for i := range metrics {
		if err := metrics[i].Validate(); err != nil {
			return nil, fmt.Errorf("generated metrics: %w", err)
		}
	}
	return metrics, nil
}

// Name implements Provider.
func (p *SyntheticProvider) Name() string {
	return "synthetic"
}
