// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package value

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomtom215/coursepair/internal/validation"
)

// SignificanceLevel is the p-value below which a lift counts as real.
const SignificanceLevel = 0.05

// ABParams configures the conversion simulation.
type ABParams struct {
	// Users is the total test population; each group receives Users/2.
	Users int `koanf:"users" json:"users" validate:"gte=2"`

	BaselineRate        float64 `koanf:"baseline_rate" json:"baseline_rate" validate:"gte=0,lte=1"`
	RecommendationsRate float64 `koanf:"recommendations_rate" json:"recommendations_rate" validate:"gte=0,lte=1"`
	QualityRate         float64 `koanf:"quality_rate" json:"quality_rate" validate:"gte=0,lte=1"`
}

// DefaultABParams returns the reference conversion assumptions.
func DefaultABParams() ABParams {
	return ABParams{
		Users:               10000,
		BaselineRate:        0.0335,
		RecommendationsRate: 0.0392,
		QualityRate:         0.045,
	}
}

// ABGroup is one arm of the simulated test.
type ABGroup struct {
	Name           string  `json:"name"`
	Users          int     `json:"users"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`

	// ComparedTo names the arm this one is tested against; empty for the
	// control.
	ComparedTo  string  `json:"compared_to,omitempty"`
	ChiSquare   float64 `json:"chi_square,omitempty"`
	PValue      float64 `json:"p_value,omitempty"`
	Significant bool    `json:"significant"`
}

// ABResult holds the control followed by the two treatment arms.
type ABResult struct {
	Groups []ABGroup `json:"groups"`
}

// Group names.
const (
	GroupControl         = "A: no recommendations"
	GroupRecommendations = "B: recommendations"
	GroupQuality         = "C: recommendations + quality"
)

// SimulateABTest draws Bernoulli conversions for three equally sized arms
// and tests B against A and C against B with a chi-square test.
func SimulateABTest(p ABParams, rng *rand.Rand) (*ABResult, error) {
	if err := validation.ValidateStruct(&p); err != nil {
		return nil, fmt.Errorf("ab params: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("ab simulation: nil random source")
	}

	perGroup := p.Users / 2
	a := simulateGroup(GroupControl, perGroup, p.BaselineRate, rng)
	b := simulateGroup(GroupRecommendations, perGroup, p.RecommendationsRate, rng)
	c := simulateGroup(GroupQuality, perGroup, p.QualityRate, rng)

	compare(&b, a)
	compare(&c, b)

	return &ABResult{Groups: []ABGroup{a, b, c}}, nil
}

func simulateGroup(name string, users int, rate float64, rng *rand.Rand) ABGroup {
	g := ABGroup{Name: name, Users: users}
	for i := 0; i < users; i++ {
		if rng.Float64() < rate {
			g.Conversions++
		}
	}
	if users > 0 {
		g.ConversionRate = float64(g.Conversions) / float64(users)
	}
	return g
}

func compare(treatment *ABGroup, control ABGroup) {
	chi2, p := ChiSquare2x2(
		control.Conversions, control.Users-control.Conversions,
		treatment.Conversions, treatment.Users-treatment.Conversions,
	)
	treatment.ComparedTo = control.Name
	treatment.ChiSquare = chi2
	treatment.PValue = p
	treatment.Significant = p < SignificanceLevel
}

// ChiSquare2x2 runs Pearson's chi-square test of independence with Yates'
// continuity correction on the table
//
//	| a b |
//	| c d |
//
// and returns the statistic and its p-value (one degree of freedom). A
// table with an empty row or column yields (0, 1).
func ChiSquare2x2(a, b, c, d int) (chi2, pValue float64) {
	observed := [2][2]float64{{float64(a), float64(b)}, {float64(c), float64(d)}}
	rows := [2]float64{observed[0][0] + observed[0][1], observed[1][0] + observed[1][1]}
	cols := [2]float64{observed[0][0] + observed[1][0], observed[0][1] + observed[1][1]}
	total := rows[0] + rows[1]

	if rows[0] == 0 || rows[1] == 0 || cols[0] == 0 || cols[1] == 0 {
		return 0, 1
	}

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := rows[i] * cols[j] / total
			diff := math.Abs(observed[i][j] - expected)
			// Yates: shrink |O-E| by 0.5 without crossing zero
			diff -= math.Min(0.5, diff)
			chi2 += diff * diff / expected
		}
	}

	pValue = distuv.ChiSquared{K: 1}.Survival(chi2)
	return chi2, pValue
}
