// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package value

import (
	"testing"

	"github.com/tomtom215/coursepair/internal/recommend"
)

func TestChiSquare2x2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		a, b, c, d int
		wantChi2   float64
		wantP      float64
	}{
		{"textbook table", 10, 90, 20, 80, 3.1764705882352944, 0.07470593331213041},
		{"identical rows", 5, 5, 5, 5, 0, 1},
		{"conversion sized", 168, 4832, 225, 4775, 8.306072411682427, 0.003951274442876099},
		{"empty column", 0, 10, 0, 10, 0, 1},
		{"empty row", 0, 0, 3, 7, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chi2, p := ChiSquare2x2(tt.a, tt.b, tt.c, tt.d)
			if !almostEqual(chi2, tt.wantChi2) {
				t.Errorf("chi2 = %v, want %v", chi2, tt.wantChi2)
			}
			if !almostEqual(p, tt.wantP) {
				t.Errorf("p = %v, want %v", p, tt.wantP)
			}
		})
	}
}

func TestChiSquare2x2_Symmetric(t *testing.T) {
	t.Parallel()

	chi1, p1 := ChiSquare2x2(10, 90, 20, 80)
	chi2, p2 := ChiSquare2x2(20, 80, 10, 90)
	if !almostEqual(chi1, chi2) || !almostEqual(p1, p2) {
		t.Errorf("swapping rows changed the result: (%v, %v) vs (%v, %v)", chi1, p1, chi2, p2)
	}
}

func TestSimulateABTest_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := SimulateABTest(DefaultABParams(), recommend.NewRand(42))
	if err != nil {
		t.Fatalf("SimulateABTest: %v", err)
	}
	second, err := SimulateABTest(DefaultABParams(), recommend.NewRand(42))
	if err != nil {
		t.Fatalf("SimulateABTest: %v", err)
	}

	if len(first.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(first.Groups))
	}
	for i := range first.Groups {
		if first.Groups[i] != second.Groups[i] {
			t.Errorf("group %d differs: %+v vs %+v", i, first.Groups[i], second.Groups[i])
		}
		if first.Groups[i].Users != 5000 {
			t.Errorf("group %d users = %d, want 5000", i, first.Groups[i].Users)
		}
	}

	if first.Groups[0].ComparedTo != "" {
		t.Errorf("control compared to %q", first.Groups[0].ComparedTo)
	}
	if first.Groups[1].ComparedTo != GroupControl {
		t.Errorf("B compared to %q, want %q", first.Groups[1].ComparedTo, GroupControl)
	}
	if first.Groups[2].ComparedTo != GroupRecommendations {
		t.Errorf("C compared to %q, want %q", first.Groups[2].ComparedTo, GroupRecommendations)
	}
}

func TestSimulateABTest_ExtremeRates(t *testing.T) {
	t.Parallel()

	params := ABParams{Users: 200, BaselineRate: 0, RecommendationsRate: 1, QualityRate: 1}
	res, err := SimulateABTest(params, recommend.NewRand(7))
	if err != nil {
		t.Fatalf("SimulateABTest: %v", err)
	}

	a, b, c := res.Groups[0], res.Groups[1], res.Groups[2]
	if a.Conversions != 0 || a.ConversionRate != 0 {
		t.Errorf("A = %+v, want no conversions", a)
	}
	if b.Conversions != 100 || b.ConversionRate != 1 {
		t.Errorf("B = %+v, want full conversion", b)
	}
	if !b.Significant || b.PValue >= SignificanceLevel {
		t.Errorf("B vs A should be significant, p = %v", b.PValue)
	}
	// identical arms: no evidence of a difference
	if c.Significant || c.PValue != 1 {
		t.Errorf("C vs B = %+v, want p = 1", c)
	}
}

func TestSimulateABTest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params ABParams
	}{
		{"too few users", ABParams{Users: 1, BaselineRate: 0.1}},
		{"rate above one", ABParams{Users: 10, BaselineRate: 1.5}},
		{"negative rate", ABParams{Users: 10, QualityRate: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := SimulateABTest(tt.params, recommend.NewRand(1)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := SimulateABTest(DefaultABParams(), nil); err == nil {
		t.Error("expected error for nil source")
	}
}
