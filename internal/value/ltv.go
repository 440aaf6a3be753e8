// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package value estimates what the recommendation table is worth:
// customer lifetime value under several adoption scenarios, a simulated
// A/B test of conversion, and return on investment.
//
// Everything here is plain arithmetic over configured assumptions. The
// only randomness is the A/B simulation, which takes an explicit source.
package value

import (
	"fmt"
	"math"

	"github.com/tomtom215/coursepair/internal/validation"
)

// LTVInput describes one customer segment.
type LTVInput struct {
	AvgPurchaseValue  float64
	PurchaseFrequency float64
	LifespanYears     float64

	// RetentionPercent selects the retention model when set.
	RetentionPercent *float64
	DiscountRate     float64
}

// LTV returns the segment's lifetime value using RetainedLTV when a
// retention rate is given and SimpleLTV otherwise.
func LTV(in LTVInput) float64 {
	if in.RetentionPercent == nil {
		return SimpleLTV(in.AvgPurchaseValue, in.PurchaseFrequency, in.LifespanYears)
	}
	return RetainedLTV(in.AvgPurchaseValue, in.PurchaseFrequency, in.LifespanYears, *in.RetentionPercent, in.DiscountRate)
}

// SimpleLTV is avg purchase value * purchases per year * lifespan in years.
func SimpleLTV(avgPurchaseValue, purchaseFrequency, lifespanYears float64) float64 {
	return avgPurchaseValue * purchaseFrequency * lifespanYears
}

// RetainedLTV sums yearly value over whole years of the lifespan, with
// year y (from 1) scaled by retention^(y-1) and discounted by
// (1+discount)^(y-1). retentionPercent is 0..100. A fractional lifespan
// is truncated.
func RetainedLTV(avgPurchaseValue, purchaseFrequency, lifespanYears, retentionPercent, discountRate float64) float64 {
	yearly := avgPurchaseValue * purchaseFrequency
	retention := retentionPercent / 100

	var ltv float64
	for year := 1; year <= int(lifespanYears); year++ {
		k := float64(year - 1)
		ltv += yearly * math.Pow(retention, k) / math.Pow(1+discountRate, k)
	}
	return ltv
}

// ScenarioParams are the shared assumptions of every LTV scenario.
type ScenarioParams struct {
	AvgCoursePrice float64 `koanf:"avg_course_price" json:"avg_course_price" validate:"gt=0"`
	LifespanYears  float64 `koanf:"lifespan_years" json:"lifespan_years" validate:"gt=0"`
	DiscountRate   float64 `koanf:"discount_rate" json:"discount_rate" validate:"gte=0"`
}

// DefaultScenarioParams returns the reference assumptions.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		AvgCoursePrice: 15000,
		LifespanYears:  2,
		DiscountRate:   0.1,
	}
}

// Scenario is one row of the LTV comparison.
type Scenario struct {
	Name             string  `json:"name"`
	AvgCheck         float64 `json:"avg_check"`
	Frequency        float64 `json:"purchase_frequency"`
	LifespanYears    float64 `json:"lifespan_years"`
	RetentionPercent float64 `json:"retention_percent"`
	LTV              float64 `json:"ltv"`

	// GrowthPercent is LTV growth over the baseline scenario; zero for the
	// baseline itself.
	GrowthPercent float64 `json:"growth_percent"`
}

// scenarioShape describes a scenario relative to ScenarioParams.
type scenarioShape struct {
	name           string
	priceFactor    float64
	frequency      float64
	lifespanFactor float64
	retention      float64
}

var scenarioShapes = []scenarioShape{
	{"Baseline (no recommendations)", 1.0, 1.0, 1.0, 20},
	{"Recommendations", 1.17, 1.2, 1.0, 20},
	{"Recommendations + course quality", 1.15, 1.15, 1.5, 35},
	{"Ideal (quality + personalization)", 1.25, 1.3, 2.0, 50},
}

// Scenarios computes retained LTV for the baseline and three adoption
// scenarios. The first row is always the baseline.
func Scenarios(p ScenarioParams) ([]Scenario, error) {
	if err := validation.ValidateStruct(&p); err != nil {
		return nil, fmt.Errorf("scenario params: %w", err)
	}

	out := make([]Scenario, 0, len(scenarioShapes))
	for _, s := range scenarioShapes {
		sc := Scenario{
			Name:             s.name,
			AvgCheck:         p.AvgCoursePrice * s.priceFactor,
			Frequency:        s.frequency,
			LifespanYears:    p.LifespanYears * s.lifespanFactor,
			RetentionPercent: s.retention,
		}
		sc.LTV = RetainedLTV(sc.AvgCheck, sc.Frequency, sc.LifespanYears, sc.RetentionPercent, p.DiscountRate)
		out = append(out, sc)
	}

	base := out[0].LTV
	if base > 0 {
		for i := 1; i < len(out); i++ {
			out[i].GrowthPercent = (out[i].LTV/base - 1) * 100
		}
	}
	return out, nil
}
