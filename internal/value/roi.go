// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package value

import (
	"fmt"
	"math"

	"github.com/tomtom215/coursepair/internal/validation"
)

// ROIInput are the cost and revenue assumptions of the rollout.
type ROIInput struct {
	DevelopmentCost        float64 `koanf:"development_cost" json:"development_cost" validate:"gte=0"`
	MonthlyMaintenance     float64 `koanf:"monthly_maintenance" json:"monthly_maintenance" validate:"gte=0"`
	MonthlyRevenueIncrease float64 `koanf:"monthly_revenue_increase" json:"monthly_revenue_increase"`
	Months                 int     `koanf:"months" json:"months" validate:"gte=1"`
}

// DefaultROIInput assumes a 17% lift on 1,000,000 of monthly revenue.
func DefaultROIInput() ROIInput {
	return ROIInput{
		DevelopmentCost:        500000,
		MonthlyMaintenance:     50000,
		MonthlyRevenueIncrease: 1000000 * 0.17,
		Months:                 12,
	}
}

// ROIResult is the outcome over the input horizon. ROIPercent is +Inf when
// there are no costs; PaybackMonths is +Inf when the monthly net is not
// positive.
type ROIResult struct {
	TotalCosts           float64 `json:"total_costs"`
	TotalRevenueIncrease float64 `json:"total_revenue_increase"`
	NetProfit            float64 `json:"net_profit"`
	ROIPercent           float64 `json:"roi_percent"`
	PaybackMonths        float64 `json:"payback_months"`
	MonthlyNet           float64 `json:"monthly_net"`
}

// ROI computes return on investment and payback period.
func ROI(in ROIInput) (ROIResult, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return ROIResult{}, fmt.Errorf("roi input: %w", err)
	}

	months := float64(in.Months)
	res := ROIResult{
		TotalCosts:           in.DevelopmentCost + in.MonthlyMaintenance*months,
		TotalRevenueIncrease: in.MonthlyRevenueIncrease * months,
		MonthlyNet:           in.MonthlyRevenueIncrease - in.MonthlyMaintenance,
	}
	res.NetProfit = res.TotalRevenueIncrease - res.TotalCosts

	if res.TotalCosts > 0 {
		res.ROIPercent = res.NetProfit / res.TotalCosts * 100
	} else {
		res.ROIPercent = math.Inf(1)
	}

	if res.MonthlyNet > 0 {
		res.PaybackMonths = in.DevelopmentCost / res.MonthlyNet
	} else {
		res.PaybackMonths = math.Inf(1)
	}
	return res, nil
}
