// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package export

import (
	"errors"
	"io"
	"math"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepair/internal/quality"
	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/value"
)

// Summary is everything a run reports about itself.
type Summary struct {
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Source          string    `json:"source"`
	QualityProvider string    `json:"quality_provider"`

	Purchases recommend.PurchaseStats `json:"purchases"`
	Pairs     PairSummary             `json:"pairs"`
	Quality   quality.Summary         `json:"quality"`
	Reports   []ReportSummary         `json:"reports"`

	LTV    []value.Scenario `json:"ltv_scenarios"`
	ABTest *value.ABResult  `json:"ab_test,omitempty"`
	ROI    ROISummary       `json:"roi"`

	// Files lists every file written before the summary, in order.
	Files []string `json:"files"`
}

// PairSummary describes aggregation and index construction.
type PairSummary struct {
	Counted        int                  `json:"counted"`
	Threshold      int                  `json:"threshold"`
	Indexed        int                  `json:"indexed"`
	IndexedCourses int                  `json:"indexed_courses"`
	Edges          int                  `json:"edges"`
	Top            []recommend.PairStat `json:"top"`
}

// ReportSummary is the statistics of one recommendation table.
type ReportSummary struct {
	MinQuality float64         `json:"min_quality"`
	N          int             `json:"n"`
	File       string          `json:"file"`
	Stats      recommend.Stats `json:"stats"`
}

// ROISummary mirrors value.ROIResult with unbounded values as null.
type ROISummary struct {
	Input                value.ROIInput `json:"input"`
	TotalCosts           float64        `json:"total_costs"`
	TotalRevenueIncrease float64        `json:"total_revenue_increase"`
	NetProfit            float64        `json:"net_profit"`
	MonthlyNet           float64        `json:"monthly_net"`
	ROIPercent           *float64       `json:"roi_percent"`
	PaybackMonths        *float64       `json:"payback_months"`
}

// NewROISummary converts an ROI result for export.
func NewROISummary(in value.ROIInput, res value.ROIResult) ROISummary {
	return ROISummary{
		Input:                in,
		TotalCosts:           res.TotalCosts,
		TotalRevenueIncrease: res.TotalRevenueIncrease,
		NetProfit:            res.NetProfit,
		MonthlyNet:           res.MonthlyNet,
		ROIPercent:           finite(res.ROIPercent),
		PaybackMonths:        finite(res.PaybackMonths),
	}
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Scenario returns the LTV scenario at index i, if present.
func (s *Summary) Scenario(i int) (value.Scenario, bool) {
	if i < 0 || i >= len(s.LTV) {
		return value.Scenario{}, false
	}
	return s.LTV[i], true
}

// JSON writes summary.json.
func (w *Writer) JSON(s *Summary) (string, error) {
	if s == nil {
		return "", errors.New("summary is nil")
	}
	return w.writeFile(FileSummaryJSON, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	})
}

// Report renders summary_report.txt.
func (w *Writer) Report(s *Summary) (string, error) {
	if s == nil {
		return "", errors.New("summary is nil")
	}
	text, err := RenderReport(s)
	if err != nil {
		return "", err
	}
	return w.writeFile(FileSummaryReport, func(out io.Writer) error {
		_, err := io.WriteString(out, text)
		return err
	})
}
