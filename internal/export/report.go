// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

const reportTemplate = `COURSE RECOMMENDATION SUMMARY REPORT
Run:       {{.RunID}}
Generated: {{formatDateTime .GeneratedAt}}
Source:    {{.Source}} (quality: {{.QualityProvider}})

PURCHASES
  Rows:                 {{formatNumber .Purchases.Rows}}
  Users:                {{formatNumber .Purchases.Users}}
  Courses:              {{formatNumber .Purchases.Courses}}
{{- if not .Purchases.FirstPurchase.IsZero}}
  Period:               {{formatDate .Purchases.FirstPurchase}} to {{formatDate .Purchases.LastPurchase}}
{{- end}}
  Courses per user:     {{formatFloat .Purchases.MeanCoursesPerUser 2}} mean, {{.Purchases.MaxCoursesPerUser}} max

CO-PURCHASE PAIRS
  Counted pairs:        {{formatNumber .Pairs.Counted}}
  Indexed (count > {{.Pairs.Threshold}}): {{formatNumber .Pairs.Indexed}} across {{formatNumber .Pairs.IndexedCourses}} courses
{{- range $i, $p := .Pairs.Top}}
  {{inc $i}}. {{$p.Pair.Low}} + {{$p.Pair.High}}: {{$p.Frequency}}
{{- end}}

COURSE QUALITY
  Courses scored:       {{.Quality.Courses}}
  Mean / median:        {{formatFloat .Quality.Mean 1}} / {{formatFloat .Quality.Median 1}}
{{- range .Quality.Categories}}
  {{printf "%-8s" .Category}}{{printf "%5d" .Courses}} ({{formatPercent .Percent}})
{{- end}}

RECOMMENDATIONS
{{- range .Reports}}
  min quality {{formatQuality .MinQuality}}: coverage {{formatPercent .Stats.CoveragePercent}} of {{.Stats.TotalCourses}} courses
    {{- if .Stats.HasMeanQuality}}, mean recommended quality {{formatFloat .Stats.MeanRecommendedQuality 1}}{{end}}
    ({{.Stats.BackfilledSlots}} backfilled, {{.Stats.SentinelSlots}} empty slots) -> {{.File}}
{{- end}}

LIFETIME VALUE
{{- range .LTV}}
  {{printf "%-36s" .Name}}{{formatMoney .LTV}}{{if .GrowthPercent}}  (+{{formatPercent .GrowthPercent}}){{end}}
{{- end}}
{{- with .ABTest}}

A/B TEST (simulated)
{{- range .Groups}}
  {{printf "%-32s" .Name}}{{formatPercent (percent .ConversionRate)}}
    {{- if .ComparedTo}} p={{formatFloat .PValue 4}}{{if .Significant}} significant{{else}} not significant{{end}}{{end}}
{{- end}}
{{- end}}

RETURN ON INVESTMENT ({{.ROI.Input.Months}} months)
  Total costs:          {{formatMoney .ROI.TotalCosts}}
  Revenue increase:     {{formatMoney .ROI.TotalRevenueIncrease}}
  Net profit:           {{formatMoney .ROI.NetProfit}}
  ROI:                  {{if .ROI.ROIPercent}}{{formatPercent (deref .ROI.ROIPercent)}}{{else}}unbounded{{end}}
  Payback:              {{if .ROI.PaybackMonths}}{{formatFloat (deref .ROI.PaybackMonths) 1}} months{{else}}never{{end}}
`

var reportFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format(time.DateOnly)
	},
	"formatDateTime": func(t time.Time) string {
		return t.Format(time.DateTime)
	},
	"formatNumber": formatWithCommas,
	"formatFloat": func(f float64, precision int) string {
		return fmt.Sprintf("%.*f", precision, f)
	},
	"formatPercent": func(f float64) string {
		return fmt.Sprintf("%.1f%%", f)
	},
	"formatQuality": formatFloat,
	"formatMoney": func(f float64) string {
		return formatWithCommas(int(f + 0.5*sign(f)))
	},
	"percent": func(f float64) float64 {
		return f * 100
	},
	"deref": func(p *float64) float64 {
		return *p
	},
	"inc": func(i int) int {
		return i + 1
	},
}

var reportTmpl = template.Must(template.New("summary_report").Funcs(reportFuncs).Parse(reportTemplate))

// RenderReport renders the plain text summary.
func RenderReport(s *Summary) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// formatWithCommas formats an integer with thousands separators.
func formatWithCommas(n int) string {
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
