// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package export

import (
	"errors"
	"strconv"

	"github.com/tomtom215/coursepair/internal/quality"
	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/value"
)

var errNilReport = errors.New("report is nil")

// PairStats writes course_pair_statistics.csv. stats should already be in
// the order they are to appear, see recommend.PairCounts.Sorted.
func (w *Writer) PairStats(stats []recommend.PairStat) (string, error) {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			formatInt(s.Pair.Low),
			formatInt(s.Pair.High),
			strconv.Itoa(s.Frequency),
		})
	}
	return w.writeCSV(FilePairStats, []string{"course1", "course2", "frequency"}, rows)
}

// QualityMetrics writes course_quality_metrics.csv.
func (w *Writer) QualityMetrics(ms []quality.Metrics) (string, error) {
	header := []string{
		"course_id", "course_name", "cor", "csi", "nps", "homework_check_time",
		"retention_rate", "positive_reviews", "teacher_rating",
		"quality_score", "quality_category",
	}
	rows := make([][]string, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		rows = append(rows, []string{
			formatInt(m.CourseID),
			m.CourseName,
			formatFixed(m.COR, 2),
			formatFixed(m.CSI, 2),
			formatFixed(m.NPS, 2),
			formatFixed(m.HomeworkCheckHours, 2),
			formatFixed(m.RetentionRate, 2),
			formatFixed(m.PositiveReviews, 2),
			formatFixed(m.TeacherRating, 2),
			formatFixed(m.QualityScore, 2),
			string(m.Category),
		})
	}
	return w.writeCSV(FileQualityMetrics, header, rows)
}

// Recommendations writes the full table for one report. The first two
// slots become recomm_one and recomm_two. Configuration caps n at 2, so no
// slot is dropped.
func (w *Writer) Recommendations(rep *recommend.Report) (string, error) {
	if rep == nil {
		return "", errNilReport
	}
	header := []string{
		"course_id", "course_quality",
		"recomm_one", "recomm_one_quality",
		"recomm_two", "recomm_two_quality",
		"has_recommendations",
	}
	rows := make([][]string, 0, len(rep.Records))
	for _, rec := range rep.Records {
		one, two := rec.Slot(0), rec.Slot(1)
		rows = append(rows, []string{
			formatInt(rec.CourseID),
			formatFixed(rec.CourseQuality, 2),
			slotCourse(one),
			slotQuality(one),
			slotCourse(two),
			slotQuality(two),
			strconv.FormatBool(rec.HasRecommendations),
		})
	}
	return w.writeCSV(RecommendationsFile(rep.MinQuality), header, rows)
}

// FinalRecommendations writes final_course_recommendations.csv, the table
// handed to the shop.
func (w *Writer) FinalRecommendations(rep *recommend.Report) (string, error) {
	if rep == nil {
		return "", errNilReport
	}
	rows := make([][]string, 0, len(rep.Records))
	for _, rec := range rep.Records {
		rows = append(rows, []string{
			formatInt(rec.CourseID),
			slotCourse(rec.Slot(0)),
			slotCourse(rec.Slot(1)),
		})
	}
	return w.writeCSV(FileFinalRecommendations, []string{"course_id", "recomm_one", "recomm_two"}, rows)
}

func slotCourse(s recommend.Slot) string {
	if !s.OK {
		return ""
	}
	return formatInt(s.Course)
}

func slotQuality(s recommend.Slot) string {
	if !s.OK {
		return ""
	}
	return formatFixed(s.Quality, 2)
}

// LTVScenarios writes ltv_analysis_results.csv.
func (w *Writer) LTVScenarios(scenarios []value.Scenario) (string, error) {
	header := []string{
		"scenario", "avg_check", "purchase_frequency", "lifespan_years",
		"retention_percent", "ltv", "growth_percent",
	}
	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		rows = append(rows, []string{
			s.Name,
			formatFixed(s.AvgCheck, 2),
			formatFloat(s.Frequency),
			formatFloat(s.LifespanYears),
			formatFloat(s.RetentionPercent),
			formatFixed(s.LTV, 2),
			formatFixed(s.GrowthPercent, 2),
		})
	}
	return w.writeCSV(FileLTV, header, rows)
}

// ABTest writes ab_test_results.csv. The control arm has empty test
// columns.
func (w *Writer) ABTest(res *value.ABResult) (string, error) {
	if res == nil {
		return "", errors.New("a/b result is nil")
	}
	header := []string{
		"group", "users", "conversions", "conversion_rate",
		"compared_to", "chi_square", "p_value", "significant",
	}
	rows := make([][]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		row := []string{
			g.Name,
			strconv.Itoa(g.Users),
			strconv.Itoa(g.Conversions),
			formatFixed(g.ConversionRate, 6),
			g.ComparedTo, "", "", "",
		}
		if g.ComparedTo != "" {
			row[5] = formatFixed(g.ChiSquare, 4)
			row[6] = formatFixed(g.PValue, 6)
			row[7] = strconv.FormatBool(g.Significant)
		}
		rows = append(rows, row)
	}
	return w.writeCSV(FileABTest, header, rows)
}
