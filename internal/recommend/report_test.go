// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package recommend

import (
	"errors"
	"testing"
)

func TestReportAll_Scenario(t *testing.T) {
	t.Parallel()

	r := scenarioResolver(t, nil)

	report, err := r.ReportAll([]CourseID{103, 101, 102, 101}, 2, 50)
	if err != nil {
		t.Fatalf("ReportAll: %v", err)
	}

	if len(report.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(report.Records))
	}

	want := []struct {
		course  CourseID
		quality float64
		slots   []CourseID
	}{
		{101, 80, []CourseID{102}},
		{102, 60, []CourseID{101}},
		{103, 40, []CourseID{101, 102}},
	}
	for i, w := range want {
		rec := report.Records[i]
		if rec.CourseID != w.course {
			t.Fatalf("Records[%d].CourseID = %d, want %d", i, rec.CourseID, w.course)
		}
		if rec.CourseQuality != w.quality {
			t.Errorf("course %d quality = %v, want %v", w.course, rec.CourseQuality, w.quality)
		}
		if !rec.HasRecommendations {
			t.Errorf("course %d HasRecommendations = false", w.course)
		}
		if len(rec.Slots) != 2 {
			t.Fatalf("course %d has %d slots, want 2", w.course, len(rec.Slots))
		}
		got := courses(rec.Slots)
		if len(got) != len(w.slots) || rec.Filled() != len(w.slots) {
			t.Fatalf("course %d slots = %v, want %v", w.course, got, w.slots)
		}
		for j := range w.slots {
			if got[j] != w.slots[j] {
				t.Errorf("course %d slot %d = %d, want %d", w.course, j, got[j], w.slots[j])
			}
		}
	}

	stats := report.Stats
	if stats.TotalCourses != 3 || stats.CoursesWithRecommendations != 3 {
		t.Errorf("coverage counts = %d/%d, want 3/3", stats.CoursesWithRecommendations, stats.TotalCourses)
	}
	if !almostEqual(stats.CoveragePercent, 100) {
		t.Errorf("CoveragePercent = %v, want 100", stats.CoveragePercent)
	}
	// slots: 102(60), 101(80), 101(80), 102(60)
	if !stats.HasMeanQuality || !almostEqual(stats.MeanRecommendedQuality, 70) {
		t.Errorf("MeanRecommendedQuality = %v (has=%v), want 70", stats.MeanRecommendedQuality, stats.HasMeanQuality)
	}
	wantHist := []int{0, 2, 1}
	for k, n := range wantHist {
		if stats.Histogram[k] != n {
			t.Errorf("Histogram[%d] = %d, want %d", k, stats.Histogram[k], n)
		}
	}
	if stats.FilledSlots != 4 || stats.SentinelSlots != 2 || stats.BackfilledSlots != 0 {
		t.Errorf("slot counts filled=%d sentinel=%d backfilled=%d, want 4/2/0",
			stats.FilledSlots, stats.SentinelSlots, stats.BackfilledSlots)
	}
}

func TestReportAll_EmptyUniverse(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, nil, nil)
	report, err := r.ReportAll(nil, 2, 0)
	if err != nil {
		t.Fatalf("ReportAll: %v", err)
	}
	if len(report.Records) != 0 {
		t.Errorf("len(Records) = %d, want 0", len(report.Records))
	}
	if report.Stats.CoveragePercent != 0 || report.Stats.HasMeanQuality {
		t.Errorf("Stats = %+v, want zero coverage and no mean", report.Stats)
	}
	if len(report.Stats.Histogram) != 3 {
		t.Errorf("len(Histogram) = %d, want 3", len(report.Stats.Histogram))
	}
}

func TestReportAll_NoRecommendationsPossible(t *testing.T) {
	t.Parallel()

	quality := QualityScores{1: 20, 2: 30}
	r := NewResolver(nil, quality, []CourseID{1, 2})

	report, err := r.ReportAll([]CourseID{1, 2}, 2, 60)
	if err != nil {
		t.Fatalf("ReportAll: %v", err)
	}
	for _, rec := range report.Records {
		if rec.HasRecommendations || rec.Filled() != 0 {
			t.Errorf("course %d has recommendations: %+v", rec.CourseID, rec.Slots)
		}
		if rec.Slot(0).OK || rec.Slot(5).OK {
			t.Errorf("course %d: Slot() returned a filled slot", rec.CourseID)
		}
	}
	if report.Stats.Histogram[0] != 2 {
		t.Errorf("Histogram[0] = %d, want 2", report.Stats.Histogram[0])
	}
	if report.Stats.CoveragePercent != 0 {
		t.Errorf("CoveragePercent = %v, want 0", report.Stats.CoveragePercent)
	}
}

func TestReportAll_InvalidArguments(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, nil, nil)
	if _, err := r.ReportAll([]CourseID{1}, -2, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestReportAll_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	r := scenarioResolver(t, nil)
	input := []CourseID{103, 101, 102}
	if _, err := r.ReportAll(input, 1, 0); err != nil {
		t.Fatalf("ReportAll: %v", err)
	}
	if input[0] != 103 || input[1] != 101 || input[2] != 102 {
		t.Errorf("input slice modified: %v", input)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []Record{
		{CourseID: 1, HasRecommendations: true, Slots: []Slot{{Course: 2, Quality: 90, OK: true}, {Course: 3, Quality: 70, OK: true, Backfilled: true}}},
		{CourseID: 2, HasRecommendations: true, Slots: []Slot{{Course: 1, Quality: 50, OK: true}, {}}},
		{CourseID: 3, Slots: []Slot{{}, {}}},
		{CourseID: 4, Slots: []Slot{{}, {}}},
	}

	stats := Summarize(records, 2)
	if stats.TotalCourses != 4 || stats.CoursesWithRecommendations != 2 {
		t.Errorf("counts = %d/%d, want 2/4", stats.CoursesWithRecommendations, stats.TotalCourses)
	}
	if !almostEqual(stats.CoveragePercent, 50) {
		t.Errorf("CoveragePercent = %v, want 50", stats.CoveragePercent)
	}
	if !almostEqual(stats.MeanRecommendedQuality, 70) {
		t.Errorf("MeanRecommendedQuality = %v, want 70", stats.MeanRecommendedQuality)
	}
	if stats.Histogram[0] != 2 || stats.Histogram[1] != 1 || stats.Histogram[2] != 1 {
		t.Errorf("Histogram = %v, want [2 1 1]", stats.Histogram)
	}
	if stats.BackfilledSlots != 1 || stats.SentinelSlots != 5 || stats.FilledSlots != 3 {
		t.Errorf("slots filled=%d backfilled=%d sentinel=%d", stats.FilledSlots, stats.BackfilledSlots, stats.SentinelSlots)
	}
}

func TestReport_Lookup(t *testing.T) {
	t.Parallel()

	r := scenarioResolver(t, nil)
	report, err := r.ReportAll(r.Universe(), 2, 0)
	if err != nil {
		t.Fatalf("ReportAll: %v", err)
	}

	rec, ok := report.Lookup(102)
	if !ok || rec.CourseID != 102 {
		t.Fatalf("Lookup(102) = %+v, %v", rec, ok)
	}
	if _, ok := report.Lookup(7); ok {
		t.Error("Lookup(7) found a record for an unknown course")
	}
}
