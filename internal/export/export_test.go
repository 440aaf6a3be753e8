// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepair/internal/quality"
	"github.com/tomtom215/coursepair/internal/recommend"
	"github.com/tomtom215/coursepair/internal/value"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func sampleReport() *recommend.Report {
	return &recommend.Report{
		N:          2,
		MinQuality: 60,
		Records: []recommend.Record{
			{
				CourseID:      101,
				CourseQuality: 80,
				Slots: []recommend.Slot{
					{Course: 102, Quality: 70, OK: true},
					{},
				},
				HasRecommendations: true,
			},
			{
				CourseID:      103,
				CourseQuality: 40,
				Slots:         []recommend.Slot{{}, {}},
			},
		},
	}
}

func TestNew_RequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := New(""); err == nil {
		t.Error("New(\"\") error = nil, want error")
	}
}

func TestRecommendations_SentinelsAreEmpty(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	path, err := w.Recommendations(sampleReport())
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if filepath.Base(path) != "course_recommendations_q60.csv" {
		t.Errorf("file = %s", filepath.Base(path))
	}

	rows := readCSV(t, path)
	want := [][]string{
		{"course_id", "course_quality", "recomm_one", "recomm_one_quality", "recomm_two", "recomm_two_quality", "has_recommendations"},
		{"101", "80.00", "102", "70.00", "", "", "true"},
		{"103", "40.00", "", "", "", "", "false"},
	}
	assertRows(t, rows, want)
}

func TestFinalRecommendations(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	path, err := w.FinalRecommendations(sampleReport())
	if err != nil {
		t.Fatalf("FinalRecommendations: %v", err)
	}

	want := [][]string{
		{"course_id", "recomm_one", "recomm_two"},
		{"101", "102", ""},
		{"103", "", ""},
	}
	assertRows(t, readCSV(t, path), want)

	if _, err := w.FinalRecommendations(nil); err == nil {
		t.Error("FinalRecommendations(nil) error = nil")
	}
}

func TestRecommendations_SingleSlot(t *testing.T) {
	t.Parallel()

	rep := &recommend.Report{
		N:          1,
		MinQuality: 72.5,
		Records: []recommend.Record{{
			CourseID:           5,
			CourseQuality:      50,
			Slots:              []recommend.Slot{{Course: 6, Quality: 90, OK: true, Backfilled: true}},
			HasRecommendations: true,
		}},
	}

	w := newTestWriter(t)
	path, err := w.Recommendations(rep)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if filepath.Base(path) != "course_recommendations_q72.5.csv" {
		t.Errorf("file = %s", filepath.Base(path))
	}
	rows := readCSV(t, path)
	assertRows(t, rows[1:], [][]string{{"5", "50.00", "6", "90.00", "", "", "true"}})
}

func TestPairStats(t *testing.T) {
	t.Parallel()

	counts := recommend.PairCounts{
		{Low: 1, High: 2}: 3,
		{Low: 2, High: 3}: 7,
		{Low: 1, High: 3}: 3,
	}

	w := newTestWriter(t)
	path, err := w.PairStats(counts.Sorted())
	if err != nil {
		t.Fatalf("PairStats: %v", err)
	}

	want := [][]string{
		{"course1", "course2", "frequency"},
		{"2", "3", "7"},
		{"1", "2", "3"},
		{"1", "3", "3"},
	}
	assertRows(t, readCSV(t, path), want)
}

func TestQualityMetrics(t *testing.T) {
	t.Parallel()

	ms := quality.NewGenerator(1).Generate([]recommend.CourseID{7, 8})

	w := newTestWriter(t)
	path, err := w.QualityMetrics(ms)
	if err != nil {
		t.Fatalf("QualityMetrics: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(rows[0]) != 11 || rows[0][9] != "quality_score" || rows[0][10] != "quality_category" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "7" || rows[1][1] != "Course 7" {
		t.Errorf("row = %v", rows[1])
	}
	if _, err := quality.ParseCategory(rows[2][10]); err != nil {
		t.Errorf("category column: %v", err)
	}
}

func TestLTVAndABTest(t *testing.T) {
	t.Parallel()

	scenarios, err := value.Scenarios(value.DefaultScenarioParams())
	if err != nil {
		t.Fatalf("Scenarios: %v", err)
	}
	ab, err := value.SimulateABTest(value.DefaultABParams(), recommend.NewRand(42))
	if err != nil {
		t.Fatalf("SimulateABTest: %v", err)
	}

	w := newTestWriter(t)
	ltvPath, err := w.LTVScenarios(scenarios)
	if err != nil {
		t.Fatalf("LTVScenarios: %v", err)
	}
	rows := readCSV(t, ltvPath)
	if len(rows) != 5 {
		t.Fatalf("ltv rows = %d, want 5", len(rows))
	}
	if rows[1][5] != "17727.27" || rows[1][6] != "0.00" {
		t.Errorf("baseline row = %v", rows[1])
	}

	abPath, err := w.ABTest(ab)
	if err != nil {
		t.Fatalf("ABTest: %v", err)
	}
	rows = readCSV(t, abPath)
	if len(rows) != 4 {
		t.Fatalf("a/b rows = %d, want 4", len(rows))
	}
	if rows[1][0] != value.GroupControl || rows[1][4] != "" || rows[1][7] != "" {
		t.Errorf("control row = %v", rows[1])
	}
	if rows[2][4] != value.GroupControl || rows[2][7] == "" {
		t.Errorf("treatment row = %v", rows[2])
	}
}

func sampleSummary(t *testing.T) *Summary {
	t.Helper()

	scenarios, err := value.Scenarios(value.DefaultScenarioParams())
	if err != nil {
		t.Fatalf("Scenarios: %v", err)
	}
	in := value.DefaultROIInput()
	roi, err := value.ROI(in)
	if err != nil {
		t.Fatalf("ROI: %v", err)
	}
	rep := sampleReport()
	rep.Stats = recommend.Summarize(rep.Records, rep.N)

	return &Summary{
		RunID:           "run-1",
		GeneratedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:          "duckdb",
		QualityProvider: "synthetic",
		Purchases: recommend.PurchaseStats{
			Rows: 1234, Users: 500, Courses: 40,
			FirstPurchase:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			LastPurchase:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			MeanCoursesPerUser: 2.47, MaxCoursesPerUser: 9,
		},
		Pairs: PairSummary{
			Counted: 300, Threshold: 9, Indexed: 25, IndexedCourses: 18, Edges: 50,
			Top: []recommend.PairStat{{Pair: recommend.CoursePair{Low: 1, High: 2}, Frequency: 44}},
		},
		Reports: []ReportSummary{{MinQuality: 60, N: 2, File: RecommendationsFile(60), Stats: rep.Stats}},
		LTV:     scenarios,
		ROI:     NewROISummary(in, roi),
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	s := sampleSummary(t)
	s.ROI = NewROISummary(value.ROIInput{Months: 1}, value.ROIResult{
		ROIPercent:    math.Inf(1),
		PaybackMonths: math.Inf(1),
	})

	path, err := w.JSON(s)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["run_id"] != "run-1" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
	roi, ok := decoded["roi"].(map[string]interface{})
	if !ok {
		t.Fatalf("roi = %T", decoded["roi"])
	}
	if v, present := roi["roi_percent"]; !present || v != nil {
		t.Errorf("roi_percent = %v, want null", v)
	}
	if _, present := decoded["ab_test"]; present {
		t.Error("ab_test present for a nil result")
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	path, err := w.Report(sampleSummary(t))
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"Run:       run-1",
		"Rows:                 1,234",
		"Period:               2024-01-01 to 2024-12-31",
		"1. 1 + 2: 44",
		"min quality 60: coverage 50.0% of 2 courses",
		"ROI:                  85.5%",
		"Payback:              4.2 months",
		"17,727",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "A/B TEST") {
		t.Error("report has an A/B section without a result")
	}
}

func TestWriteFile_NoTemporaryLeftovers(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	if _, err := w.FinalRecommendations(sampleReport()); err != nil {
		t.Fatalf("FinalRecommendations: %v", err)
	}
	entries, err := os.ReadDir(w.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != FileFinalRecommendations {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir = %v, want only %s", names, FileFinalRecommendations)
	}
}

func TestFormatWithCommas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := formatWithCommas(tt.in); got != tt.want {
			t.Errorf("formatWithCommas(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func assertRows(t *testing.T, got, want [][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if strings.Join(got[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}
