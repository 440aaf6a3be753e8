// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/coursepair/internal/recommend"
)

var (
	// Source Metrics
	SourceQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursepair_source_query_duration_seconds",
			Help:    "Duration of purchase source queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	SourceQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepair_source_query_errors_total",
			Help: "Total number of failed purchase source queries",
		},
		[]string{"driver", "operation"},
	)

	PurchasesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepair_purchases_loaded",
			Help: "Purchase rows loaded by the last run",
		},
	)

	// Index Metrics
	Courses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepair_courses",
			Help: "Courses in the recommendation universe",
		},
	)

	Pairs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coursepair_pairs",
			Help: "Distinct co-purchased course pairs",
		},
		[]string{"stage"}, // "counted", "indexed"
	)

	IndexEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepair_index_edges",
			Help: "Directed edges in the recommendation index",
		},
	)

	// Report Metrics
	CoveragePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coursepair_coverage_percent",
			Help: "Share of courses whose first slot is filled",
		},
		[]string{"min_quality"},
	)

	MeanRecommendedQuality = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coursepair_mean_recommended_quality",
			Help: "Mean quality over all filled slots",
		},
		[]string{"min_quality"},
	)

	Slots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepair_slots_total",
			Help: "Resolved recommendation slots by origin",
		},
		[]string{"min_quality", "kind"}, // kind: "index", "backfill", "sentinel"
	)

	// Run Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursepair_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"},
	)

	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepair_runs_total",
			Help: "Batch runs by outcome",
		},
		[]string{"status"}, // "success", "failure"
	)

	LastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepair_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		},
	)

	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepair_export_rows_total",
			Help: "Data rows written per export file",
		},
		[]string{"file"},
	)
)

// RecordSourceQuery records a purchase source query metric
func RecordSourceQuery(driver, operation string, duration time.Duration, err error) {
	SourceQueryDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		SourceQueryErrors.WithLabelValues(driver, operation).Inc()
	}
}

// RecordIndex records the size of a freshly built index.
func RecordIndex(courses, countedPairs, indexedPairs, edges int) {
	Courses.Set(float64(courses))
	Pairs.WithLabelValues("counted").Set(float64(countedPairs))
	Pairs.WithLabelValues("indexed").Set(float64(indexedPairs))
	IndexEdges.Set(float64(edges))
}

// RecordReport records the statistics of one batch report.
func RecordReport(minQuality float64, stats recommend.Stats) {
	label := QualityLabel(minQuality)

	CoveragePercent.WithLabelValues(label).Set(stats.CoveragePercent)
	if stats.HasMeanQuality {
		MeanRecommendedQuality.WithLabelValues(label).Set(stats.MeanRecommendedQuality)
	}

	Slots.WithLabelValues(label, "index").Add(float64(stats.FilledSlots - stats.BackfilledSlots))
	Slots.WithLabelValues(label, "backfill").Add(float64(stats.BackfilledSlots))
	Slots.WithLabelValues(label, "sentinel").Add(float64(stats.SentinelSlots))
}

// RecordStage records how long a pipeline stage took.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRun records the outcome of a batch run
func RecordRun(err error) {
	if err != nil {
		Runs.WithLabelValues("failure").Inc()
		return
	}
	Runs.WithLabelValues("success").Inc()
	LastSuccess.Set(float64(time.Now().Unix()))
}

// RecordExport records rows written to an export file.
func RecordExport(file string, rows int) {
	ExportRows.WithLabelValues(file).Add(float64(rows))
}

// QualityLabel formats a min quality as a label value: 60 -> "60",
// 72.5 -> "72.5".
func QualityLabel(minQuality float64) string {
	return strconv.FormatFloat(minQuality, 'f', -1, 64)
}

// WriteTextfile writes the default registry to path in the text exposition
// format, atomically, for the node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
