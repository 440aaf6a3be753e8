// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Package metrics provides Prometheus instrumentation for batch runs.

Collectors are registered with the default registry through promauto when
the package is imported. A run exposes them in two optional ways:

  - over HTTP at /metrics while the batch runs (METRICS_LISTEN_ADDR)
  - as a node-exporter textfile written after the run (METRICS_TEXTFILE)

# Available Metrics

Source:
  - coursepair_source_query_duration_seconds{driver,operation}
  - coursepair_source_query_errors_total{driver,operation}
  - coursepair_purchases_loaded

Index:
  - coursepair_courses
  - coursepair_pairs{stage}: "counted" before the threshold, "indexed" after
  - coursepair_index_edges

Reports, labelled by min_quality:
  - coursepair_coverage_percent
  - coursepair_mean_recommended_quality
  - coursepair_slots_total{min_quality,kind}: kind is index, backfill or sentinel

Run:
  - coursepair_stage_duration_seconds{stage}
  - coursepair_runs_total{status}
  - coursepair_last_success_timestamp_seconds
  - coursepair_export_rows_total{file}
*/
package metrics
