// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package export writes the results of a batch run as flat files.
//
// Every file lands in one output directory and is written atomically
// (temporary file, then rename), so a reader never sees a half-written
// table:
//
//	course_pair_statistics.csv           course1, course2, frequency
//	course_quality_metrics.csv           one row per course and metric
//	course_recommendations_q<min>.csv    one file per min quality
//	final_course_recommendations.csv     course_id, recomm_one, recomm_two
//	ltv_analysis_results.csv             LTV scenarios
//	ab_test_results.csv                  simulated A/B arms
//	summary.json                         machine-readable run summary
//	summary_report.txt                   human-readable run summary
//
// A sentinel slot ("no recommendation") is written as an empty field, never
// as a course id.
package export
