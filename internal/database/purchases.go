// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/coursepair/internal/database/query"
	"github.com/tomtom215/coursepair/internal/metrics"
	"github.com/tomtom215/coursepair/internal/recommend"
)

func (db *DB) purchaseQuery() query.Purchases {
	return query.Purchases{Schema: db.schema, Since: db.since, Until: db.until}
}

// LoadPurchases runs the successful-purchase query.
func (db *DB) LoadPurchases(ctx context.Context) (purchases []recommend.Purchase, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "load_purchases", time.Since(start), err)
	}()

	sqlText, args := db.purchaseQuery().Build()
	rows, err := db.conn.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer closeWithLog(rows, "purchase rows")

	for rows.Next() {
		var (
			userID, courseID int64
			purchasedAt      sql.NullTime
		)
		if err := rows.Scan(&userID, &courseID, &purchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, recommend.Purchase{
			UserID:      recommend.UserID(userID),
			CourseID:    recommend.CourseID(courseID),
			PurchasedAt: purchasedAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return purchases, nil
}

// LoadQualityScores reads the course_quality table.
func (db *DB) LoadQualityScores(ctx context.Context) (scores recommend.QualityScores, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "load_quality", time.Since(start), err)
	}()

	rows, err := db.conn.QueryContext(ctx, query.QualityScores(db.schema))
	if err != nil {
		return nil, fmt.Errorf("query quality scores: %w", err)
	}
	defer closeWithLog(rows, "quality rows")

	scores = make(recommend.QualityScores)
	for rows.Next() {
		var (
			courseID int64
			score    float64
		)
		if err := rows.Scan(&courseID, &score); err != nil {
			return nil, fmt.Errorf("scan quality score: %w", err)
		}
		scores[recommend.CourseID(courseID)] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quality scores: %w", err)
	}
	return scores, nil
}

// PurchaseStatistics summarizes the purchase query inside DuckDB.
func (db *DB) PurchaseStatistics(ctx context.Context) (stats recommend.PurchaseStats, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "purchase_statistics", time.Since(start), err)
	}()

	sqlText, args := query.PurchaseStatistics(db.purchaseQuery())

	var (
		rowCount, users, courses, maxPerUser int64
		first, last                          sql.NullTime
		meanPerUser                          float64
	)
	err = db.conn.QueryRowContext(ctx, sqlText, args...).
		Scan(&rowCount, &users, &courses, &first, &last, &meanPerUser, &maxPerUser)
	if err != nil {
		return recommend.PurchaseStats{}, fmt.Errorf("query purchase statistics: %w", err)
	}

	return recommend.PurchaseStats{
		Rows:               int(rowCount),
		Users:              int(users),
		Courses:            int(courses),
		FirstPurchase:      first.Time,
		LastPurchase:       last.Time,
		MeanCoursesPerUser: meanPerUser,
		MaxCoursesPerUser:  int(maxPerUser),
	}, nil
}
