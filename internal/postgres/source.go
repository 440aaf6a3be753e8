// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package postgres reads purchases and quality scores straight from the
// shop's Postgres database through a pgx connection pool.
//
// The queries are the same ones the DuckDB source runs (see
// internal/database/query); only the placeholder style differs.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/coursepair/internal/config"
	"github.com/tomtom215/coursepair/internal/database/query"
	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
	"github.com/tomtom215/coursepair/internal/recommend"
)

// DriverName labels metrics and logs for this source.
const DriverName = "postgres"

const defaultQueryTimeout = 5 * time.Minute

// Source is a read-only purchase source backed by a pgx pool. It is safe
// for concurrent use.
type Source struct {
	pool         *pgxpool.Pool
	schema       string
	since        *time.Time
	until        *time.Time
	queryTimeout time.Duration
}

// New connects to cfg.Postgres.DSN and pings the server.
func New(ctx context.Context, cfg *config.SourceConfig) (*Source, error) {
	pg := cfg.Postgres
	if pg.DSN == "" {
		return nil, ErrMissingDSN
	}

	since, until, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(pg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if pg.MaxConns > 0 {
		poolCfg.MaxConns = pg.MaxConns
	}
	if pg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = pg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	timeout := pg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	logging.Debug().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Str("schema", cfg.Schema).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("postgres pool ready")

	return &Source{
		pool:         pool,
		schema:       cfg.Schema,
		since:        since,
		until:        until,
		queryTimeout: timeout,
	}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return DriverName
}

// Close releases every pooled connection.
func (s *Source) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Source) purchaseQuery() query.Purchases {
	return query.Purchases{Schema: s.schema, Since: s.since, Until: s.until}
}

// LoadPurchases runs the successful-purchase query.
func (s *Source) LoadPurchases(ctx context.Context) (purchases []recommend.Purchase, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "load_purchases", time.Since(start), err)
	}()

	sqlText, args := s.purchaseQuery().Build()
	rows, err := s.pool.Query(ctx, query.Rebind(sqlText), args...)
	if err != nil {
		return nil, classify("query purchases", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID, courseID int64
			purchasedAt      *time.Time
		)
		if err := rows.Scan(&userID, &courseID, &purchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p := recommend.Purchase{
			UserID:   recommend.UserID(userID),
			CourseID: recommend.CourseID(courseID),
		}
		if purchasedAt != nil {
			p.PurchasedAt = *purchasedAt
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate purchases", err)
	}
	return purchases, nil
}

// LoadQualityScores reads the course_quality table.
func (s *Source) LoadQualityScores(ctx context.Context) (scores recommend.QualityScores, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "load_quality", time.Since(start), err)
	}()

	rows, err := s.pool.Query(ctx, query.QualityScores(s.schema))
	if err != nil {
		return nil, classify("query quality scores", err)
	}
	defer rows.Close()

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
		return nil, classify("iterate quality scores", err)
	}
	return scores, nil
}

// PurchaseStatistics summarizes the purchase query on the server.
func (s *Source) PurchaseStatistics(ctx context.Context) (stats recommend.PurchaseStats, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordSourceQuery(DriverName, "purchase_statistics", time.Since(start), err)
	}()

	sqlText, args := query.PurchaseStatistics(s.purchaseQuery())

	var (
		rowCount, users, courses, maxPerUser int64
		first, last                          *time.Time
		meanPerUser                          float64
	)
	err = s.pool.QueryRow(ctx, query.Rebind(sqlText), args...).
		Scan(&rowCount, &users, &courses, &first, &last, &meanPerUser, &maxPerUser)
	if err != nil {
		return recommend.PurchaseStats{}, classify("query purchase statistics", err)
	}

	stats = recommend.PurchaseStats{
		Rows:               int(rowCount),
		Users:              int(users),
		Courses:            int(courses),
		MeanCoursesPerUser: meanPerUser,
		MaxCoursesPerUser:  int(maxPerUser),
	}
	if first != nil {
		stats.FirstPurchase = *first
	}
	if last != nil {
		stats.LastPurchase = *last
	}
	return stats, nil
}
