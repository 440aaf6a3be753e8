// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/coursepair/internal/config"
	"github.com/tomtom215/coursepair/internal/database/query"
	"github.com/tomtom215/coursepair/internal/logging"
)

// DriverName labels this source in metrics and logs.
const DriverName = "duckdb"

const defaultQueryTimeout = 5 * time.Minute

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	schema string
	since  *time.Time
	until  *time.Time
}

// New opens the database described by cfg.DuckDB and creates cfg.Schema.
func New(cfg *config.SourceConfig) (*DB, error) {
	since, until, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	dbCfg := &cfg.DuckDB
	numThreads := dbCfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for database file
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if dbCfg.Path != ":memory:" {
		if dbDir := filepath.Dir(dbCfg.Path); dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?threads=%d", dbCfg.Path, numThreads)
	if dbCfg.MaxMemory != "" {
		connStr += "&max_memory=" + dbCfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(numThreads)
	conn.SetMaxIdleConns(2)

	db := &DB{
		conn:   conn,
		cfg:    dbCfg,
		schema: cfg.Schema,
		since:  since,
		until:  until,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+query.QuoteIdent(db.schema)); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create schema %s: %w", db.schema, err)
	}

	logging.Debug().
		Str("path", dbCfg.Path).
		Str("schema", db.schema).
		Int("threads", numThreads).
		Msg("duckdb opened")

	return db, nil
}

// Close checkpoints file-backed databases and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	if db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Schema returns the schema holding the shop tables.
func (db *DB) Schema() string {
	return db.schema
}

// Name identifies the source in logs.
func (db *DB) Name() string {
	return DriverName
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// ensureContext applies the default query timeout to contexts without a
// deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}
