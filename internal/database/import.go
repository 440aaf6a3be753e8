// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package database

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/coursepair/internal/database/query"
	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
)

// Import replaces table in the shop schema with the contents of path and
// returns the number of rows loaded. .csv (optionally .gz) files go through
// read_csv_auto, .parquet files through read_parquet.
func (db *DB) Import(ctx context.Context, table, path string) (int64, error) {
	reader, err := readerFor(path)
	if err != nil {
		return 0, err
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	target := query.Qualified(db.schema, table)
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s(%s)",
		target, reader, query.QuoteLiteral(path))

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, stmt)
	metrics.RecordSourceQuery(DriverName, "import_"+table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("import %s into %s: %w", path, table, err)
	}

	var rows int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+target).Scan(&rows); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	logging.Info().
		Str("table", table).
		Str("path", path).
		Int64("rows", rows).
		Msg("imported table")
	return rows, nil
}

// ImportCSV is Import restricted to CSV input.
func (db *DB) ImportCSV(ctx context.Context, table, path string) (int64, error) {
	if r, _ := readerFor(path); r != "read_csv_auto" {
		return 0, fmt.Errorf("%w: %s is not a csv file", ErrUnsupportedFormat, path)
	}
	return db.Import(ctx, table, path)
}

// ImportConfigured imports every file named in the DuckDB config. Empty
// paths are skipped.
func (db *DB) ImportConfigured(ctx context.Context) error {
	imports := []struct {
		table string
		path  string
	}{
		{query.TableCarts, db.cfg.CartsCSV},
		{query.TableCartItems, db.cfg.CartItemsCSV},
		{query.TableCourseQuality, db.cfg.QualityCSV},
	}

	for _, imp := range imports {
		if imp.path == "" {
			continue
		}
		if _, err := db.Import(ctx, imp.table, imp.path); err != nil {
			return err
		}
	}
	return nil
}

func readerFor(path string) (string, error) {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".csv", ".tsv":
		return "read_csv_auto", nil
	case ".parquet":
		return "read_parquet", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
