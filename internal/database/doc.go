// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package database is the local purchase source, backed by DuckDB.
//
// # Overview
//
// A DB holds the shop tables (carts, cart_items and optionally
// course_quality) in one schema, either in a DuckDB file or in memory.
// Tables are populated from CSV or Parquet exports with Import, then read
// with the same successful-purchase query the Postgres source runs (see
// package query).
//
// Typical use:
//
//	db, err := database.New(&cfg.Source)
//	if err != nil { ... }
//	defer db.Close()
//
//	if err := db.ImportConfigured(ctx); err != nil { ... }
//	purchases, err := db.LoadPurchases(ctx)
//
// # Database Technology
//
// DuckDB is opened through database/sql with the CGO driver
// github.com/duckdb/duckdb-go/v2. Its read_csv_auto and read_parquet table
// functions infer column types, so exports can be loaded without a schema
// definition.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools the connections.
package database
