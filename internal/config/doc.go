// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Package config provides centralized configuration management for Coursepair.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or config.yaml / config.yml in the
    working directory, or /etc/coursepair/config.yaml
 3. Environment variables listed in envTransformFunc

The command loads a .env file into the environment before Load runs, so
.env entries behave exactly like exported variables.

# Configuration Structure

  - LoggingConfig: level, format, caller
  - SourceConfig: purchase source driver (duckdb or postgres), schema,
    DuckDB file and CSV imports, Postgres DSN
  - QualityConfig: quality provider (synthetic or table) and seed
  - RecommendConfig: pair threshold, slots per course, min-quality runs, seed
  - ValueConfig: LTV scenario, A/B simulation and ROI assumptions
  - OutputConfig: export directory
  - MetricsConfig: optional /metrics listener and textfile output
  - SupervisorConfig: suture restart policy

# Environment Variables

Source:
  - SOURCE_DRIVER: duckdb or postgres (default: duckdb)
  - SOURCE_SCHEMA: schema holding carts and cart_items (default: final)
  - DUCKDB_PATH: database file, or :memory: (default: :memory:)
  - CARTS_CSV, CART_ITEMS_CSV, COURSE_QUALITY_CSV: files imported into DuckDB
  - POSTGRES_DSN: connection string, required for the postgres driver

Recommendation:
  - RECOMMEND_THRESHOLD: pairs need strictly more co-purchases (default: 9)
  - RECOMMEND_N: slots per course, at most 2 (default: 2)
  - RECOMMEND_MIN_QUALITIES: comma-separated quality floors (default: 0,60)
  - RECOMMEND_SEED: backfill seed (default: 42)

Output and observability:
  - OUTPUT_DIR: export directory (default: ./output)
  - METRICS_LISTEN_ADDR: serve /metrics while the batch runs (default: off)
  - METRICS_TEXTFILE: write metrics in textfile collector format
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Validate combines go-playground/validator struct tags (see
internal/validation) with cross-field checks such as "postgres requires a
DSN". Config is immutable after Load and safe for concurrent reads.
*/
package config
