// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Command coursepair runs one co-purchase recommendation batch and exits.

It loads a purchase snapshot, counts how often every pair of courses was
bought by the same user, scores course quality, and writes a recommendation
table at each configured quality floor together with lifetime value, A/B
and ROI analytics.

# Process

	RootSupervisor ("coursepair")
	├── BatchSupervisor ("batch-layer")
	│   └── batch-pipeline
	└── APISupervisor ("api-layer")
	    └── http-server (only with METRICS_LISTEN_ADDR)

Startup order:

 1. .env (optional) via godotenv
 2. Configuration: Koanf v2 defaults, config.yaml, environment
 3. Logging: zerolog
 4. Purchase source: DuckDB (with optional CSV/Parquet import) or Postgres
 5. Pipeline runner
 6. Supervisor tree

When the batch ends the listener lingers for METRICS_LINGER so a scraper
can collect the final values, the textfile is written if configured, and
the tree is stopped. The exit status is 1 when the run failed.

# Example Usage

Local snapshot from CSV exports:

	export CARTS_CSV=./data/carts.csv
	export CART_ITEMS_CSV=./data/cart_items.csv
	export OUTPUT_DIR=./out
	./coursepair

Against the shop database, keeping /metrics up for a minute:

	export SOURCE_DRIVER=postgres
	export POSTGRES_DSN=postgres://reader@shop:5432/shop
	export METRICS_LISTEN_ADDR=:9464
	export METRICS_LINGER=1m
	./coursepair

# Signal Handling

SIGINT and SIGTERM cancel the run; the process exits once the supervisor
tree has stopped.
*/
package main
