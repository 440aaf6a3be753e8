// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/coursepair/internal/value"
)

// Source drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Quality providers.
const (
	QualitySynthetic = "synthetic"
	QualityTable     = "table"
)

// Config holds all settings of one batch run.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults
//  2. Config file (config.yaml)
//  3. Environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	runner, err := pipeline.New(cfg, source)
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Source     SourceConfig     `koanf:"source"`
	Quality    QualityConfig    `koanf:"quality"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Value      ValueConfig      `koanf:"value"`
	Output     OutputConfig     `koanf:"output"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SourceConfig selects where purchases come from.
type SourceConfig struct {
	Driver string `koanf:"driver" validate:"oneof=duckdb postgres"`

	// Schema holds the carts and cart_items tables in either database.
	Schema string `koanf:"schema" validate:"required"`

	// Since and Until (YYYY-MM-DD) restrict purchases to [Since, Until).
	Since string `koanf:"since" validate:"omitempty,datetime=2006-01-02"`
	Until string `koanf:"until" validate:"omitempty,datetime=2006-01-02"`

	DuckDB   DatabaseConfig `koanf:"duckdb"`
	Postgres PostgresConfig `koanf:"postgres"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"` // ":memory:" for an in-memory database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = use runtime.NumCPU()

	// CSV files imported into Schema before loading. Empty paths are skipped.
	CartsCSV     string `koanf:"carts_csv"`
	CartItemsCSV string `koanf:"cart_items_csv"`
	QualityCSV   string `koanf:"quality_csv"`
}

// Window parses Since and Until as UTC dates. Unset bounds are nil.
func (s SourceConfig) Window() (since, until *time.Time, err error) {
	parse := func(name, v string) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("source.%s: %w", name, err)
		}
		return &t, nil
	}

	if since, err = parse("since", s.Since); err != nil {
		return nil, nil, err
	}
	if until, err = parse("until", s.Until); err != nil {
		return nil, nil, err
	}
	return since, until, nil
}

// PostgresConfig holds the shop database connection.
type PostgresConfig struct {
	DSN            string        `koanf:"dsn"`
	MaxConns       int32         `koanf:"max_conns" validate:"gte=0"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
	QueryTimeout   time.Duration `koanf:"query_timeout" validate:"gte=0"`
}

// QualityConfig selects the course quality provider.
type QualityConfig struct {
	// Provider is "synthetic" (seeded random metrics) or "table" (scores
	// loaded from the course_quality table of the DuckDB source).
	Provider string `koanf:"provider" validate:"oneof=synthetic table"`
	Seed     int64  `koanf:"seed"`
}

// RecommendConfig drives index construction and batch reporting.
type RecommendConfig struct {
	// Threshold: pairs with at most this many co-purchasing users are dropped.
	Threshold int `koanf:"threshold" validate:"gte=0"`

	// N is the number of slots per course. The exported tables carry two
	// slot columns, so N is capped at 2.
	N int `koanf:"n" validate:"gte=0,lte=2"`

	// MinQualities runs one batch report per floor, in order. The last one
	// becomes the final recommendation table.
	MinQualities []float64 `koanf:"min_qualities" validate:"min=1,dive,gte=0"`

	Seed int64 `koanf:"seed"`

	// TopPairs is how many of the most frequent pairs are logged.
	TopPairs int `koanf:"top_pairs" validate:"gte=0"`
}

// ValueConfig holds the business assumptions of the value analytics.
type ValueConfig struct {
	Scenario value.ScenarioParams `koanf:"scenario"`
	AB       value.ABParams       `koanf:"ab"`
	ABSeed   int64                `koanf:"ab_seed"`
	ROI      value.ROIInput       `koanf:"roi"`
}

// OutputConfig controls exports.
type OutputConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// MetricsConfig controls Prometheus exposition. Both outputs are optional.
type MetricsConfig struct {
	// ListenAddr serves /metrics and the health endpoints while the batch runs.
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`

	// Linger keeps the listener up after the batch finishes so a scraper
	// can collect the final values.
	Linger time.Duration `koanf:"linger" validate:"gte=0"`

	// TextfilePath receives the registry in node-exporter textfile format
	// after the run.
	TextfilePath string `koanf:"textfile_path"`
}

// SupervisorConfig mirrors supervisor.TreeConfig.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gte=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Load reads configuration from all sources in priority order:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
