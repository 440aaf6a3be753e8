// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/coursepair/internal/value"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/coursepair/config.yaml",
	"/etc/coursepair/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Source: SourceConfig{
			Driver: DriverDuckDB,
			Schema: "final",
			DuckDB: DatabaseConfig{
				Path:         ":memory:",
				MaxMemory:    "1GB",
				Threads:      0, // 0 = use runtime.NumCPU()
				CartsCSV:     "data/carts.csv",
				CartItemsCSV: "data/cart_items.csv",
			},
			Postgres: PostgresConfig{
				MaxConns:       4,
				ConnectTimeout: 10 * time.Second,
				QueryTimeout:   5 * time.Minute,
			},
		},
		Quality: QualityConfig{
			Provider: QualitySynthetic,
			Seed:     42,
		},
		Recommend: RecommendConfig{
			Threshold:    9,
			N:            2,
			MinQualities: []float64{0, 60},
			Seed:         42,
			TopPairs:     10,
		},
		Value: ValueConfig{
			Scenario: value.DefaultScenarioParams(),
			AB:       value.DefaultABParams(),
			ABSeed:   42,
			ROI:      value.DefaultROIInput(),
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Metrics: MetricsConfig{
			ListenAddr:   "", // disabled
			Linger:       0,
			TextfilePath: "",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables (highest priority)
	// RECOMMEND_THRESHOLD -> recommend.threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"recommend.min_qualities",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Source mappings
	"source_driver":            "source.driver",
	"source_schema":            "source.schema",
	"source_since":             "source.since",
	"source_until":             "source.until",
	"duckdb_path":              "source.duckdb.path",
	"duckdb_max_memory":        "source.duckdb.max_memory",
	"duckdb_threads":           "source.duckdb.threads",
	"carts_csv":                "source.duckdb.carts_csv",
	"cart_items_csv":           "source.duckdb.cart_items_csv",
	"course_quality_csv":       "source.duckdb.quality_csv",
	"postgres_dsn":             "source.postgres.dsn",
	"postgres_max_conns":       "source.postgres.max_conns",
	"postgres_connect_timeout": "source.postgres.connect_timeout",
	"postgres_query_timeout":   "source.postgres.query_timeout",

	// Quality mappings
	"quality_provider": "quality.provider",
	"quality_seed":     "quality.seed",

	// Recommendation mappings
	"recommend_threshold":     "recommend.threshold",
	"recommend_n":             "recommend.n",
	"recommend_min_qualities": "recommend.min_qualities",
	"recommend_seed":          "recommend.seed",
	"recommend_top_pairs":     "recommend.top_pairs",

	// Value analytics mappings
	"ltv_avg_course_price":         "value.scenario.avg_course_price",
	"ltv_lifespan_years":           "value.scenario.lifespan_years",
	"ltv_discount_rate":            "value.scenario.discount_rate",
	"ab_users":                     "value.ab.users",
	"ab_baseline_rate":             "value.ab.baseline_rate",
	"ab_recommendations_rate":      "value.ab.recommendations_rate",
	"ab_quality_rate":              "value.ab.quality_rate",
	"ab_seed":                      "value.ab_seed",
	"roi_development_cost":         "value.roi.development_cost",
	"roi_monthly_maintenance":      "value.roi.monthly_maintenance",
	"roi_monthly_revenue_increase": "value.roi.monthly_revenue_increase",
	"roi_months":                   "value.roi.months",

	// Output mappings
	"output_dir": "output.dir",

	// Metrics mappings
	"metrics_listen_addr": "metrics.listen_addr",
	"metrics_linger":      "metrics.linger",
	"metrics_textfile":    "metrics.textfile_path",

	// Supervisor mappings
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RECOMMEND_THRESHOLD -> recommend.threshold
//   - POSTGRES_DSN -> source.postgres.dsn
//   - LOG_LEVEL -> logging.level
//
// Unmapped variables return "" and are skipped so unrelated environment
// does not pollute the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
