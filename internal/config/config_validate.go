// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/coursepair/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateSource(); err != nil {
		return err
	}

	if err := c.validateQuality(); err != nil {
		return err
	}

	return c.validateRecommend()
}

// validateSource checks the settings the selected driver needs.
func (c *Config) validateSource() error {
	since, until, err := c.Source.Window()
	if err != nil {
		return err
	}
	if since != nil && until != nil && !since.Before(*until) {
		return fmt.Errorf("source.since must be before source.until")
	}

	switch c.Source.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Source.Postgres.DSN) == "" {
			return fmt.Errorf("POSTGRES_DSN is required when SOURCE_DRIVER=postgres")
		}
	case DriverDuckDB:
		d := c.Source.DuckDB
		if d.Path == ":memory:" && d.CartsCSV == "" {
			return fmt.Errorf("CARTS_CSV is required with an in-memory DuckDB source")
		}
		if (d.CartsCSV == "") != (d.CartItemsCSV == "") {
			return fmt.Errorf("CARTS_CSV and CART_ITEMS_CSV must be set together")
		}
	}
	return nil
}

// validateQuality rejects the table provider when no table can exist.
func (c *Config) validateQuality() error {
	if c.Quality.Provider != QualityTable {
		return nil
	}
	if c.Source.Driver != DriverDuckDB {
		return fmt.Errorf("QUALITY_PROVIDER=table requires SOURCE_DRIVER=duckdb")
	}
	if c.Source.DuckDB.Path == ":memory:" && c.Source.DuckDB.QualityCSV == "" {
		return fmt.Errorf("COURSE_QUALITY_CSV is required for QUALITY_PROVIDER=table with an in-memory DuckDB source")
	}
	return nil
}

// validateRecommend catches what struct tags cannot: NaN floors and
// repeated floors, which would write the same report file twice.
func (c *Config) validateRecommend() error {
	seen := make(map[float64]int, len(c.Recommend.MinQualities))
	for i, q := range c.Recommend.MinQualities {
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("recommend.min_qualities[%d] must be a finite number, got %v", i, q)
		}
		if j, ok := seen[q]; ok {
			return fmt.Errorf("recommend.min_qualities[%d] repeats min_qualities[%d] (%v)", i, j, q)
		}
		seen[q] = i
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
