// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package logging provides the zerolog-based logger shared by every
// coursepair package.
//
// The global logger works before Init is called (JSON to stderr at info
// level). main reconfigures it once the configuration is loaded:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Int("courses", n).Msg("built recommendation index")
//
// Per-run fields (the run id) travel through context.Context; see Ctx.
//
// Always terminate an event chain with Msg or Send, otherwise nothing is
// written.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic, disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every event.
	Caller bool

	// Timestamp adds a time field to every event.
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Caller:    false,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	log = build(DefaultConfig())
}

// Init reconfigures the global logger. It is safe to call more than once.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

func build(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	var output io.Writer = cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(output).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// WithComponent returns a child logger tagged with a component field.
//
//	logger := logging.WithComponent("batch")
func WithComponent(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

// Level helpers write through the global logger.

func Debug() *zerolog.Event { return current().Debug() }
func Info() *zerolog.Event  { return current().Info() }
func Warn() *zerolog.Event  { return current().Warn() }
func Error() *zerolog.Event { return current().Error() }

// Fatal calls os.Exit(1) after the message is written.
func Fatal() *zerolog.Event { return current().Fatal() }

func current() *zerolog.Logger {
	l := Logger()
	return &l
}

// NewTestLogger creates a logger writing JSON lines to w.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
