// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	loggerKey contextKey = "logger"
)

// GenerateRunID returns a new identifier for one batch run.
func GenerateRunID() string {
	return uuid.New().String()
}

// ContextWithRunID stores a run id in ctx.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextWithNewRunID stores a freshly generated run id in ctx.
func ContextWithNewRunID(ctx context.Context) context.Context {
	return ContextWithRunID(ctx, GenerateRunID())
}

// RunIDFromContext returns the run id stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in ctx. Ctx prefers it over the
// global logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx or the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger carrying the context's run id.
//
//	logging.Ctx(ctx).Info().Int("pairs", len(counts)).Msg("aggregated pairs")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := LoggerFromContext(ctx)
	if runID := RunIDFromContext(ctx); runID != "" {
		logger = logger.With().Str("run_id", runID).Logger()
	}
	return &logger
}
