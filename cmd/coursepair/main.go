// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/coursepair/internal/api"
	"github.com/tomtom215/coursepair/internal/config"
	"github.com/tomtom215/coursepair/internal/database"
	"github.com/tomtom215/coursepair/internal/logging"
	"github.com/tomtom215/coursepair/internal/metrics"
	"github.com/tomtom215/coursepair/internal/pipeline"
	"github.com/tomtom215/coursepair/internal/postgres"
	"github.com/tomtom215/coursepair/internal/supervisor"
	"github.com/tomtom215/coursepair/internal/supervisor/services"
)

func main() {
	os.Exit(run())
}

// source is a purchase source that holds a connection.
type source interface {
	pipeline.PurchaseSource
	io.Closer
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Source.Driver).Msg("failed to open purchase source")
		return 1
	}
	defer func() {
		if err := src.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing purchase source")
		}
	}()

	runner, err := pipeline.New(cfg, src)
	if err != nil {
		logging.Error().Err(err).Msg("failed to create pipeline")
		return 1
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		logging.Error().Err(err).Msg("failed to create supervisor tree")
		return 1
	}

	batch := services.NewBatchService(runner)
	tree.AddBatchService(batch)

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		server := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(batch),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))
		logging.Info().Str("addr", addr).Msg("metrics listener added")
	}

	treeCtx, cancelTree := context.WithCancel(ctx)
	defer cancelTree()
	errCh := tree.ServeBackground(treeCtx)

	select {
	case <-batch.Done():
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received, stopping batch")
	}

	if linger := cfg.Metrics.Linger; linger > 0 && cfg.Metrics.ListenAddr != "" && ctx.Err() == nil {
		logging.Info().Dur("linger", linger).Msg("batch finished, keeping metrics listener up")
		select {
		case <-time.After(linger):
		case <-ctx.Done():
		}
	}

	cancelTree()
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
	}

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logging.Error().Err(err).Msg("failed to write metrics textfile")
		}
	}

	if err := batchErr(ctx, batch); err != nil {
		logging.Error().Err(err).Msg("batch failed")
		return 1
	}
	logging.Info().Str("output_dir", cfg.Output.Dir).Msg("batch complete")
	return 0
}

// batchErr is the run error, or the cancellation that kept the run from
// finishing.
func batchErr(ctx context.Context, batch *services.BatchService) error {
	if batch.Finished() {
		return batch.Err()
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return errors.New("batch did not finish")
}

func openSource(ctx context.Context, cfg *config.Config) (source, error) {
	switch cfg.Source.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, &cfg.Source)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		db, err := database.New(&cfg.Source)
		if err != nil {
			return nil, err
		}
		if err := db.ImportConfigured(ctx); err != nil {
			closeErr := db.Close()
			return nil, errors.Join(fmt.Errorf("import: %w", err), closeErr)
		}
		logging.Info().
			Str("path", cfg.Source.DuckDB.Path).
			Str("schema", db.Schema()).
			Msg("DuckDB source ready")
		return db, nil
	}
}
