// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/coursepair/internal/config"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's built-in defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// TreeConfigFrom converts the loaded supervisor settings.
func TreeConfigFrom(cfg config.SupervisorConfig) TreeConfig {
	return TreeConfig{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}
}

// SupervisorTree manages the supervisor structure of a batch process.
//
// The tree has two layers:
//   - batch: the pipeline run
//   - api: the metrics and health listener
//
// A failing listener is restarted on its own and never interrupts a run
// in progress.
type SupervisorTree struct {
	root   *suture.Supervisor
	batch  *suture.Supervisor
	api    *suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
func NewSupervisorTree(logger *slog.Logger, cfg TreeConfig) (*SupervisorTree, error) {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	// Children inherit the EventHook when added to the root.
	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}

	root := suture.New("coursepair", rootSpec)
	batch := suture.New("batch-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(batch)
	root.Add(api)

	return &SupervisorTree{
		root:   root,
		batch:  batch,
		api:    api,
		logger: logger,
		config: cfg,
	}, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddBatchService adds a service to the batch layer.
func (t *SupervisorTree) AddBatchService(svc suture.Service) suture.ServiceToken {
	return t.batch.Add(svc)
}

// AddAPIService adds a service to the API layer.
// Use this for the HTTP listener.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// The returned channel receives the error (or nil) when the supervisor stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns the services that failed to stop within
// the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
