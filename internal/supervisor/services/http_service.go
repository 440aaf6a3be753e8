// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepair/internal/logging"
)

// HTTPServer matches the lifecycle methods of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service.
//
// ListenAndServe runs in its own goroutine. Serve returns when the server
// fails or, after a graceful Shutdown bounded by the shutdown timeout,
// when the context is canceled.
//
//	server := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: api.NewRouter(batch)}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string
}

// NewHTTPServerService creates a new HTTP server service wrapper. A
// non-positive shutdownTimeout becomes 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	logger := logging.WithComponent("http")
	if s, ok := server.(*http.Server); ok {
		logger = logger.With().Str("addr", s.Addr).Logger()
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		name:            "http-server",
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	h.logger.Info().Msg("http listener started")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		h.logger.Info().Msg("http listener stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture's log messages.
func (h *HTTPServerService) String() string {
	return h.name
}
