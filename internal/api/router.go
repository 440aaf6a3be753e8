// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

// Package api serves the metrics and health endpoints of a batch process
// using the chi router. It never serves recommendations.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/coursepair/internal/logging"
)

// BatchStatus reports the state of the supervised batch.
// Satisfied by *services.BatchService.
type BatchStatus interface {
	Finished() bool
	Err() error
}

// Handler holds the state the health handlers read.
type Handler struct {
	batch     BatchStatus
	startTime time.Time
}

// Option configures the router.
type Option func(*options)

type options struct {
	gatherer prometheus.Gatherer
}

// WithGatherer serves gatherer at /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// NewRouter returns the HTTP handler for the metrics listener:
//
//	GET /metrics                Prometheus exposition
//	GET /api/v1/health/live     process is up
//	GET /api/v1/health/ready    batch finished successfully
func NewRouter(batch BatchStatus, opts ...Option) http.Handler {
	o := options{gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(&o)
	}
	h := &Handler{batch: batch, startTime: time.Now()}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogging)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))

	return r
}

// requestLogging logs each request at debug level. Scrapes are frequent
// and uninteresting otherwise.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logging.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
