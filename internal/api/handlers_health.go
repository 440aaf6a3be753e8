// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepair/internal/logging"
)

// Batch states reported by the readiness endpoint.
const (
	StateRunning  = "running"
	StateComplete = "complete"
	StateFailed   = "failed"
)

// HealthResponse is the body of both health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Batch     string    `json:"batch,omitempty"`
	Error     string    `json:"error,omitempty"`
	Uptime    float64   `json:"uptime_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthLive answers 200 while the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &HealthResponse{
		Status:    "alive",
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now(),
	})
}

// HealthReady answers 200 once the batch has finished without error and
// 503 while it runs or after it failed.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := &HealthResponse{
		Status:    "not_ready",
		Batch:     StateRunning,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now(),
	}
	status := http.StatusServiceUnavailable

	if h.batch != nil && h.batch.Finished() {
		if err := h.batch.Err(); err != nil {
			resp.Batch = StateFailed
			resp.Error = err.Error()
		} else {
			resp.Status = "ready"
			resp.Batch = StateComplete
			status = http.StatusOK
		}
	}
	respondJSON(w, status, resp)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	//nolint:errcheck // HTTP response write errors are not recoverable
	w.Write(data)
}
