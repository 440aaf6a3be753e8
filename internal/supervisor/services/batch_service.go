// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/coursepair/internal/logging"
)

// BatchJob is one run of the pipeline.
// This allows the service to drive the runner without importing it.
type BatchJob interface {
	RunOnce(ctx context.Context) error
}

// BatchService runs a BatchJob once under supervision.
//
// Completion is signaled by closing Done. The job is not retried: a
// failure is reported through Err and the process decides the exit code.
type BatchService struct {
	job    BatchJob
	logger zerolog.Logger
	name   string

	once sync.Once
	done chan struct{}
	err  error
}

// NewBatchService creates a batch service for job.
func NewBatchService(job BatchJob) *BatchService {
	return &BatchService{
		job:    job,
		logger: logging.WithComponent("batch"),
		name:   "batch-pipeline",
		done:   make(chan struct{}),
	}
}

// Serve implements suture.Service. It runs the job in the supervisor's
// context and always returns suture.ErrDoNotRestart, wrapping the run
// error when there is one.
func (s *BatchService) Serve(ctx context.Context) error {
	select {
	case <-s.done:
		return suture.ErrDoNotRestart
	default:
	}

	start := time.Now()
	s.logger.Info().Msg("batch service starting")

	err := s.job.RunOnce(ctx)
	if err != nil && ctx.Err() != nil {
		// Shutdown raced the run; the supervisor is stopping anyway.
		s.finish(err)
		return ctx.Err()
	}
	s.finish(err)

	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("batch service failed")
		return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("batch service finished")
	return suture.ErrDoNotRestart
}

func (s *BatchService) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done is closed when the run has ended.
func (s *BatchService) Done() <-chan struct{} {
	return s.done
}

// Err returns the run error. Valid after Done is closed.
func (s *BatchService) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Finished reports whether the run has ended.
func (s *BatchService) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// String returns the service name for logging.
func (s *BatchService) String() string {
	return s.name
}
