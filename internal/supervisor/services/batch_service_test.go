// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

type fakeJob struct {
	runs  atomic.Int32
	err   error
	block bool
}

func (j *fakeJob) RunOnce(ctx context.Context) error {
	j.runs.Add(1)
	if j.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return j.err
}

var _ suture.Service = (*BatchService)(nil)

func TestBatchService_Serve(t *testing.T) {
	t.Parallel()

	runErr := errors.New("load: connection refused")
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"success", nil, nil},
		{"failure", runErr, runErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := &fakeJob{err: tt.err}
			svc := NewBatchService(job)
			if svc.Finished() {
				t.Fatal("Finished() before Serve")
			}

			err := svc.Serve(context.Background())
			if !errors.Is(err, suture.ErrDoNotRestart) {
				t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want wrapped %v", err, tt.wantErr)
			}
			if !svc.Finished() {
				t.Error("Finished() = false after Serve")
			}
			if !errors.Is(svc.Err(), tt.wantErr) {
				t.Errorf("Err() = %v, want %v", svc.Err(), tt.wantErr)
			}

			// A second start must not run the job again.
			if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
				t.Errorf("second Serve() = %v", err)
			}
			if job.runs.Load() != 1 {
				t.Errorf("runs = %d, want 1", job.runs.Load())
			}
		})
	}
}

func TestBatchService_Canceled(t *testing.T) {
	t.Parallel()

	svc := NewBatchService(&fakeJob{block: true})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	select {
	case <-svc.Done():
	default:
		t.Fatal("Done not closed")
	}
	if !errors.Is(svc.Err(), context.Canceled) {
		t.Errorf("Err() = %v", svc.Err())
	}
}

func TestBatchService_UnderSupervisor(t *testing.T) {
	t.Parallel()

	job := &fakeJob{}
	svc := NewBatchService(job)

	sup := suture.New("test-sup", suture.Spec{
		FailureBackoff: 10 * time.Millisecond,
		Timeout:        time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	select {
	case <-svc.Done():
	case <-time.After(time.Second):
		t.Fatal("batch did not finish")
	}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-errCh

	if job.runs.Load() != 1 {
		t.Errorf("runs = %d, want 1", job.runs.Load())
	}
}
