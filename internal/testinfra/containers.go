// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// terminateTimeout bounds container teardown when the test context is
// already gone.
const terminateTimeout = 30 * time.Second

// SkipIfNoDocker skips t when no container provider answers.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// CleanupContainer terminates container, logging instead of failing on
// error. Register it with t.Cleanup. A canceled ctx is replaced so the
// container is still removed.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()
	if container == nil {
		return
	}

	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
	}
	if err := container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
