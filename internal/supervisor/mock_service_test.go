// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService blocks until canceled, optionally failing its first starts.
type mockService struct {
	name      string
	starts    atomic.Int32
	failCount atomic.Int32
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failCount.Load() > 0 {
		m.failCount.Add(-1)
		return errors.New("mock failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}

func (m *mockService) StartCount() int {
	return int(m.starts.Load())
}

// SetFailCount makes the next n starts fail immediately.
func (m *mockService) SetFailCount(n int) {
	m.failCount.Store(int32(n))
}
