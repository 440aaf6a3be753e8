// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/coursepair/internal/config"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01"}, ErrMissingTable},
		{"undefined schema", &pgconn.PgError{Code: "3F000"}, ErrMissingTable},
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, ErrPermission},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, ErrTimeout},
		{"context deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify("query purchases", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) && !errors.Is(got, context.DeadlineExceeded) {
				t.Errorf("classify() dropped the cause: %v", got)
			}
		})
	}
}

func TestClassify_Unknown(t *testing.T) {
	t.Parallel()

	cause := &pgconn.PgError{Code: "22012"}
	got := classify("query purchases", cause)
	for _, sentinel := range []error{ErrMissingTable, ErrPermission, ErrTimeout} {
		if errors.Is(got, sentinel) {
			t.Errorf("classify(22012) matched %v", sentinel)
		}
	}
	var pgErr *pgconn.PgError
	if !errors.As(got, &pgErr) {
		t.Errorf("classify() lost *pgconn.PgError: %v", got)
	}
	if classify("noop", nil) != nil {
		t.Error("classify(nil) != nil")
	}
}

func TestNew_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.SourceConfig
		wantErr error
	}{
		{
			name:    "missing dsn",
			cfg:     config.SourceConfig{Driver: config.DriverPostgres, Schema: "final"},
			wantErr: ErrMissingDSN,
		},
		{
			name: "bad window",
			cfg: config.SourceConfig{
				Driver:   config.DriverPostgres,
				Schema:   "final",
				Since:    "yesterday",
				Postgres: config.PostgresConfig{DSN: "postgres://localhost/shop"},
			},
		},
		{
			name: "unparsable dsn",
			cfg: config.SourceConfig{
				Driver:   config.DriverPostgres,
				Schema:   "final",
				Postgres: config.PostgresConfig{DSN: "postgres://user@localhost:notaport/shop"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := New(context.Background(), &tt.cfg)
			if err == nil {
				_ = src.Close()
				t.Fatal("New() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
