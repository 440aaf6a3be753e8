// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrMissingDSN is returned by New when no connection string is set.
	ErrMissingDSN = errors.New("postgres dsn is required")

	// ErrMissingTable means the shop schema lacks carts, cart_items or
	// course_quality.
	ErrMissingTable = errors.New("source table does not exist")

	// ErrPermission means the role cannot read the shop schema.
	ErrPermission = errors.New("permission denied on source table")

	// ErrTimeout means the query hit the configured query timeout.
	ErrTimeout = errors.New("source query timed out")
)

// classify wraps err with a sentinel when the server error code or the
// context tells us what went wrong.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "42P01", "3F000": // undefined_table, invalid_schema_name
			return fmt.Errorf("%s: %w: %w", op, ErrMissingTable, err)
		case "42501": // insufficient_privilege
			return fmt.Errorf("%s: %w: %w", op, ErrPermission, err)
		case "57014": // query_canceled (statement_timeout)
			return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
