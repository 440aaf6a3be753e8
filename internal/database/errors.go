// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/coursepair/internal/logging"
)

// ErrUnsupportedFormat is returned by Import for files that are neither CSV
// nor Parquet.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
