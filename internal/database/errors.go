// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/vintner/internal/logging"
)

var (
	// ErrFileNotFound is returned when a scanned file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrReadFailed is returned when DuckDB cannot read or decode a file.
	ErrReadFailed = errors.New("file read failed")

	// ErrNotNumeric is returned when a cell cannot be converted to a number.
	ErrNotNumeric = errors.New("value is not numeric")
)

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource, ignoring any error.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
