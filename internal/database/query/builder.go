// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package query builds the DuckDB SQL used to scan parquet and CSV files.
package query

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a file extension has no DuckDB reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FileScan returns the DuckDB table function expression that reads path.
//
//	data.parquet -> read_parquet('data.parquet')
//	data.csv     -> read_csv_auto('data.csv', header = true)
func FileScan(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", QuoteLiteral(path)), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s, header = true)", QuoteLiteral(path)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// QuoteLiteral quotes s as a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ScanAll returns the statement that reads every row and column of path in file order.
func ScanAll(path string) (string, error) {
	scan, err := FileScan(path)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + scan, nil
}
