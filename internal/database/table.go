// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package database

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Table is a fully materialized scan result. Rows keep file order.
type Table struct {
	Source  string
	Columns []string
	Rows    [][]interface{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column by exact name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// MissingColumns returns the names in required that the table lacks.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := t.ColumnIndex(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsNull reports whether a cell is NULL.
func (t *Table) IsNull(row, col int) bool {
	return t.Rows[row][col] == nil
}

// Float returns a numeric cell as float64.
func (t *Table) Float(row, col int) (float64, error) {
	v := t.Rows[row][col]
	f, ok := ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s row %d column %s = %v", ErrNotNumeric, t.Source, row, t.Columns[col], v)
	}
	return f, nil
}

// Int returns an integral cell as int64. Floats are accepted when they hold an integer value.
func (t *Table) Int(row, col int) (int64, error) {
	v := t.Rows[row][col]
	n, ok := ToInt64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s row %d column %s = %v", ErrNotNumeric, t.Source, row, t.Columns[col], v)
	}
	return n, nil
}

// String returns a cell as a string. NULL becomes the empty string.
func (t *Table) String(row, col int) string {
	switch v := t.Rows[row][col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// ToFloat64 converts the Go values DuckDB produces for numeric columns.
func ToFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case interface{ Float64() float64 }:
		// DECIMAL columns
		return n.Float64(), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToInt64 converts integral DuckDB values and integer-valued floats.
func ToInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case *big.Int:
		if !n.IsInt64() {
			return 0, false
		}
		return n.Int64(), true
	}

	f, ok := ToFloat64(v)
	if !ok || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
