// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package frame

import "fmt"

// VectorTable is a keyed matrix of numeric features. Row i belongs to Keys().At(i).
type VectorTable struct {
	*KeyTable
	columns []string
	values  [][]float64
}

// NewVectorTable builds a vector table. Every row must have len(columns) values.
func NewVectorTable(source string, keys []Key, columns []string, values [][]float64) (*VectorTable, error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %s has %d keys for %d rows", ErrDataUnavailable, source, len(keys), len(values))
	}
	rows := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: %s row %d has %d values for %d columns", ErrDataUnavailable, source, i, len(row), len(columns))
		}
		rows[i] = append([]float64(nil), row...)
	}
	return &VectorTable{
		KeyTable: NewKeyTable(source, keys),
		columns:  append([]string(nil), columns...),
		values:   rows,
	}, nil
}

// Columns returns the feature column names in vector order.
func (t *VectorTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Dim returns the vector length.
func (t *VectorTable) Dim() int {
	return len(t.columns)
}

// Row returns a copy of row i.
func (t *VectorTable) Row(i int) []float64 {
	return append([]float64(nil), t.values[i]...)
}

// Rows returns a copy of the full matrix in row order.
func (t *VectorTable) Rows() [][]float64 {
	rows := make([][]float64, len(t.values))
	for i := range t.values {
		rows[i] = t.Row(i)
	}
	return rows
}

// Vector returns a copy of the first row stored under k.
func (t *VectorTable) Vector(k Key) ([]float64, bool) {
	i, ok := t.Position(k)
	if !ok {
		return nil, false
	}
	return t.Row(i), true
}
