// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package similarity

import (
	"fmt"

	"github.com/tomtom215/vintner/internal/frame"
)

// OrderedCorpus pairs an index with the key table whose row order it was built from.
// Neither side may be re-sorted independently.
type OrderedCorpus struct {
	name    string
	keys    *frame.KeyTable
	columns []string
	index   Index
}

// NewOrderedCorpus builds an exhaustive index over the rows of table.
func NewOrderedCorpus(name string, table *frame.VectorTable) (*OrderedCorpus, error) {
	idx, err := NewExhaustiveIndex(table.Rows())
	if err != nil {
		return nil, fmt.Errorf("build %s index: %w", name, err)
	}
	return NewOrderedCorpusWithIndex(name, table, idx)
}

// NewOrderedCorpusWithIndex pairs a prebuilt index with table. The index must
// hold exactly one row per table row.
func NewOrderedCorpusWithIndex(name string, table *frame.VectorTable, idx Index) (*OrderedCorpus, error) {
	if idx.Len() != table.Len() {
		return nil, fmt.Errorf("%w: %s index has %d rows, key table has %d", ErrCorpusMisaligned, name, idx.Len(), table.Len())
	}
	return &OrderedCorpus{
		name:    name,
		keys:    table.KeyTable,
		columns: table.Columns(),
		index:   idx,
	}, nil
}

// Len returns the corpus size.
func (c *OrderedCorpus) Len() int {
	return c.keys.Len()
}

// Columns returns the feature columns the index was built on.
func (c *OrderedCorpus) Columns() []string {
	return append([]string(nil), c.columns...)
}

// keyDistance is one corpus key with its distance to the query.
type keyDistance struct {
	key      frame.Key
	distance float64
}

// distancesByRow ranks the whole corpus and returns per-key distances in corpus row order.
// A key repeated in the corpus keeps the distance of its first row.
func (c *OrderedCorpus) distancesByRow(vector []float64) ([]keyDistance, error) {
	dists, indices, err := c.index.Query(vector, c.Len())
	if err != nil {
		return nil, fmt.Errorf("query %s index: %w", c.name, err)
	}

	byRow := make([]float64, c.Len())
	found := make([]bool, c.Len())
	for i, row := range indices {
		if row < 0 || row >= len(byRow) {
			return nil, fmt.Errorf("%w: %s index returned row %d", ErrCorpusMisaligned, c.name, row)
		}
		byRow[row] = dists[i]
		found[row] = true
	}

	out := make([]keyDistance, 0, c.Len())
	seen := make(map[frame.Key]bool, c.Len())
	for row := 0; row < c.Len(); row++ {
		k := c.keys.At(row)
		if seen[k] || !found[row] {
			continue
		}
		seen[k] = true
		out = append(out, keyDistance{key: k, distance: byRow[row]})
	}
	return out, nil
}
