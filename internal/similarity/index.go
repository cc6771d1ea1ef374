// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package similarity ranks corpus wines against a reference wine in two metric
// spaces and fuses the distances into one list.
//
// The structured space holds normalized composition and weather vectors. The
// text space holds aggregated review embeddings and only covers wines with
// at least one review. Each space is an OrderedCorpus: an Index paired with the
// key table it was built from, so row indices map back to (WineID, Vintage).
package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnknownWineVintage is returned when the reference pair is not in the ratings table.
	ErrUnknownWineVintage = errors.New("unknown wine vintage")

	// ErrSchemaMismatch is returned when a query vector's columns differ from the corpus columns.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrDimensionMismatch is returned when a vector length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorpusMisaligned is returned when an index and its key table disagree on row count.
	ErrCorpusMisaligned = errors.New("index and key table are misaligned")

	// ErrInvalidCount is returned for a negative candidate count.
	ErrInvalidCount = errors.New("candidate count must not be negative")
)

// Index answers k-nearest-neighbor queries over a fixed set of rows.
// Returned indices are row positions in the data the index was built from.
type Index interface {
	Query(vector []float64, k int) (distances []float64, indices []int, err error)
	Len() int
}

// ExhaustiveIndex computes exact Euclidean distances to every row.
type ExhaustiveIndex struct {
	rows [][]float64
	dim  int
}

// NewExhaustiveIndex copies rows into a new index. All rows must share one length.
func NewExhaustiveIndex(rows [][]float64) (*ExhaustiveIndex, error) {
	idx := &ExhaustiveIndex{rows: make([][]float64, len(rows))}
	for i, row := range rows {
		if i == 0 {
			idx.dim = len(row)
		} else if len(row) != idx.dim {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(row), idx.dim)
		}
		idx.rows[i] = append([]float64(nil), row...)
	}
	return idx, nil
}

// Len returns the number of indexed rows.
func (x *ExhaustiveIndex) Len() int {
	return len(x.rows)
}

// Dim returns the vector length of the index.
func (x *ExhaustiveIndex) Dim() int {
	return x.dim
}

// Query returns the k nearest rows by ascending distance. Equal distances keep
// row order. k larger than the index is clamped.
func (x *ExhaustiveIndex) Query(vector []float64, k int) ([]float64, []int, error) {
	if k < 0 {
		return nil, nil, ErrInvalidCount
	}
	if len(x.rows) > 0 && len(vector) != x.dim {
		return nil, nil, fmt.Errorf("%w: query has %d values, index has %d", ErrDimensionMismatch, len(vector), x.dim)
	}
	if k > len(x.rows) {
		k = len(x.rows)
	}

	order := make([]int, len(x.rows))
	dists := make([]float64, len(x.rows))
	for i, row := range x.rows {
		order[i] = i
		dists[i] = euclidean(vector, row)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dists[order[a]] < dists[order[b]]
	})

	outDist := make([]float64, k)
	outIdx := make([]int, k)
	for i := 0; i < k; i++ {
		outIdx[i] = order[i]
		outDist[i] = dists[order[i]]
	}
	return outDist, outIdx, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
