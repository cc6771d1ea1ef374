// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/vintner/internal/frame"
)

func TestExhaustiveIndex_QueryRowIsNearest(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}, {-1, 0, 1}, {9, 9, 9}}
	idx, err := NewExhaustiveIndex(rows)
	if err != nil {
		t.Fatal(err)
	}

	for r, row := range rows {
		dists, indices, err := idx.Query(row, 1)
		if err != nil {
			t.Fatalf("Query(row %d) error = %v", r, err)
		}
		if indices[0] != r || math.Abs(dists[0]) > 1e-12 {
			t.Errorf("Query(row %d) nearest = %d at %v, want %d at 0", r, indices[0], dists[0], r)
		}
	}
}

func TestExhaustiveIndex_Query(t *testing.T) {
	idx, _ := NewExhaustiveIndex([][]float64{{3, 4}, {1, 0}, {0, 1}, {0, 0}})

	dists, indices, err := idx.Query([]float64{0, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(indices) != 4 {
		t.Fatalf("k clamp: got %d results, want 4", len(indices))
	}
	wantIdx := []int{3, 1, 2, 0}
	wantDist := []float64{0, 1, 1, 5}
	for i := range wantIdx {
		if indices[i] != wantIdx[i] || dists[i] != wantDist[i] {
			t.Errorf("result %d = (%d, %v), want (%d, %v)", i, indices[i], dists[i], wantIdx[i], wantDist[i])
		}
	}
}

func TestExhaustiveIndex_Errors(t *testing.T) {
	if _, err := NewExhaustiveIndex([][]float64{{1, 2}, {1}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ragged rows error = %v, want ErrDimensionMismatch", err)
	}

	idx, _ := NewExhaustiveIndex([][]float64{{1, 2}})
	if _, _, err := idx.Query([]float64{1}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short query error = %v, want ErrDimensionMismatch", err)
	}
	if _, _, err := idx.Query([]float64{1, 2}, -1); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("negative k error = %v, want ErrInvalidCount", err)
	}
}

func TestNewOrderedCorpusWithIndex_Misaligned(t *testing.T) {
	vt, err := frame.NewVectorTable("v", []frame.Key{{1, 1}, {2, 2}}, []string{"a"}, [][]float64{{1}, {2}})
	if err != nil {
		t.Fatal(err)
	}
	idx, _ := NewExhaustiveIndex([][]float64{{1}})

	if _, err := NewOrderedCorpusWithIndex("v", vt, idx); !errors.Is(err, ErrCorpusMisaligned) {
		t.Errorf("error = %v, want ErrCorpusMisaligned", err)
	}
}

func TestOrderedCorpus_DuplicateKeyUsesFirstRow(t *testing.T) {
	vt, err := frame.NewVectorTable("v",
		[]frame.Key{{1, 1}, {2, 2}, {1, 1}},
		[]string{"a"},
		[][]float64{{5}, {1}, {0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewOrderedCorpus("v", vt)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.distancesByRow([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 distinct keys", len(got))
	}
	if got[0].key != (frame.Key{1, 1}) || got[0].distance != 5 {
		t.Errorf("first = %+v, want 1/1 at distance 5", got[0])
	}
}
