// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package frame holds the read-only reference tables keyed by (WineID, Vintage).
//
// Tables are built once by Loader and shared across requests. Accessors never
// hand out internal slices: vectors and key lists are returned as copies.
package frame

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned when a required file is missing or malformed.
var ErrDataUnavailable = errors.New("data unavailable")

// Identity and display columns dropped from feature vectors.
const (
	ColWineID        = "WineID"
	ColVintage       = "Vintage"
	ColWineName      = "WineName"
	ColAverageRating = "AverageRating"
)

// Key is the (external wine id, vintage) join key shared by every table.
type Key struct {
	WineID  int64 `json:"wine_id"`
	Vintage int64 `json:"vintage"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.WineID, k.Vintage)
}

// KeyTable is an ordered list of keys. Row order is preserved from the source file.
type KeyTable struct {
	source string
	keys   []Key
	first  map[Key]int
}

// NewKeyTable indexes keys by first occurrence.
func NewKeyTable(source string, keys []Key) *KeyTable {
	t := &KeyTable{
		source: source,
		keys:   append([]Key(nil), keys...),
		first:  make(map[Key]int, len(keys)),
	}
	for i, k := range t.keys {
		if _, seen := t.first[k]; !seen {
			t.first[k] = i
		}
	}
	return t
}

// Source returns the file the table was loaded from.
func (t *KeyTable) Source() string {
	return t.source
}

// Len returns the number of rows, duplicates included.
func (t *KeyTable) Len() int {
	return len(t.keys)
}

// At returns the key of row i.
func (t *KeyTable) At(i int) Key {
	return t.keys[i]
}

// Contains reports whether the key appears in the table.
func (t *KeyTable) Contains(k Key) bool {
	_, ok := t.first[k]
	return ok
}

// Position returns the first row holding k.
func (t *KeyTable) Position(k Key) (int, bool) {
	i, ok := t.first[k]
	return i, ok
}

// VintagesOf returns the distinct vintages of one wine in first-appearance order.
func (t *KeyTable) VintagesOf(wineID int64) []int64 {
	vintages := []int64{}
	seen := make(map[int64]bool)
	for _, k := range t.keys {
		if k.WineID == wineID && !seen[k.Vintage] {
			seen[k.Vintage] = true
			vintages = append(vintages, k.Vintage)
		}
	}
	return vintages
}
