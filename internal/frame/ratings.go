// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package frame

// VintageRating is one historical rating row. Rating is nil when the source cell is NULL.
type VintageRating struct {
	Vintage int64
	Rating  *float64
}

// RatingTable is the wine rating history used by predict-all.
type RatingTable struct {
	*KeyTable
	ratings []*float64
}

// NewRatingTable pairs each key with its average rating.
func NewRatingTable(source string, keys []Key, ratings []*float64) *RatingTable {
	copied := make([]*float64, len(ratings))
	for i, r := range ratings {
		if r != nil {
			v := *r
			copied[i] = &v
		}
	}
	return &RatingTable{KeyTable: NewKeyTable(source, keys), ratings: copied}
}

// ForWine returns every rating row of one wine in file order. Duplicate vintages are kept.
func (t *RatingTable) ForWine(wineID int64) []VintageRating {
	out := []VintageRating{}
	for i, k := range t.keys {
		if k.WineID != wineID {
			continue
		}
		vr := VintageRating{Vintage: k.Vintage}
		if r := t.ratings[i]; r != nil {
			v := *r
			vr.Rating = &v
		}
		out = append(out, vr)
	}
	return out
}

// FeatureFrames are the four aligned tables of the comparison path.
type FeatureFrames struct {
	// Ratings enumerates the (wine, vintage) pairs that can be compared.
	Ratings *KeyTable
	// Composition holds the normalized composition and weather vectors.
	Composition *VectorTable
	// ReviewFlags lists keys with at least one non-null review-derived rating.
	ReviewFlags *KeyTable
	// TextReviews holds the aggregated text-review document vectors.
	TextReviews *VectorTable
}
