// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package similarity

import (
	"fmt"
	"slices"

	"github.com/tomtom215/vintner/internal/frame"
)

// Vector is a feature vector with its column names.
type Vector struct {
	Columns []string
	Values  []float64
}

// Query is the reference wine in both metric spaces.
type Query struct {
	Key        frame.Key
	Structured Vector
	// Text is nil when the wine has no review-derived rating.
	Text *Vector
}

// HasTextReview reports whether the query carries a text vector.
func (q *Query) HasTextReview() bool {
	return q.Text != nil
}

// QueryBuilder shapes the query vectors of one (wine, vintage) pair.
type QueryBuilder struct {
	frames     *frame.FeatureFrames
	structCols []string
	textCols   []string
}

// NewQueryBuilder checks vectors against the columns of the two corpora.
func NewQueryBuilder(frames *frame.FeatureFrames, structured, text *OrderedCorpus) *QueryBuilder {
	return &QueryBuilder{
		frames:     frames,
		structCols: structured.Columns(),
		textCols:   text.Columns(),
	}
}

// Build extracts the structured vector and, when the pair has a review, the text vector.
func (b *QueryBuilder) Build(key frame.Key) (*Query, error) {
	if !b.frames.Ratings.Contains(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWineVintage, key)
	}

	structured, ok := b.frames.Composition.Vector(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing from %s", ErrUnknownWineVintage, key, b.frames.Composition.Source())
	}
	q := &Query{
		Key:        key,
		Structured: Vector{Columns: b.frames.Composition.Columns(), Values: structured},
	}
	if !slices.Equal(q.Structured.Columns, b.structCols) {
		return nil, fmt.Errorf("%w: composition columns differ from structured index", ErrSchemaMismatch)
	}

	if !b.frames.ReviewFlags.Contains(key) {
		return q, nil
	}

	text, ok := b.frames.TextReviews.Vector(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s is flagged in %s but missing from %s",
			frame.ErrDataUnavailable, key, b.frames.ReviewFlags.Source(), b.frames.TextReviews.Source())
	}
	q.Text = &Vector{Columns: b.frames.TextReviews.Columns(), Values: text}
	if !slices.Equal(q.Text.Columns, b.textCols) {
		return nil, fmt.Errorf("%w: text review columns differ from text index", ErrSchemaMismatch)
	}
	return q, nil
}
