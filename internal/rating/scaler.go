// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vintner/internal/frame"
)

// MinMaxScaler is a fitted per-column min-max transform: x' = x*scale + min.
type MinMaxScaler struct {
	FeatureNames []string  `json:"feature_names"`
	Min          []float64 `json:"min"`
	Scale        []float64 `json:"scale"`
}

// StandardScaler is a fitted single-column standardization: x' = (x - mean) / scale.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadMinMaxScaler reads a min-max scaler export and checks it covers FeatureColumns in order.
func LoadMinMaxScaler(path string) (*MinMaxScaler, error) {
	var s MinMaxScaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", frame.ErrDataUnavailable, path, err)
	}
	return &s, nil
}

func (s *MinMaxScaler) validate() error {
	if !slices.Equal(s.FeatureNames, FeatureColumns) {
		return fmt.Errorf("min-max scaler features %v, want %v", s.FeatureNames, FeatureColumns)
	}
	if len(s.Min) != len(FeatureColumns) || len(s.Scale) != len(FeatureColumns) {
		return fmt.Errorf("min-max scaler has %d min and %d scale values, want %d", len(s.Min), len(s.Scale), len(FeatureColumns))
	}
	return nil
}

// Transform scales one feature row into a new slice.
func (s *MinMaxScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = x*s.Scale[i] + s.Min[i]
	}
	return out
}

// LoadStandardScaler reads a standard scaler export with exactly one column.
func LoadStandardScaler(path string) (*StandardScaler, error) {
	var s StandardScaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) != 1 || len(s.Scale) != 1 {
		return nil, fmt.Errorf("%w: %s: standard scaler must have one column, has %d mean and %d scale values",
			frame.ErrDataUnavailable, path, len(s.Mean), len(s.Scale))
	}
	return &s, nil
}

// Transform standardizes x. A zero scale is treated as 1.
func (s *StandardScaler) Transform(x float64) float64 {
	scale := s.Scale[0]
	if scale == 0 {
		scale = 1
	}
	return (x - s.Mean[0]) / scale
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrDataUnavailable, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", frame.ErrDataUnavailable, path, err)
	}
	return nil
}
