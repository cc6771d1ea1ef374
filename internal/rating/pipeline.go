// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package rating turns a wine's attributes and vintage weather into regressor
// tensors and returns the predicted ratings.
//
// A prediction flows through three stages:
//
//	BlockSource -> Pipeline.Build -> Predictor.Predict
//
// The BlockSource yields 12 months of weather per vintage, the Pipeline
// encodes, scales and reshapes them, and the Predictor calls the Regressor.
package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/weather"
)

// ErrInsufficientForecastData is returned when a vintage has fewer than 12 months of weather.
var ErrInsufficientForecastData = errors.New("insufficient forecast data")

// FeatureColumns is the column order of a feature row and of the min-max scaler.
var FeatureColumns = func() []string {
	cols := []string{"Elaborate", "ABV", "Body", "Acidity"}
	for _, f := range weather.RatingFields {
		cols = append(cols, string(f))
	}
	return cols
}()

const (
	colElaboration = iota
	colABV
	colBody
	colAcidity
	colWeather
)

// ScalarWidth is the length of each scalar input vector.
const ScalarWidth = 4

// Wine is the subset of catalog attributes the regressor consumes.
type Wine struct {
	Elaboration string
	Body        string
	Acidity     string
	ABV         float64
	RegionID    int64
}

// Tensors is a batch of regressor inputs.
// TimeSeries is [batch][channels][12][1]; Scalars is [batch][4].
type Tensors struct {
	Layout     string
	Vintages   []int
	TimeSeries [][][][]float64
	Scalars    [][]float64
}

// Batch returns the number of vintages in the batch.
func (t *Tensors) Batch() int {
	return len(t.Vintages)
}

// Pipeline builds scaled regressor tensors.
type Pipeline struct {
	minmax   *MinMaxScaler
	standard *StandardScaler
	source   BlockSource
	logger   zerolog.Logger
}

// NewPipeline creates a pipeline from fitted scalers and a weather source.
func NewPipeline(minmax *MinMaxScaler, standard *StandardScaler, source BlockSource) *Pipeline {
	return &Pipeline{
		minmax:   minmax,
		standard: standard,
		source:   source,
		logger:   logging.WithComponent("rating"),
	}
}

// Build produces one tensor entry per batch vintage, in the order given.
func (p *Pipeline) Build(ctx context.Context, wine Wine, ratingYear int, vintages []int, layout Layout) (*Tensors, error) {
	codes, err := encode(wine)
	if err != nil {
		return nil, err
	}

	t := &Tensors{
		Layout:     layout.Name,
		Vintages:   make([]int, 0, len(vintages)),
		TimeSeries: make([][][][]float64, 0, len(vintages)),
		Scalars:    make([][]float64, 0, len(vintages)),
	}
	for _, vintage := range vintages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := p.rows(ctx, wine, codes, vintage, layout)
		if err != nil {
			return nil, err
		}
		ts, scalars := p.reshape(rows, ratingYear-vintage, layout)
		t.Vintages = append(t.Vintages, vintage)
		t.TimeSeries = append(t.TimeSeries, ts)
		t.Scalars = append(t.Scalars, scalars)
	}

	p.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Str("layout", layout.Name).
		Int("rating_year", ratingYear).
		Int("batch", t.Batch()).
		Msg("Built rating tensors")
	return t, nil
}

type categoryCodes struct {
	elaboration, body, acidity float64
}

func encode(w Wine) (categoryCodes, error) {
	elab, err := Elaboration.Code(w.Elaboration)
	if err != nil {
		return categoryCodes{}, err
	}
	body, err := Body.Code(w.Body)
	if err != nil {
		return categoryCodes{}, err
	}
	acid, err := Acidity.Code(w.Acidity)
	if err != nil {
		return categoryCodes{}, err
	}
	return categoryCodes{elaboration: float64(elab), body: float64(body), acidity: float64(acid)}, nil
}

// rows assembles and min-max scales the 12 feature rows of one vintage.
func (p *Pipeline) rows(ctx context.Context, wine Wine, codes categoryCodes, vintage int, layout Layout) ([][]float64, error) {
	block, err := p.source.Block(ctx, wine.RegionID, vintage, layout.Channels)
	if errors.Is(err, ErrNotCovered) {
		return nil, fmt.Errorf("%w: %w", ErrInsufficientForecastData, err)
	}
	if err != nil {
		return nil, err
	}
	if err := block.Check(layout.Channels); err != nil {
		return nil, fmt.Errorf("%w: region %d vintage %d: %w", ErrInsufficientForecastData, wine.RegionID, vintage, err)
	}

	rows := make([][]float64, weather.MonthsPerBlock)
	for m := range rows {
		row := make([]float64, len(FeatureColumns))
		row[colElaboration] = codes.elaboration
		row[colABV] = wine.ABV
		row[colBody] = codes.body
		row[colAcidity] = codes.acidity
		for i, f := range weather.RatingFields {
			if layout.modeled(f) {
				row[colWeather+i] = block.Values[f][m]
			}
		}
		rows[m] = p.minmax.Transform(row)
	}
	return rows, nil
}

// reshape lays scaled rows out as [channels][12][1] plus the month-0 scalars.
func (p *Pipeline) reshape(rows [][]float64, delta int, layout Layout) ([][][]float64, []float64) {
	ts := make([][][]float64, len(layout.Channels))
	for c, f := range layout.Channels {
		col := colWeather + weatherIndex(f)
		ts[c] = make([][]float64, len(rows))
		for m, row := range rows {
			ts[c][m] = []float64{row[col]}
		}
	}
	scalars := []float64{
		rows[0][colABV],
		rows[0][colBody],
		rows[0][colAcidity],
		p.standard.Transform(float64(delta)),
	}
	return ts, scalars
}

func weatherIndex(f weather.Field) int {
	for i, rf := range weather.RatingFields {
		if rf == f {
			return i
		}
	}
	panic(fmt.Sprintf("rating: %s is not a rating feature column", f))
}
