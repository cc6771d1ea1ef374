// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/weather"
)

// ErrNotCovered is returned by a BlockSource that has no data for the requested region or year.
var ErrNotCovered = errors.New("weather source does not cover year")

// BlockSource yields the monthly weather of one region and year.
type BlockSource interface {
	Block(ctx context.Context, regionID int64, year int, fields []weather.Field) (weather.Block, error)
}

// TableSource serves blocks from a precomputed monthly forecast table.
type TableSource struct {
	table *weather.Table
}

// NewTableSource wraps a loaded forecast table.
func NewTableSource(table *weather.Table) *TableSource {
	return &TableSource{table: table}
}

// Block returns the table's months of year. A partially covered year is
// returned as-is so the pipeline can reject it.
func (s *TableSource) Block(_ context.Context, regionID int64, year int, fields []weather.Field) (weather.Block, error) {
	for _, f := range fields {
		if !s.table.HasField(f) {
			return weather.Block{}, fmt.Errorf("%w: %s has no column %s", frame.ErrDataUnavailable, s.table.Source, f)
		}
	}
	series, ok := s.table.Region(regionID)
	if !ok {
		return weather.Block{}, fmt.Errorf("%w: region %d", ErrNotCovered, regionID)
	}
	block := series.Year(year, fields)
	if block.Len() == 0 {
		return weather.Block{}, fmt.Errorf("%w: region %d year %d", ErrNotCovered, regionID, year)
	}
	return block, nil
}

// ForecastSource forecasts the months of a year from a region's observed history.
// It issues one forecaster call per field, in field order; pacing is the
// forecaster's concern.
type ForecastSource struct {
	forecaster forecast.Forecaster
	history    *weather.Table
	frequency  string
	maxHorizon int
	logger     zerolog.Logger
}

// NewForecastSource creates a source over history. maxHorizon <= 0 disables the horizon limit.
func NewForecastSource(f forecast.Forecaster, history *weather.Table, frequency string, maxHorizon int) *ForecastSource {
	return &ForecastSource{
		forecaster: f,
		history:    history,
		frequency:  frequency,
		maxHorizon: maxHorizon,
		logger:     logging.WithComponent("rating"),
	}
}

// Block forecasts far enough past the end of the history to cover December of year.
// Months of year already in the history are kept.
func (s *ForecastSource) Block(ctx context.Context, regionID int64, year int, fields []weather.Field) (weather.Block, error) {
	series, ok := s.history.Region(regionID)
	if !ok || series.Len() == 0 {
		return weather.Block{}, fmt.Errorf("%w: no weather history for region %d", ErrNotCovered, regionID)
	}

	horizon := series.Last().MonthsUntil(weather.Period{Year: year, Month: 12})
	if horizon <= 0 {
		return series.Year(year, fields), nil
	}
	if s.maxHorizon > 0 && horizon > s.maxHorizon {
		return weather.Block{}, fmt.Errorf("%w: year %d is %d months past history, limit %d",
			ErrNotCovered, year, horizon, s.maxHorizon)
	}

	points := make(map[weather.Field][]weather.Point, len(fields))
	for _, f := range fields {
		history, ok := series.Points(f)
		if !ok {
			return weather.Block{}, fmt.Errorf("%w: %s has no column %s", frame.ErrDataUnavailable, s.history.Source, f)
		}
		predicted, err := s.forecaster.Forecast(ctx, forecast.Request{
			History:   history,
			Horizon:   horizon,
			Field:     f,
			Frequency: s.frequency,
		})
		if err != nil {
			return weather.Block{}, fmt.Errorf("forecast %s for region %d: %w", f, regionID, err)
		}
		points[f] = append(history, predicted...)
	}

	s.logger.Debug().
		Int64("region_id", regionID).
		Int("year", year).
		Int("horizon", horizon).
		Int("fields", len(fields)).
		Msg("Forecast weather block")
	block, err := weather.BlockFromPoints(year, points)
	if err != nil {
		return weather.Block{}, fmt.Errorf("%w: region %d: %w", ErrInsufficientForecastData, regionID, err)
	}
	return block, nil
}

// ChainSource tries each source in order until one covers the year.
type ChainSource []BlockSource

// Block returns the first covering source's block. Errors other than ErrNotCovered stop the chain.
func (c ChainSource) Block(ctx context.Context, regionID int64, year int, fields []weather.Field) (weather.Block, error) {
	for _, src := range c {
		b, err := src.Block(ctx, regionID, year, fields)
		if errors.Is(err, ErrNotCovered) {
			continue
		}
		return b, err
	}
	return weather.Block{}, fmt.Errorf("%w: region %d year %d", ErrNotCovered, regionID, year)
}
