// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vintner/internal/database"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/weather"
)

// Weather table key columns.
const (
	ColRegionID = "RegionID"
	ColYear     = "year"
	ColMonth    = "month"
)

// Reader materializes one data file. *database.DB implements it.
type Reader interface {
	ReadFile(ctx context.Context, path string) (*database.Table, error)
}

// Sources names the files of the comparison path.
type Sources struct {
	Ratings     string
	Composition string
	ReviewFlags string
	TextReviews string
}

// Loader turns data files into validated frames.
type Loader struct {
	reader Reader
	logger zerolog.Logger
}

// NewLoader creates a loader on top of reader.
func NewLoader(reader Reader) *Loader {
	return &Loader{
		reader: reader,
		logger: logging.WithComponent("frame"),
	}
}

// LoadFeatureFrames reads the four comparison tables concurrently.
// Any failure is wrapped in ErrDataUnavailable.
func (l *Loader) LoadFeatureFrames(ctx context.Context, src Sources) (*FeatureFrames, error) {
	start := time.Now()
	frames := &FeatureFrames{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := l.loadKeys(gctx, src.Ratings)
		frames.Ratings = t
		return err
	})
	g.Go(func() error {
		t, err := l.loadVectors(gctx, src.Composition)
		frames.Composition = t
		return err
	})
	g.Go(func() error {
		t, err := l.loadKeys(gctx, src.ReviewFlags)
		frames.ReviewFlags = t
		return err
	})
	g.Go(func() error {
		t, err := l.loadVectors(gctx, src.TextReviews)
		frames.TextReviews = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info().
		Int("ratings", frames.Ratings.Len()).
		Int("composition", frames.Composition.Len()).
		Int("composition_dim", frames.Composition.Dim()).
		Int("review_flags", frames.ReviewFlags.Len()).
		Int("text_reviews", frames.TextReviews.Len()).
		Int("text_dim", frames.TextReviews.Dim()).
		Dur("duration", time.Since(start)).
		Msg("Feature frames loaded")

	return frames, nil
}

// LoadRatingHistory reads the wine rating table (WineID, Vintage, AverageRating).
func (l *Loader) LoadRatingHistory(ctx context.Context, path string) (*RatingTable, error) {
	t, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, ColWineID, ColVintage, ColAverageRating); err != nil {
		return nil, err
	}

	keys, err := readKeys(t)
	if err != nil {
		return nil, err
	}

	ratingCol, _ := t.ColumnIndex(ColAverageRating)
	ratings := make([]*float64, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		if t.IsNull(i, ratingCol) {
			continue
		}
		v, err := t.Float(i, ratingCol)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		ratings[i] = &v
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
	}

	l.logger.Debug().Str("file", path).Int("rows", t.Len()).Msg("Rating history loaded")
	return NewRatingTable(path, keys, ratings), nil
}

// LoadWeather reads a monthly weather table (RegionID, year, month, fields...).
// Only columns naming a known weather field are kept.
func (l *Loader) LoadWeather(ctx context.Context, path string) (*weather.Table, error) {
	t, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, ColRegionID, ColYear, ColMonth); err != nil {
		return nil, err
	}

	regionCol, _ := t.ColumnIndex(ColRegionID)
	yearCol, _ := t.ColumnIndex(ColYear)
	monthCol, _ := t.ColumnIndex(ColMonth)

	var fields []weather.Field
	fieldCols := make(map[weather.Field]int)
	for _, f := range weather.Fields {
		if idx, ok := t.ColumnIndex(string(f)); ok {
			fields = append(fields, f)
			fieldCols[f] = idx
		}
	}

	type regionRows struct {
		periods []weather.Period
		values  map[weather.Field][]float64
	}
	byRegion := make(map[int64]*regionRows)
	var order []int64
	var errs *multierror.Error

	for i := range t.Rows {
		region, rerr := t.Int(i, regionCol)
		year, yerr := t.Int(i, yearCol)
		month, merr := t.Int(i, monthCol)
		if err := errors.Join(rerr, yerr, merr); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		period := weather.Period{Year: int(year), Month: int(month)}
		if !period.Valid() {
			errs = multierror.Append(errs, fmt.Errorf("%s row %d: month %d out of range", path, i, month))
			continue
		}

		rows, ok := byRegion[region]
		if !ok {
			rows = &regionRows{values: make(map[weather.Field][]float64, len(fields))}
			byRegion[region] = rows
			order = append(order, region)
		}
		rows.periods = append(rows.periods, period)
		for _, f := range fields {
			v, err := cellFloat(t, i, fieldCols[f])
			if err != nil {
				errs = multierror.Append(errs, err)
			}
			rows.values[f] = append(rows.values[f], v)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
	}

	series := make([]*weather.Series, 0, len(order))
	for _, region := range order {
		rows := byRegion[region]
		s, err := weather.NewSeries(region, rows.periods, rows.values)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
		}
		series = append(series, s)
	}

	l.logger.Debug().
		Str("file", path).
		Int("rows", t.Len()).
		Int("regions", len(series)).
		Int("fields", len(fields)).
		Msg("Weather table loaded")

	return weather.NewTable(path, fields, series), nil
}

func (l *Loader) read(ctx context.Context, path string) (*database.Table, error) {
	t, err := l.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return t, nil
}

func (l *Loader) loadKeys(ctx context.Context, path string) (*KeyTable, error) {
	t, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, ColWineID, ColVintage); err != nil {
		return nil, err
	}
	keys, err := readKeys(t)
	if err != nil {
		return nil, err
	}
	return NewKeyTable(path, keys), nil
}

func (l *Loader) loadVectors(ctx context.Context, path string) (*VectorTable, error) {
	t, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, ColWineID, ColVintage); err != nil {
		return nil, err
	}
	keys, err := readKeys(t)
	if err != nil {
		return nil, err
	}

	var columns []string
	var featureCols []int
	for i, name := range t.Columns {
		if isIdentityColumn(name) {
			continue
		}
		columns = append(columns, name)
		featureCols = append(featureCols, i)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s has no feature columns", ErrDataUnavailable, path)
	}

	values := make([][]float64, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		row := make([]float64, len(featureCols))
		for j, col := range featureCols {
			v, err := cellFloat(t, i, col)
			if err != nil {
				errs = multierror.Append(errs, err)
			}
			row[j] = v
		}
		values[i] = row
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, path, err)
	}

	return NewVectorTable(path, keys, columns, values)
}

func isIdentityColumn(name string) bool {
	switch name {
	case ColWineID, ColVintage, ColWineName:
		return true
	}
	return false
}

// requireColumns reports every missing column in one error.
func requireColumns(t *database.Table, names ...string) error {
	var errs *multierror.Error
	for _, name := range t.MissingColumns(names...) {
		errs = multierror.Append(errs, fmt.Errorf("missing column %q", name))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, t.Source, err)
	}
	return nil
}

func readKeys(t *database.Table) ([]Key, error) {
	wineCol, _ := t.ColumnIndex(ColWineID)
	vintageCol, _ := t.ColumnIndex(ColVintage)

	keys := make([]Key, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		if t.IsNull(i, wineCol) || t.IsNull(i, vintageCol) {
			errs = multierror.Append(errs, fmt.Errorf("row %d: null key", i))
			continue
		}
		wine, werr := t.Int(i, wineCol)
		vintage, verr := t.Int(i, vintageCol)
		if err := errors.Join(werr, verr); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		keys[i] = Key{WineID: wine, Vintage: vintage}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, t.Source, err)
	}
	return keys, nil
}

func cellFloat(t *database.Table, row, col int) (float64, error) {
	if t.IsNull(row, col) {
		return 0, fmt.Errorf("row %d: null value in column %s", row, t.Columns[col])
	}
	return t.Float(row, col)
}
