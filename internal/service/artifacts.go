// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vintner/internal/catalog"
	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/similarity"
	"github.com/tomtom215/vintner/internal/weather"
)

// Corpus names, used in logs and metrics.
const (
	structuredCorpus = "composition_weather"
	textCorpus       = "text_review"
)

// Artifacts are the process-wide, read-only inputs of every operation.
// Nothing reachable from an Artifacts value is mutated after loading.
type Artifacts struct {
	Frames     *frame.FeatureFrames
	Structured *similarity.OrderedCorpus
	Text       *similarity.OrderedCorpus
	Queries    *similarity.QueryBuilder
	Ratings    *frame.RatingTable
	Catalog    catalog.Lookup

	WeatherForecast *weather.Table
	WeatherHistory  *weather.Table

	MinMax   *rating.MinMaxScaler
	Standard *rating.StandardScaler
}

// ArtifactSource yields the artifacts for a request.
type ArtifactSource interface {
	Artifacts(ctx context.Context) (*Artifacts, error)
}

// Artifacts returns a, so loaded artifacts serve as their own source.
func (a *Artifacts) Artifacts(context.Context) (*Artifacts, error) {
	return a, nil
}

// Load reads every artifact named by cfg.Data and cfg.Predict.
// Independent files load concurrently; the first failure cancels the rest.
func Load(ctx context.Context, reader frame.Reader, cfg *config.Config) (*Artifacts, error) {
	start := time.Now()
	data := cfg.Data
	loader := frame.NewLoader(reader)
	a := &Artifacts{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a.Frames, err = loader.LoadFeatureFrames(gctx, frame.Sources{
			Ratings:     data.Resolve(data.WineRatings),
			Composition: data.Resolve(data.CompositionWeather),
			ReviewFlags: data.Resolve(data.ReviewFlags),
			TextReviews: data.Resolve(data.TextReviews),
		})
		return err
	})
	g.Go(func() (err error) {
		a.Ratings, err = loader.LoadRatingHistory(gctx, data.Resolve(data.RatingHistory))
		return err
	})
	g.Go(func() error {
		c, err := catalog.Load(gctx, reader, catalog.Sources{
			Wines:    data.Resolve(data.Wines),
			Regions:  data.Resolve(data.Regions),
			Wineries: data.Resolve(data.Wineries),
		})
		if err != nil {
			return err
		}
		a.Catalog = c
		return nil
	})
	g.Go(func() (err error) {
		a.WeatherForecast, err = loader.LoadWeather(gctx, data.Resolve(data.WeatherForecast))
		return err
	})
	g.Go(func() (err error) {
		a.WeatherHistory, err = loader.LoadWeather(gctx, data.Resolve(data.WeatherHistory))
		return err
	})
	g.Go(func() (err error) {
		a.MinMax, err = rating.LoadMinMaxScaler(data.Resolve(cfg.Predict.MinMaxScaler))
		return err
	})
	g.Go(func() (err error) {
		a.Standard, err = rating.LoadStandardScaler(data.Resolve(cfg.Predict.StandardScaler))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := a.buildCorpora(); err != nil {
		return nil, err
	}

	logging.Info().
		Int("composition_rows", a.Structured.Len()).
		Int("text_rows", a.Text.Len()).
		Int("rating_rows", a.Ratings.Len()).
		Int("forecast_regions", a.WeatherForecast.Regions()).
		Int("history_regions", a.WeatherHistory.Regions()).
		Dur("duration", time.Since(start)).
		Msg("Artifacts loaded")
	return a, nil
}

// buildCorpora indexes both vector tables in their file row order.
func (a *Artifacts) buildCorpora() error {
	var err error
	if a.Structured, err = similarity.NewOrderedCorpus(structuredCorpus, a.Frames.Composition); err != nil {
		return fmt.Errorf("build %s corpus: %w", structuredCorpus, err)
	}
	if a.Text, err = similarity.NewOrderedCorpus(textCorpus, a.Frames.TextReviews); err != nil {
		return fmt.Errorf("build %s corpus: %w", textCorpus, err)
	}
	a.Queries = similarity.NewQueryBuilder(a.Frames, a.Structured, a.Text)
	return nil
}

// Lazy loads artifacts on first use. A load failure is returned to every caller;
// the process must restart to retry.
type Lazy struct {
	once sync.Once
	load func(ctx context.Context) (*Artifacts, error)

	artifacts *Artifacts
	err       error
}

// NewLazy defers load until the first Artifacts call.
func NewLazy(load func(ctx context.Context) (*Artifacts, error)) *Lazy {
	return &Lazy{load: load}
}

// Artifacts runs the load once. The context of the first caller governs the load.
func (l *Lazy) Artifacts(ctx context.Context) (*Artifacts, error) {
	l.once.Do(func() {
		l.artifacts, l.err = l.load(ctx)
	})
	return l.artifacts, l.err
}
