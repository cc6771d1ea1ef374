// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/vintner/internal/catalog"
	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/weather"
)

// External ids are internal id + 100. Every wine shares winery 10 and region 20.
const (
	testWineryID = 10
	testRegionID = 20
	bareRegionID = 21
)

func extID(id int64) int64 { return id + 100 }

func wineKey(id, vintage int64) frame.Key {
	return frame.Key{WineID: extID(id), Vintage: vintage}
}

// Structured corpus rows. Fused distances from (5, 2015):
//
//	(5,2015) 0  (2,2015) 2.5  (5,2016) 3  (1,2015) 3  (3,2015) 5  (7,2010) 5  (4,2012) 6
var (
	compositionKeys = []frame.Key{
		wineKey(5, 2015), wineKey(5, 2016), wineKey(1, 2015), wineKey(2, 2015), wineKey(3, 2015), wineKey(7, 2010), wineKey(4, 2012),
	}
	compositionRows = [][]float64{
		{0, 0}, {3, 0}, {1, 0}, {2, 0}, {0, 4}, {5, 0}, {0, 6},
	}
	reviewKeys = []frame.Key{wineKey(5, 2015), wineKey(1, 2015), wineKey(2, 2015)}
	textKeys   = []frame.Key{wineKey(5, 2015), wineKey(1, 2015), wineKey(2, 2015), wineKey(3, 2015)}
	textRows   = [][]float64{{0, 0}, {0, 2}, {0, 0.5}, {1, 0}}
)

func float(v float64) *float64 { return &v }

func testWines() []catalog.Wine {
	wines := make([]catalog.Wine, 0, 8)
	for id := int64(1); id <= 8; id++ {
		wines = append(wines, catalog.Wine{
			ID:        id,
			WineID:    extID(id),
			Name:      fmt.Sprintf("Wine %d", id),
			Type:      "Red",
			Elaborate: "Assemblage/Bordeaux Red Blend",
			ABV:       13.5,
			Body:      "Full-bodied",
			Acidity:   "High",
			WineryID:  testWineryID,
			RegionID:  testRegionID,
		})
	}
	return wines
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		testWines(),
		[]catalog.Region{
			{ID: 1, RegionID: testRegionID, Name: "Bordeaux", Country: "France", Code: "fr"},
			{ID: 2, RegionID: bareRegionID, Name: "Nowhere", Country: "France", Code: "fr"},
		},
		[]catalog.Winery{{ID: 1, WineryID: testWineryID, Name: "Chateau Test"}},
	)
}

// monthlyTable covers region 20 for fromYear..toYear. Each value is
// 100*field index + month - 1.
func monthlyTable(t *testing.T, source string, fromYear, toYear int) *weather.Table {
	t.Helper()
	var periods []weather.Period
	for y := fromYear; y <= toYear; y++ {
		for m := 1; m <= 12; m++ {
			periods = append(periods, weather.Period{Year: y, Month: m})
		}
	}
	values := make(map[weather.Field][]float64, len(weather.Fields))
	for fi, f := range weather.Fields {
		v := make([]float64, len(periods))
		for i, p := range periods {
			v[i] = float64(100*fi + p.Month - 1)
		}
		values[f] = v
	}
	series, err := weather.NewSeries(testRegionID, periods, values)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return weather.NewTable(source, weather.Fields, []*weather.Series{series})
}

func identityMinMax() *rating.MinMaxScaler {
	s := &rating.MinMaxScaler{
		FeatureNames: append([]string(nil), rating.FeatureColumns...),
		Min:          make([]float64, len(rating.FeatureColumns)),
		Scale:        make([]float64, len(rating.FeatureColumns)),
	}
	for i := range s.Scale {
		s.Scale[i] = 1
	}
	return s
}

func testArtifacts(t *testing.T) *Artifacts {
	t.Helper()
	composition, err := frame.NewVectorTable("normalized_wine_data", compositionKeys, []string{"c0", "c1"}, compositionRows)
	if err != nil {
		t.Fatalf("NewVectorTable() error = %v", err)
	}
	text, err := frame.NewVectorTable("aggregated_doc_vector", textKeys, []string{"t0", "t1"}, textRows)
	if err != nil {
		t.Fatalf("NewVectorTable() error = %v", err)
	}

	a := &Artifacts{
		Frames: &frame.FeatureFrames{
			Ratings:     frame.NewKeyTable("pertinent_wine_ratings", compositionKeys),
			Composition: composition,
			ReviewFlags: frame.NewKeyTable("pertinent_ratings_non_null", reviewKeys),
			TextReviews: text,
		},
		Ratings: frame.NewRatingTable("wine_ratings",
			[]frame.Key{wineKey(5, 2021), wineKey(3, 2019), wineKey(5, 2022)},
			[]*float64{float(4.1), float(3.9), nil},
		),
		Catalog:         testCatalog(),
		WeatherForecast: monthlyTable(t, "forecast_agg_monthly", 2020, 2023),
		WeatherHistory:  monthlyTable(t, "agg_monthly", 2020, 2022),
		MinMax:          identityMinMax(),
		Standard:        &rating.StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
	}
	if err := a.buildCorpora(); err != nil {
		t.Fatalf("buildCorpora() error = %v", err)
	}
	return a
}

// vintageRegressor predicts vintage/1000 and counts calls.
type vintageRegressor struct {
	mu      sync.Mutex
	calls   int
	batches []*rating.Tensors
	err     error
}

func (r *vintageRegressor) Predict(_ context.Context, t *rating.Tensors) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.batches = append(r.batches, t)
	if r.err != nil {
		return nil, r.err
	}
	out := make([]float64, len(t.Vintages))
	for i, v := range t.Vintages {
		out[i] = float64(v) / 1000
	}
	return out, nil
}

func (r *vintageRegressor) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// monthForecaster continues the history one month at a time with value 1000+step.
// The credential "bad" is rejected.
type monthForecaster struct {
	mu       sync.Mutex
	requests []forecast.Request
	err      error
}

func (f *monthForecaster) Forecast(_ context.Context, req forecast.Request) ([]weather.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	last := req.History[len(req.History)-1].Time
	out := make([]weather.Point, req.Horizon)
	for i := range out {
		out[i] = weather.Point{Time: last.AddDate(0, i+1, 0), Value: float64(1000 + i)}
	}
	return out, nil
}

func (f *monthForecaster) ValidateCredential(ctx context.Context) error {
	if cred, ok := forecast.CredentialFromContext(ctx); ok && cred == "bad" {
		return forecast.ErrInvalidCredential
	}
	return nil
}

func (f *monthForecaster) Requests() []forecast.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]forecast.Request(nil), f.requests...)
}

// failingStore fails every call.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store offline")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store offline")
}

func (failingStore) Close() error { return nil }

type testEnv struct {
	svc        *Service
	artifacts  *Artifacts
	regressor  *vintageRegressor
	forecaster *monthForecaster
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config, deps *Deps)) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	env := &testEnv{
		artifacts:  testArtifacts(t),
		regressor:  &vintageRegressor{},
		forecaster: &monthForecaster{},
	}
	deps := Deps{
		Artifacts:  env.artifacts,
		Regressor:  env.regressor,
		Forecaster: env.forecaster,
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}

	svc, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	env.svc = svc
	return env
}
