// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package service runs the five Vintner operations: listing vintages,
// comparing wines, predicting one or all ratings, and forecasting weather.
//
// Each operation validates its request, consults the response cache, runs
// the similarity or rating pipeline over shared read-only artifacts, and
// caches the result after success. Errors carry a Kind (see Classify).
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vintner/internal/cache"
	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/similarity"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Artifacts  ArtifactSource
	Cache      cache.Store
	Forecaster forecast.Forecaster
	Regressor  rating.Regressor
}

// Service is safe for concurrent use.
type Service struct {
	cfg        *config.Config
	artifacts  ArtifactSource
	cache      cache.Store
	forecaster forecast.Forecaster
	predictor  *rating.Predictor
	self       similarity.SelfExclusion
	single     rating.Layout
	all        rating.Layout
	logger     zerolog.Logger
}

// New creates a service. A nil cache disables caching.
func New(cfg *config.Config, deps Deps) (*Service, error) {
	self, err := similarity.ParseSelfExclusion(cfg.Similarity.SelfExclusion)
	if err != nil {
		return nil, err
	}
	single, err := rating.LayoutByName(cfg.Predict.SingleLayout)
	if err != nil {
		return nil, fmt.Errorf("predict.single_layout: %w", err)
	}
	all, err := rating.LayoutByName(cfg.Predict.AllLayout)
	if err != nil {
		return nil, fmt.Errorf("predict.all_layout: %w", err)
	}

	store := deps.Cache
	if store == nil {
		store = cache.NopStore{}
	}

	return &Service{
		cfg:        cfg,
		artifacts:  deps.Artifacts,
		cache:      store,
		forecaster: deps.Forecaster,
		predictor:  rating.NewPredictor(deps.Regressor),
		self:       self,
		single:     single,
		all:        all,
		logger:     logging.WithComponent("service"),
	}, nil
}

// begin tags ctx with a request ID and the operation, and returns a func that
// records the outcome. Call it deferred with the operation's error.
func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRequestID(ctx)
	}
	ctx = logging.ContextWithOperation(ctx, op)
	start := time.Now()

	return ctx, func(err error) {
		duration := time.Since(start)
		outcome := "success"
		event := s.logger.Debug()
		if err != nil {
			kind := Classify(err)
			outcome = kind.String()
			switch kind {
			case KindClient, KindNotFound:
				event = s.logger.Info().Err(err)
			case KindInternal:
				event = s.logger.Error().Err(err).Bool("data_integrity", true)
			default:
				event = s.logger.Error().Err(err)
			}
		}
		metrics.RecordOperation(op, outcome, duration)

		event.
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("operation", op).
			Str("outcome", outcome).
			Dur("duration", duration).
			Msg("Operation finished")
	}
}

// cached serves key from the cache or computes and stores it.
// Cache failures never fail the operation.
func cached[R any](ctx context.Context, s *Service, op, key string, compute func(context.Context) (R, error)) (R, error) {
	if result, ok := cacheGet[R](ctx, s, op, key); ok {
		return result, nil
	}

	result, err := compute(ctx)
	if err != nil {
		return result, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cannot encode result for cache")
		metrics.RecordCacheError(op)
		return result, nil
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.Cache.TTL); err != nil {
		s.logger.Warn().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("key", key).
			Msg("Cache write failed")
		metrics.RecordCacheError(op)
	}
	return result, nil
}

func cacheGet[R any](ctx context.Context, s *Service, op, key string) (R, bool) {
	var result R
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("key", key).
			Msg("Cache read failed, treating as miss")
		metrics.RecordCacheError(op)
		ok = false
	}
	if ok {
		if err := json.Unmarshal(data, &result); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cached entry is corrupt, treating as miss")
			metrics.RecordCacheError(op)
			ok = false
		}
	}
	metrics.RecordCacheLookup(op, ok)
	return result, ok
}
