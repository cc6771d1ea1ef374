// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package forecast provides the monthly weather forecaster client and the
// pacing and circuit breaker wrappers placed in front of it.
//
// A typical chain is:
//
//	client := forecast.NewClient(&cfg.Forecast)
//	var f forecast.Forecaster = forecast.NewPaced(client, cfg.Forecast.PacingInterval)
//	f = forecast.NewBreaker(f, forecast.BreakerSettingsFromConfig(&cfg.Forecast))
//
// The credential normally comes from configuration. A request may override it
// with WithCredential.
package forecast

import (
	"context"
	"errors"

	"github.com/tomtom215/vintner/internal/weather"
)

var (
	// ErrInvalidCredential is returned when the forecaster rejects the API key.
	ErrInvalidCredential = errors.New("invalid forecaster credential")

	// ErrRateLimited is returned when the forecaster refuses a call for quota reasons.
	ErrRateLimited = errors.New("forecaster rate limited")

	// ErrForecastFailed is returned for any other forecaster failure.
	ErrForecastFailed = errors.New("forecast failed")
)

// Request asks for Horizon future values of one field, given its monthly history.
type Request struct {
	History   []weather.Point
	Horizon   int
	Field     weather.Field
	Frequency string
}

// Forecaster produces monthly weather forecasts.
type Forecaster interface {
	Forecast(ctx context.Context, req Request) ([]weather.Point, error)
	ValidateCredential(ctx context.Context) error
}

type credentialKey struct{}

// WithCredential overrides the configured API key for calls made with ctx.
func WithCredential(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, credentialKey{}, apiKey)
}

// CredentialFromContext returns the per-request API key, if any.
func CredentialFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(credentialKey{}).(string)
	return key, ok && key != ""
}
