// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"errors"

	"github.com/tomtom215/vintner/internal/catalog"
	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/similarity"
	"github.com/tomtom215/vintner/internal/validation"
)

var (
	// ErrDisplayDataMissing is returned when a ranked candidate has no resolvable
	// display record. It indicates inconsistent reference data.
	ErrDisplayDataMissing = errors.New("display data missing")

	// ErrNoWeatherHistory is returned when a region has no observed weather to forecast from.
	ErrNoWeatherHistory = errors.New("no weather history")
)

// Kind classifies an error for callers.
type Kind int

const (
	// KindInternal is a bug or a data-integrity problem.
	KindInternal Kind = iota
	// KindClient is a request the caller can fix.
	KindClient
	// KindNotFound is a request for a record that does not exist.
	KindNotFound
	// KindUnavailable is a missing artifact or a failed collaborator.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Classify maps err onto a Kind. Classify(nil) is KindInternal; callers check err first.
func Classify(err error) Kind {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return KindClient

	// Wraps the catalog miss that caused it, so it must match first.
	case errors.Is(err, ErrDisplayDataMissing):
		return KindInternal

	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, ErrNoWeatherHistory):
		return KindNotFound

	case errors.Is(err, similarity.ErrUnknownWineVintage),
		errors.Is(err, similarity.ErrInvalidCount),
		errors.Is(err, rating.ErrUnknownCategory),
		errors.Is(err, rating.ErrInsufficientForecastData),
		errors.Is(err, forecast.ErrInvalidCredential),
		errors.Is(err, forecast.ErrRateLimited):
		return KindClient

	case errors.Is(err, frame.ErrDataUnavailable),
		errors.Is(err, similarity.ErrSchemaMismatch),
		errors.Is(err, similarity.ErrDimensionMismatch),
		errors.Is(err, similarity.ErrCorpusMisaligned),
		errors.Is(err, rating.ErrPredictionFailed),
		errors.Is(err, forecast.ErrForecastFailed),
		errors.Is(err, forecast.ErrCircuitOpen),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindUnavailable
	}
	return KindInternal
}
