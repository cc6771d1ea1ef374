// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package forecast

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
	"github.com/tomtom215/vintner/internal/weather"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("forecaster circuit open")

// BreakerSettings configures the forecaster circuit breaker.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // concurrent requests allowed in half-open state
	Interval     time.Duration // count reset period in closed state
	Timeout      time.Duration // open period before half-open
	MinRequests  uint32        // requests needed before the failure ratio is considered
	FailureRatio float64
}

// BreakerSettingsFromConfig maps forecast configuration onto breaker settings.
func BreakerSettingsFromConfig(cfg *config.ForecastConfig) BreakerSettings {
	return BreakerSettings{
		Name:         "forecaster",
		MaxRequests:  cfg.BreakerMaxRequests,
		Interval:     cfg.BreakerInterval,
		Timeout:      cfg.BreakerTimeout,
		MinRequests:  cfg.BreakerMinRequests,
		FailureRatio: cfg.BreakerFailureRatio,
	}
}

// Breaker short-circuits a forecaster that keeps failing. It never retries.
//
// Credential and quota rejections, and caller cancellations, do not count as
// forecaster failures.
type Breaker struct {
	next Forecaster
	cb   *gobreaker.CircuitBreaker[[]weather.Point]
	name string
}

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Forecaster, s BreakerSettings) *Breaker {
	name := s.Name
	if name == "" {
		name = "forecaster"
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]weather.Point](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio

			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrInvalidCredential) ||
				errors.Is(err, ErrRateLimited) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Breaker{next: next, cb: cb, name: name}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Forecast forwards the call unless the circuit is open.
func (b *Breaker) Forecast(ctx context.Context, req Request) ([]weather.Point, error) {
	return b.execute(func() ([]weather.Point, error) {
		return b.next.Forecast(ctx, req)
	})
}

// ValidateCredential forwards the call unless the circuit is open.
func (b *Breaker) ValidateCredential(ctx context.Context) error {
	_, err := b.execute(func() ([]weather.Point, error) {
		return nil, b.next.ValidateCredential(ctx)
	})
	return err
}

func (b *Breaker) execute(fn func() ([]weather.Point, error)) ([]weather.Point, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, errors.Join(ErrCircuitOpen, ErrForecastFailed, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// NewFromConfig builds the production forecaster: the HTTP client, paced and
// guarded by a breaker.
func NewFromConfig(cfg *config.ForecastConfig) *Breaker {
	paced := NewPaced(NewClient(cfg), cfg.PacingInterval)
	return NewBreaker(paced, BreakerSettingsFromConfig(cfg))
}
