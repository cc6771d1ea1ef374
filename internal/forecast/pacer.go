// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package forecast

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/vintner/internal/metrics"
	"github.com/tomtom215/vintner/internal/weather"
)

// Paced spaces consecutive Forecast calls at least interval apart.
// Credential checks are not paced.
type Paced struct {
	next    Forecaster
	limiter *rate.Limiter
}

// NewPaced wraps next. A non-positive interval disables pacing.
func NewPaced(next Forecaster, interval time.Duration) *Paced {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Paced{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Forecast waits for the pacing token, then forwards the call.
func (p *Paced) Forecast(ctx context.Context, req Request) ([]weather.Point, error) {
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	metrics.ForecastPacingWait.Observe(time.Since(start).Seconds())
	return p.next.Forecast(ctx, req)
}

// ValidateCredential forwards the call without pacing.
func (p *Paced) ValidateCredential(ctx context.Context) error {
	return p.next.ValidateCredential(ctx)
}
