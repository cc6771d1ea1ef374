// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
)

// ErrPredictionFailed is returned when the regressor fails or returns a malformed result.
var ErrPredictionFailed = errors.New("prediction failed")

// Regressor scores a batch of tensors, one value per batch entry.
type Regressor interface {
	Predict(ctx context.Context, t *Tensors) ([]float64, error)
}

// Prediction is the predicted rating of one vintage.
type Prediction struct {
	Vintage int     `json:"vintage"`
	Rating  float64 `json:"predicted_rating"`
}

// Predictor wraps a Regressor with validation and metrics.
type Predictor struct {
	regressor Regressor
	logger    zerolog.Logger
}

// NewPredictor creates a Predictor.
func NewPredictor(r Regressor) *Predictor {
	return &Predictor{regressor: r, logger: logging.WithComponent("rating")}
}

// Predict returns one prediction per batch vintage, in batch order.
// An empty batch returns an empty result without calling the regressor.
func (p *Predictor) Predict(ctx context.Context, t *Tensors) ([]Prediction, error) {
	if t.Batch() == 0 {
		return []Prediction{}, nil
	}

	start := time.Now()
	values, err := p.regressor.Predict(ctx, t)
	if err == nil && len(values) != t.Batch() {
		err = fmt.Errorf("%w: regressor returned %d values for batch of %d", ErrPredictionFailed, len(values), t.Batch())
	}
	metrics.RecordRegressorCall(t.Batch(), time.Since(start), err)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Int("batch", t.Batch()).
			Msg("Regressor call failed")
		if !errors.Is(err, ErrPredictionFailed) {
			err = fmt.Errorf("%w: %w", ErrPredictionFailed, err)
		}
		return nil, err
	}

	out := make([]Prediction, len(values))
	for i, v := range values {
		out[i] = Prediction{Vintage: t.Vintages[i], Rating: v}
	}
	return out, nil
}
