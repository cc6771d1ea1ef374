// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vintner/internal/config"
)

// maxErrorBodySize limits the response body read for error reporting
const maxErrorBodySize = 64 * 1024

// TFServingClient is a Regressor backed by the TensorFlow Serving REST predict API.
type TFServingClient struct {
	endpoint        string
	timeout         time.Duration
	timeSeriesInput string
	numericalInput  string
	httpClient      *http.Client
}

// NewTFServingClient creates a client from configuration.
func NewTFServingClient(cfg *config.RegressorConfig) *TFServingClient {
	return &TFServingClient{
		endpoint:        strings.TrimRight(cfg.URL, "/") + "/v1/models/" + url.PathEscape(cfg.Model) + ":predict",
		timeout:         cfg.Timeout,
		timeSeriesInput: cfg.TimeSeriesInput,
		numericalInput:  cfg.NumericalInput,
		httpClient:      &http.Client{},
	}
}

type predictRequest struct {
	Inputs map[string]interface{} `json:"inputs"`
}

type predictResponse struct {
	Outputs json.RawMessage `json:"outputs"`
}

// Predict posts the batch and returns one value per entry.
func (c *TFServingClient) Predict(ctx context.Context, t *Tensors) ([]float64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(predictRequest{Inputs: map[string]interface{}{
		c.timeSeriesInput: t.TimeSeries,
		c.numericalInput:  t.Scalars,
	}})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrPredictionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrPredictionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("%w: status %d: %s", ErrPredictionFailed, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrPredictionFailed, err)
	}
	return parseOutputs(out.Outputs)
}

// parseOutputs accepts both [[p], ...] and [p, ...].
func parseOutputs(raw json.RawMessage) ([]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: response has no outputs", ErrPredictionFailed)
	}

	var nested [][]float64
	if err := json.Unmarshal(raw, &nested); err == nil {
		values := make([]float64, len(nested))
		for i, row := range nested {
			if len(row) != 1 {
				return nil, fmt.Errorf("%w: output %d has %d values, want 1", ErrPredictionFailed, i, len(row))
			}
			values[i] = row[0]
		}
		return values, nil
	}

	var flat []float64
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("%w: unexpected outputs shape: %w", ErrPredictionFailed, err)
	}
	return flat, nil
}
