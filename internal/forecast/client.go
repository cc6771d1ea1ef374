// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package forecast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
	"github.com/tomtom215/vintner/internal/weather"
)

const (
	forecastPath = "/timegpt"
	validatePath = "/validate_token"
	modelName    = "timegpt-1"

	// maxErrorBodySize limits the response body read for error reporting
	maxErrorBodySize = 64 * 1024
)

// timestampLayouts are the formats accepted in forecast responses.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Client calls a TimeGPT-style forecasting API.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a forecaster client from configuration.
func NewClient(cfg *config.ForecastConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

type forecastBody struct {
	Model        string             `json:"model"`
	Freq         string             `json:"freq"`
	Horizon      int                `json:"fh"`
	Y            map[string]float64 `json:"y"`
	CleanExFirst bool               `json:"clean_ex_first"`
}

type forecastResponse struct {
	Data struct {
		Timestamp []string  `json:"timestamp"`
		Value     []float64 `json:"value"`
	} `json:"data"`
}

// Forecast requests req.Horizon values after the last history point.
func (c *Client) Forecast(ctx context.Context, req Request) (points []weather.Point, err error) {
	defer func() { metrics.RecordForecastCall(string(req.Field), err) }()

	if req.Horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", ErrForecastFailed, req.Horizon)
	}
	if len(req.History) == 0 {
		return nil, fmt.Errorf("%w: empty history for %s", ErrForecastFailed, req.Field)
	}

	body := forecastBody{
		Model:        modelName,
		Freq:         req.Frequency,
		Horizon:      req.Horizon,
		Y:            make(map[string]float64, len(req.History)),
		CleanExFirst: true,
	}
	for _, p := range req.History {
		body.Y[p.Time.Format("2006-01-02")] = p.Value
	}

	var resp forecastResponse
	if err := c.do(ctx, http.MethodPost, forecastPath, body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data.Timestamp) != len(resp.Data.Value) {
		return nil, fmt.Errorf("%w: %d timestamps for %d values", ErrForecastFailed, len(resp.Data.Timestamp), len(resp.Data.Value))
	}
	points = make([]weather.Point, len(resp.Data.Value))
	for i, raw := range resp.Data.Timestamp {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrForecastFailed, err)
		}
		points[i] = weather.Point{Time: ts, Value: resp.Data.Value[i]}
	}

	logging.Debug().
		Str("field", string(req.Field)).
		Int("history", len(req.History)).
		Int("horizon", req.Horizon).
		Int("returned", len(points)).
		Msg("Forecast received")

	return points, nil
}

// ValidateCredential checks the API key before any forecast is attempted.
func (c *Client) ValidateCredential(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, validatePath, nil, nil)
}

func (c *Client) credential(ctx context.Context) string {
	if key, ok := CredentialFromContext(ctx); ok {
		return key
	}
	return c.apiKey
}

// do executes one API call under the per-call timeout and decodes the response into result.
func (c *Client) do(ctx context.Context, method, path string, payload, result interface{}) error {
	apiKey := c.credential(ctx)
	if apiKey == "" {
		return fmt.Errorf("%w: no API key configured", ErrInvalidCredential)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForecastFailed, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode response: %w", ErrForecastFailed, err)
		}
	}
	return nil
}

// statusError maps non-2xx responses onto the forecaster sentinels.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body := readBodyForError(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrInvalidCredential, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrForecastFailed, resp.StatusCode, body)
	}
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return bytes.TrimSpace(body)
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
