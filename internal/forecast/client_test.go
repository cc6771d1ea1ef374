// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package forecast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/weather"
)

func monthlyHistory(n int) []weather.Point {
	points := make([]weather.Point, n)
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = weather.Point{Time: start.AddDate(0, i, 0), Value: float64(i)}
	}
	return points
}

func newTestClient(url, key string) *Client {
	return NewClient(&config.ForecastConfig{URL: url, APIKey: key, Timeout: 5 * time.Second})
}

func TestClient_Forecast(t *testing.T) {
	var got forecastBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/timegpt" {
			t.Errorf("request = %s %s, want POST /timegpt", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"timestamp":["2021-01-01","2021-02-01 00:00:00"],"value":[1.5,2.5]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "secret")
	points, err := client.Forecast(context.Background(), Request{
		History:   monthlyHistory(12),
		Horizon:   2,
		Field:     weather.AvgTemperature,
		Frequency: "MS",
	})
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}

	if got.Model != "timegpt-1" || got.Freq != "MS" || got.Horizon != 2 || !got.CleanExFirst {
		t.Errorf("request body = %+v", got)
	}
	if len(got.Y) != 12 || got.Y["2020-03-01"] != 2 {
		t.Errorf("history y = %v", got.Y)
	}

	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if !points[1].Time.Equal(time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC)) || points[1].Value != 2.5 {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestClient_CredentialOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate_token" {
			t.Errorf("path = %s, want /validate_token", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer per-request" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "configured")
	if err := client.ValidateCredential(context.Background()); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("configured key error = %v, want ErrInvalidCredential", err)
	}
	ctx := WithCredential(context.Background(), "per-request")
	if err := client.ValidateCredential(ctx); err != nil {
		t.Errorf("per-request key error = %v, want nil", err)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidCredential},
		{http.StatusForbidden, ErrInvalidCredential},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrForecastFailed},
		{http.StatusBadRequest, ErrForecastFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, "k").Forecast(context.Background(), Request{
				History: monthlyHistory(3), Horizon: 1, Field: weather.AvgRain, Frequency: "MS",
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"timestamp":["2021-01-01"],"value":[1,2]}}`))
	}))
	defer server.Close()

	tests := []struct {
		name   string
		client *Client
		req    Request
		want   error
	}{
		{"no key", newTestClient(server.URL, ""), Request{History: monthlyHistory(1), Horizon: 1}, ErrInvalidCredential},
		{"zero horizon", newTestClient(server.URL, "k"), Request{History: monthlyHistory(1)}, ErrForecastFailed},
		{"empty history", newTestClient(server.URL, "k"), Request{Horizon: 1}, ErrForecastFailed},
		{"length mismatch", newTestClient(server.URL, "k"), Request{History: monthlyHistory(1), Horizon: 1}, ErrForecastFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.client.Forecast(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, raw := range []string{"2024-05-01", "2024-05-01 00:00:00", "2024-05-01T00:00:00", "2024-05-01T00:00:00Z"} {
		ts, err := parseTimestamp(raw)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error = %v", raw, err)
			continue
		}
		if weather.PeriodOf(ts) != (weather.Period{Year: 2024, Month: 5}) {
			t.Errorf("parseTimestamp(%q) = %v", raw, ts)
		}
	}
	if _, err := parseTimestamp("May 2024"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
