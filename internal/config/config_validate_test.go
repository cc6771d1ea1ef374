// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing text review path",
			mutate:  func(c *Config) { c.Data.TextReviews = "" },
			wantErr: "DATA_TEXT_REVIEWS",
		},
		{
			name:    "unknown self exclusion",
			mutate:  func(c *Config) { c.Similarity.SelfExclusion = "loose" },
			wantErr: "SIMILARITY_SELF_EXCLUSION",
		},
		{
			name:    "default candidates above max",
			mutate:  func(c *Config) { c.Similarity.MaxCandidates, c.Similarity.DefaultCandidates = 500, 1000 },
			wantErr: "SIMILARITY_DEFAULT_CANDIDATES",
		},
		{
			name:    "negative max candidates",
			mutate:  func(c *Config) { c.Similarity.MaxCandidates = -1 },
			wantErr: "SIMILARITY_MAX_CANDIDATES",
		},
		{
			name:    "inverted vintage bounds",
			mutate:  func(c *Config) { c.Predict.MinVintage = 2030 },
			wantErr: "PREDICT_MIN_VINTAGE",
		},
		{
			name:    "unknown layout",
			mutate:  func(c *Config) { c.Predict.AllLayout = "seven" },
			wantErr: "PREDICT_ALL_LAYOUT",
		},
		{
			name:    "regressor url with path",
			mutate:  func(c *Config) { c.Regressor.URL = "http://localhost:8501/v1" },
			wantErr: "REGRESSOR_URL",
		},
		{
			name:    "forecast url bad scheme",
			mutate:  func(c *Config) { c.Forecast.URL = "ftp://example.com" },
			wantErr: "FORECAST_URL",
		},
		{
			name:    "failure ratio out of range",
			mutate:  func(c *Config) { c.Forecast.BreakerFailureRatio = 1.5 },
			wantErr: "FORECAST_BREAKER_FAILURE_RATIO",
		},
		{
			name:    "badger without path",
			mutate:  func(c *Config) { c.Cache.Backend = "badger"; c.Cache.Path = "" },
			wantErr: "CACHE_PATH",
		},
		{
			name:   "none backend ignores ttl",
			mutate: func(c *Config) { c.Cache.Backend = "none"; c.Cache.TTL = 0 },
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
