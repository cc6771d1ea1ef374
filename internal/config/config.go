// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package config loads Vintner configuration from defaults, an optional YAML
// file, and environment variables, in that order of precedence.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Data       DataConfig       `koanf:"data"`
	Database   DatabaseConfig   `koanf:"database"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Predict    PredictConfig    `koanf:"predict"`
	Regressor  RegressorConfig  `koanf:"regressor"`
	Forecast   ForecastConfig   `koanf:"forecast"`
	Cache      CacheConfig      `koanf:"cache"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DataConfig holds the locations of the reference tables and model artifacts.
// Relative paths are resolved against Dir.
//
// Environment Variables:
//   - DATA_DIR: Base directory for all data files (default: ./data)
type DataConfig struct {
	// Dir is the base directory for relative paths below.
	// Default: data
	Dir string `koanf:"dir"`

	// Comparison corpus tables.
	WineRatings        string `koanf:"wine_ratings"`
	CompositionWeather string `koanf:"composition_weather"`
	ReviewFlags        string `koanf:"review_flags"`
	TextReviews        string `koanf:"text_reviews"`

	// RatingHistory holds observed average ratings per (WineID, Vintage).
	RatingHistory string `koanf:"rating_history"`

	// Reference data.
	Wines    string `koanf:"wines"`
	Regions  string `koanf:"regions"`
	Wineries string `koanf:"wineries"`

	// WeatherForecast is the precomputed monthly forecast table used by rating prediction.
	WeatherForecast string `koanf:"weather_forecast"`

	// WeatherHistory is the observed monthly weather table fed to the forecaster.
	WeatherHistory string `koanf:"weather_history"`
}

// Resolve returns p joined to Dir unless p is empty or already absolute.
func (d DataConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Dir, p)
}

// DatabaseConfig holds DuckDB settings for the file reader connection.
type DatabaseConfig struct {
	Path      string `koanf:"path"` // Empty means an in-memory database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// SimilarityConfig holds comparison settings.
type SimilarityConfig struct {
	// DefaultCandidates is the number of similar wines returned when the request omits it.
	// Default: 10
	DefaultCandidates int `koanf:"default_candidates"`

	// MaxCandidates caps the number of candidates returned. Larger requests
	// are clamped, never rejected. 0 means no cap.
	// Default: 0
	MaxCandidates int `koanf:"max_candidates"`

	// SelfExclusion selects how the reference wine is removed from its own results:
	// "window" only inspects the top N+1 ranked candidates, "strict" filters the full ranking.
	// Default: window
	SelfExclusion string `koanf:"self_exclusion"`
}

// PredictConfig holds rating prediction settings.
type PredictConfig struct {
	// MinMaxScaler is the path to the fitted 13-column min-max scaler (JSON).
	MinMaxScaler string `koanf:"minmax_scaler"`

	// StandardScaler is the path to the fitted time-delta standard scaler (JSON).
	StandardScaler string `koanf:"standard_scaler"`

	// MinVintage and MaxVintage bound the batch vintage of a single prediction.
	// Default: 1949, 2023
	MinVintage int `koanf:"min_vintage"`
	MaxVintage int `koanf:"max_vintage"`

	// DefaultBatchVintage is used when a single prediction omits the batch vintage.
	// Default: 2023
	DefaultBatchVintage int `koanf:"default_batch_vintage"`

	// MinRatingYearAll is the earliest rating year accepted by predict-all.
	// Default: 2023
	MinRatingYearAll int `koanf:"min_rating_year_all"`

	// SingleLayout and AllLayout name the channel layout used by each prediction mode.
	// Default: core5
	SingleLayout string `koanf:"single_layout"`
	AllLayout    string `koanf:"all_layout"`
}

// RegressorConfig holds TensorFlow Serving connection settings for the rating model.
type RegressorConfig struct {
	URL             string        `koanf:"url"`
	Model           string        `koanf:"model"`
	Timeout         time.Duration `koanf:"timeout"`
	TimeSeriesInput string        `koanf:"time_series_input"`
	NumericalInput  string        `koanf:"numerical_input"`
}

// ForecastConfig holds weather forecaster settings.
//
// Environment Variables:
//   - FORECAST_URL: Forecaster base URL
//   - FORECAST_API_KEY: Credential used by rating prediction for years beyond the forecast table
//   - FORECAST_PACING_INTERVAL: Minimum delay between successive forecaster calls (default: 1s)
type ForecastConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`

	// PacingInterval is the minimum spacing between sequential calls to the forecaster.
	// Default: 1s
	PacingInterval time.Duration `koanf:"pacing_interval"`

	// Frequency is the pandas-style series frequency sent with each request.
	// Default: MS
	Frequency string `koanf:"frequency"`

	// MaxHorizonMonths caps forecast length for both direct and prediction-path requests.
	// Default: 240
	MaxHorizonMonths int `koanf:"max_horizon_months"`

	// Circuit breaker settings.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	// Backend is one of: memory, badger, none.
	// Default: memory
	Backend string `koanf:"backend"`

	// Path is the badger directory when Backend is badger.
	Path string `koanf:"path"`

	// TTL is how long a cached response is served.
	// Default: 15m
	TTL time.Duration `koanf:"ttl"`

	// MaxEntries bounds the memory backend (0 = unlimited).
	// Default: 10000
	MaxEntries int `koanf:"max_entries"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load loads configuration using Koanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
