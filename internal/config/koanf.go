// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"vintner.yaml",
	"vintner.yml",
	"/etc/vintner/config.yaml",
	"/etc/vintner/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Defaults returns the built-in configuration, before any file or environment layer.
func Defaults() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:                "data",
			WineRatings:        "compare_data/pertinent_wine_ratings.parquet",
			CompositionWeather: "compare_data/normalized_wine_data.parquet",
			ReviewFlags:        "compare_data/pertinent_ratings_non_null.parquet",
			TextReviews:        "compare_data/aggregated_doc_vector.csv",
			RatingHistory:      "db_data/wine_ratings.parquet",
			Wines:              "db_data/wines.csv",
			Regions:            "db_data/regions.parquet",
			Wineries:           "db_data/wineries.csv",
			WeatherForecast:    "predict_data/forecast_agg_monthly.parquet",
			WeatherHistory:     "predict_data/agg_monthly.parquet",
		},
		Database: DatabaseConfig{
			Path:      "",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Similarity: SimilarityConfig{
			DefaultCandidates: 10,
			MaxCandidates:     0,
			SelfExclusion:     "window",
		},
		Predict: PredictConfig{
			MinMaxScaler:        "model/minmax_scaler.json",
			StandardScaler:      "model/std_scaler.json",
			MinVintage:          1949,
			MaxVintage:          2023,
			DefaultBatchVintage: 2023,
			MinRatingYearAll:    2023,
			SingleLayout:        "core5",
			AllLayout:           "core5",
		},
		Regressor: RegressorConfig{
			URL:             "http://localhost:8501",
			Model:           "cnn_model",
			Timeout:         30 * time.Second,
			TimeSeriesInput: "time_series_input",
			NumericalInput:  "numerical_input",
		},
		Forecast: ForecastConfig{
			URL:                 "https://api.nixtla.io",
			APIKey:              "",
			Timeout:             60 * time.Second,
			PacingInterval:      time.Second,
			Frequency:           "MS",
			MaxHorizonMonths:    240,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			Path:       "/data/vintner-cache",
			TTL:        15 * time.Minute,
			MaxEntries: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in layers:
//
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// DUCKDB_MAX_MEMORY -> database.max_memory
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	"data_dir":                 "data.dir",
	"data_wine_ratings":        "data.wine_ratings",
	"data_composition_weather": "data.composition_weather",
	"data_review_flags":        "data.review_flags",
	"data_text_reviews":        "data.text_reviews",
	"data_rating_history":      "data.rating_history",
	"data_wines":               "data.wines",
	"data_regions":             "data.regions",
	"data_wineries":            "data.wineries",
	"data_weather_forecast":    "data.weather_forecast",
	"data_weather_history":     "data.weather_history",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"similarity_default_candidates": "similarity.default_candidates",
	"similarity_max_candidates":     "similarity.max_candidates",
	"similarity_self_exclusion":     "similarity.self_exclusion",

	"predict_minmax_scaler":         "predict.minmax_scaler",
	"predict_standard_scaler":       "predict.standard_scaler",
	"predict_min_vintage":           "predict.min_vintage",
	"predict_max_vintage":           "predict.max_vintage",
	"predict_default_batch_vintage": "predict.default_batch_vintage",
	"predict_min_rating_year_all":   "predict.min_rating_year_all",
	"predict_single_layout":         "predict.single_layout",
	"predict_all_layout":            "predict.all_layout",

	"regressor_url":               "regressor.url",
	"regressor_model":             "regressor.model",
	"regressor_timeout":           "regressor.timeout",
	"regressor_time_series_input": "regressor.time_series_input",
	"regressor_numerical_input":   "regressor.numerical_input",

	"forecast_url":                   "forecast.url",
	"forecast_api_key":               "forecast.api_key",
	"forecast_timeout":               "forecast.timeout",
	"forecast_pacing_interval":       "forecast.pacing_interval",
	"forecast_frequency":             "forecast.frequency",
	"forecast_max_horizon_months":    "forecast.max_horizon_months",
	"forecast_breaker_max_requests":  "forecast.breaker_max_requests",
	"forecast_breaker_interval":      "forecast.breaker_interval",
	"forecast_breaker_timeout":       "forecast.breaker_timeout",
	"forecast_breaker_min_requests":  "forecast.breaker_min_requests",
	"forecast_breaker_failure_ratio": "forecast.breaker_failure_ratio",

	"cache_backend":     "cache.backend",
	"cache_path":        "cache.path",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DATA_DIR -> data.dir
//   - FORECAST_API_KEY -> forecast.api_key
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never leak into config
	return ""
}
