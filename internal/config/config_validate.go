// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package config

import (
	"fmt"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateSimilarity(); err != nil {
		return err
	}

	if err := c.validatePredict(); err != nil {
		return err
	}

	if err := c.validateRegressor(); err != nil {
		return err
	}

	if err := c.validateForecast(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateData requires every table location to be set.
func (c *Config) validateData() error {
	required := []struct {
		name  string
		value string
	}{
		{"DATA_WINE_RATINGS", c.Data.WineRatings},
		{"DATA_COMPOSITION_WEATHER", c.Data.CompositionWeather},
		{"DATA_REVIEW_FLAGS", c.Data.ReviewFlags},
		{"DATA_TEXT_REVIEWS", c.Data.TextReviews},
		{"DATA_RATING_HISTORY", c.Data.RatingHistory},
		{"DATA_WINES", c.Data.Wines},
		{"DATA_REGIONS", c.Data.Regions},
		{"DATA_WINERIES", c.Data.Wineries},
		{"DATA_WEATHER_FORECAST", c.Data.WeatherForecast},
		{"DATA_WEATHER_HISTORY", c.Data.WeatherHistory},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}
	return nil
}

// validSelfExclusion defines the allowed self-exclusion policies
var validSelfExclusion = map[string]bool{
	"window": true,
	"strict": true,
}

// validateSimilarity validates comparison settings
func (c *Config) validateSimilarity() error {
	if c.Similarity.DefaultCandidates < 0 {
		return fmt.Errorf("SIMILARITY_DEFAULT_CANDIDATES must be non-negative, got %d", c.Similarity.DefaultCandidates)
	}
	if c.Similarity.MaxCandidates < 0 {
		return fmt.Errorf("SIMILARITY_MAX_CANDIDATES must be non-negative, got %d", c.Similarity.MaxCandidates)
	}
	if c.Similarity.MaxCandidates > 0 && c.Similarity.DefaultCandidates > c.Similarity.MaxCandidates {
		return fmt.Errorf("SIMILARITY_DEFAULT_CANDIDATES (%d) cannot exceed SIMILARITY_MAX_CANDIDATES (%d)",
			c.Similarity.DefaultCandidates, c.Similarity.MaxCandidates)
	}
	if !validSelfExclusion[c.Similarity.SelfExclusion] {
		return fmt.Errorf("SIMILARITY_SELF_EXCLUSION must be one of: window, strict")
	}
	return nil
}

// validLayouts defines the channel layouts known to the rating pipeline
var validLayouts = map[string]bool{
	"core5":     true,
	"sunshine6": true,
}

// validatePredict validates rating prediction settings
func (c *Config) validatePredict() error {
	p := c.Predict
	if p.MinMaxScaler == "" || p.StandardScaler == "" {
		return fmt.Errorf("PREDICT_MINMAX_SCALER and PREDICT_STANDARD_SCALER are required")
	}
	if p.MinVintage > p.MaxVintage {
		return fmt.Errorf("PREDICT_MIN_VINTAGE (%d) cannot exceed PREDICT_MAX_VINTAGE (%d)", p.MinVintage, p.MaxVintage)
	}
	if p.DefaultBatchVintage < p.MinVintage || p.DefaultBatchVintage > p.MaxVintage {
		return fmt.Errorf("PREDICT_DEFAULT_BATCH_VINTAGE must be between %d and %d, got %d",
			p.MinVintage, p.MaxVintage, p.DefaultBatchVintage)
	}
	if !validLayouts[p.SingleLayout] {
		return fmt.Errorf("PREDICT_SINGLE_LAYOUT must be one of: core5, sunshine6")
	}
	if !validLayouts[p.AllLayout] {
		return fmt.Errorf("PREDICT_ALL_LAYOUT must be one of: core5, sunshine6")
	}
	return nil
}

// validateRegressor validates the model server connection
func (c *Config) validateRegressor() error {
	if err := validateHTTPURL(c.Regressor.URL, "REGRESSOR_URL"); err != nil {
		return err
	}
	if c.Regressor.Model == "" {
		return fmt.Errorf("REGRESSOR_MODEL is required")
	}
	if c.Regressor.Timeout <= 0 {
		return fmt.Errorf("REGRESSOR_TIMEOUT must be positive")
	}
	if c.Regressor.TimeSeriesInput == "" || c.Regressor.NumericalInput == "" {
		return fmt.Errorf("REGRESSOR_TIME_SERIES_INPUT and REGRESSOR_NUMERICAL_INPUT are required")
	}
	return nil
}

// validateForecast validates forecaster and circuit breaker settings
func (c *Config) validateForecast() error {
	f := c.Forecast
	if err := validateHTTPURL(f.URL, "FORECAST_URL"); err != nil {
		return err
	}
	if f.Timeout <= 0 {
		return fmt.Errorf("FORECAST_TIMEOUT must be positive")
	}
	if f.PacingInterval < 0 {
		return fmt.Errorf("FORECAST_PACING_INTERVAL cannot be negative")
	}
	if f.Frequency == "" {
		return fmt.Errorf("FORECAST_FREQUENCY is required")
	}
	if f.MaxHorizonMonths < 1 {
		return fmt.Errorf("FORECAST_MAX_HORIZON_MONTHS must be at least 1, got %d", f.MaxHorizonMonths)
	}
	if f.BreakerFailureRatio <= 0 || f.BreakerFailureRatio > 1 {
		return fmt.Errorf("FORECAST_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", f.BreakerFailureRatio)
	}
	return nil
}

// validCacheBackends defines the allowed cache backends
var validCacheBackends = map[string]bool{
	"memory": true,
	"badger": true,
	"none":   true,
}

// validateCache validates the response cache settings
func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, badger, none")
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=badger")
	}
	if c.Cache.Backend != "none" && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES cannot be negative")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
