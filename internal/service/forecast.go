// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"fmt"

	"github.com/tomtom215/vintner/internal/forecast"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/validation"
	"github.com/tomtom215/vintner/internal/weather"
)

const timestampLayout = "2006-01-02"

// ForecastWeather forecasts one weather field of a region for the given number of months
// past its observed history.
func (s *Service) ForecastWeather(ctx context.Context, req ForecastWeatherRequest) (result WeatherForecast, err error) {
	ctx, done := s.begin(ctx, opForecastWeather)
	defer func() { done(err) }()

	if req.Frequency == "" {
		req.Frequency = s.cfg.Forecast.Frequency
	}
	if verr := validation.Merge(
		validation.ValidateStruct(&req),
		validation.ValidateVar("nb_months", req.Months, fmt.Sprintf("lte=%d", s.cfg.Forecast.MaxHorizonMonths)),
	); verr != nil {
		return WeatherForecast{}, verr
	}
	if s.forecaster == nil {
		return WeatherForecast{}, fmt.Errorf("%w: no forecaster configured", forecast.ErrForecastFailed)
	}

	if req.APIKey != "" {
		ctx = forecast.WithCredential(ctx, req.APIKey)
	}
	if err := s.forecaster.ValidateCredential(ctx); err != nil {
		return WeatherForecast{}, err
	}

	key := forecastKey(req.RegionID, req.Field, req.Months, req.Frequency)
	return cached(ctx, s, opForecastWeather, key, func(ctx context.Context) (WeatherForecast, error) {
		a, err := s.artifacts.Artifacts(ctx)
		if err != nil {
			return WeatherForecast{}, err
		}
		region, err := a.Catalog.Region(ctx, req.RegionID)
		if err != nil {
			return WeatherForecast{}, err
		}

		field, err := weather.ParseField(req.Field)
		if err != nil {
			return WeatherForecast{}, err
		}
		if !a.WeatherHistory.HasField(field) {
			return WeatherForecast{}, fmt.Errorf("%w: %s has no column %s", frame.ErrDataUnavailable, a.WeatherHistory.Source, field)
		}
		series, ok := a.WeatherHistory.Region(region.RegionID)
		if !ok || series.Len() == 0 {
			return WeatherForecast{}, fmt.Errorf("%w: region %d", ErrNoWeatherHistory, req.RegionID)
		}
		history, _ := series.Points(field)

		points, err := s.forecaster.Forecast(ctx, forecast.Request{
			History:   history,
			Horizon:   req.Months,
			Field:     field,
			Frequency: req.Frequency,
		})
		if err != nil {
			return WeatherForecast{}, err
		}

		out := WeatherForecast{
			Timestamps: make([]string, len(points)),
			Field:      req.Field,
			Values:     make([]float64, len(points)),
		}
		for i, p := range points {
			out.Timestamps[i] = p.Time.Format(timestampLayout)
			out.Values[i] = p.Value
		}
		return out, nil
	})
}
