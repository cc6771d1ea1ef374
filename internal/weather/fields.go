// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package weather holds the monthly weather vocabulary and region series
// shared by the forecaster and the rating pipeline.
package weather

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned for a weather field outside the aggregated set.
var ErrUnknownField = errors.New("unknown weather field")

// Field names one aggregated monthly weather column.
type Field string

const (
	AvgTemperature      Field = "avg_temperature"
	MinTemperature      Field = "min_temperature"
	MaxTemperature      Field = "max_temperature"
	AvgSunshineDuration Field = "avg_sunshine_duration"
	MinSunshineDuration Field = "min_sunshine_duration"
	MaxSunshineDuration Field = "max_sunshine_duration"
	AvgPrecipitation    Field = "avg_precipitation"
	AvgRain             Field = "avg_rain"
	AvgSnowfall         Field = "avg_snowfall"
	AvgHumidity         Field = "avg_humidity"
	AvgWindSpeed        Field = "avg_wind_speed"
	AvgSoilTemperature  Field = "avg_soil_temperature"
	AvgSoilMoisture     Field = "avg_soil_moisture"
)

// Fields lists every forecastable field.
var Fields = []Field{
	AvgTemperature, MinTemperature, MaxTemperature,
	AvgSunshineDuration, MinSunshineDuration, MaxSunshineDuration,
	AvgPrecipitation, AvgRain, AvgSnowfall,
	AvgHumidity, AvgWindSpeed, AvgSoilTemperature,
	AvgSoilMoisture,
}

// RatingFields lists the nine weather columns of the rating feature table, in column order.
var RatingFields = []Field{
	AvgTemperature,
	AvgSunshineDuration,
	AvgPrecipitation,
	AvgRain,
	AvgSnowfall,
	AvgHumidity,
	AvgWindSpeed,
	AvgSoilTemperature,
	AvgSoilMoisture,
}

// Valid reports whether f is one of Fields.
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.TrimSpace(s))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}
