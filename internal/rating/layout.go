// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package rating

import (
	"fmt"

	"github.com/tomtom215/vintner/internal/weather"
)

// Layout names the weather channels fed to the regressor's time-series input, in order.
// Weather columns outside the layout are held at zero.
type Layout struct {
	Name     string
	Channels []weather.Field
}

var (
	// Core5 is the default five-channel layout.
	Core5 = Layout{
		Name: "core5",
		Channels: []weather.Field{
			weather.AvgTemperature,
			weather.AvgPrecipitation,
			weather.AvgHumidity,
			weather.AvgSoilTemperature,
			weather.AvgSoilMoisture,
		},
	}

	// Sunshine6 adds sunshine duration after temperature.
	Sunshine6 = Layout{
		Name: "sunshine6",
		Channels: []weather.Field{
			weather.AvgTemperature,
			weather.AvgSunshineDuration,
			weather.AvgPrecipitation,
			weather.AvgHumidity,
			weather.AvgSoilTemperature,
			weather.AvgSoilMoisture,
		},
	}
)

var layouts = map[string]Layout{
	Core5.Name:     Core5,
	Sunshine6.Name: Sunshine6,
}

// LayoutByName returns a registered layout.
func LayoutByName(name string) (Layout, error) {
	l, ok := layouts[name]
	if !ok {
		return Layout{}, fmt.Errorf("unknown channel layout %q", name)
	}
	return l, nil
}

// modeled reports whether f is one of the layout channels.
func (l Layout) modeled(f weather.Field) bool {
	for _, c := range l.Channels {
		if c == f {
			return true
		}
	}
	return false
}
