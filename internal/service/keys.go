// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import "fmt"

// Operation names, used for cache keys, metrics and logs.
const (
	opListVintages      = "list_vintages"
	opCompare           = "compare_wine"
	opPredictRating     = "predict_rating"
	opPredictAllRatings = "predict_all_rating"
	opForecastWeather   = "forecast_weather"
)

func listVintagesKey(wineID int64) string {
	return fmt.Sprintf("%s_%d", opListVintages, wineID)
}

func compareKey(wineID, vintage int64, nbWines int) string {
	return fmt.Sprintf("%s_%d_%d_%d", opCompare, wineID, vintage, nbWines)
}

func predictRatingKey(wineID int64, batchVintage, ratingYear int) string {
	return fmt.Sprintf("%s_%d_%d_%d", opPredictRating, wineID, batchVintage, ratingYear)
}

func predictAllKey(wineID int64, ratingYear int) string {
	return fmt.Sprintf("%s_%d_%d", opPredictAllRatings, wineID, ratingYear)
}

func forecastKey(regionID int64, field string, months int, freq string) string {
	return fmt.Sprintf("%s_%d_%s_%d_%s", opForecastWeather, regionID, field, months, freq)
}
