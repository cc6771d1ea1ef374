// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

// ListVintagesRequest asks for the rated vintages of one wine.
type ListVintagesRequest struct {
	WineID int64 `json:"wine_id" validate:"gte=1"`
}

// CompareRequest asks for the wines most similar to one wine vintage.
// A nil NbWines selects the configured default.
type CompareRequest struct {
	WineID  int64 `json:"wine_id" validate:"gte=1"`
	Vintage int64 `json:"vintage" validate:"gte=1"`
	NbWines *int  `json:"nb_wines" validate:"omitempty,gte=0"`
}

// PredictRatingRequest asks for the rating of one vintage as of RatingYear.
// A nil BatchVintage selects the configured default.
type PredictRatingRequest struct {
	WineID       int64 `json:"wine_id" validate:"gte=1"`
	BatchVintage *int  `json:"batch_vintage" validate:"omitempty,gte=1"`
	RatingYear   int   `json:"rating_year" validate:"gte=1"`
}

// PredictAllRatingsRequest asks for predictions of every rated vintage of a wine.
// A nil RatingYear selects the configured minimum.
type PredictAllRatingsRequest struct {
	WineID     int64 `json:"wine_id" validate:"gte=1"`
	RatingYear *int  `json:"rating_year" validate:"omitempty,gte=1"`
}

// ForecastWeatherRequest asks for a monthly forecast of one weather field in one region.
// APIKey overrides the configured forecaster credential for this request.
type ForecastWeatherRequest struct {
	RegionID  int64  `json:"region_id" validate:"gte=1"`
	Field     string `json:"predict_field" validate:"required,weather_field"`
	Months    int    `json:"nb_months" validate:"gte=1"`
	Frequency string `json:"freq" validate:"omitempty,oneof=MS M"`
	APIKey    string `json:"-"`
}
