// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

// VintageList is the result of ListVintages.
type VintageList struct {
	WineID   int64   `json:"wine_id"`
	Vintages []int64 `json:"list_vintages"`
}

// CandidateWine is one similar wine with its display attributes.
type CandidateWine struct {
	ID                 int64    `json:"id"`
	WineID             int64    `json:"wine_id"`
	Vintage            int64    `json:"vintage"`
	Distance           float64  `json:"distance"`
	StructuredDistance float64  `json:"structured_distance"`
	TextDistance       *float64 `json:"text_distance,omitempty"`
	WineName           string   `json:"wine_name"`
	Type               string   `json:"type"`
	Elaborate          string   `json:"elaborate"`
	ABV                float64  `json:"abv"`
	Body               string   `json:"body"`
	Acidity            string   `json:"acidity"`
	Winery             string   `json:"winery"`
	Region             string   `json:"region"`
}

// Comparison is the result of Compare.
type Comparison struct {
	RefWineID  int64           `json:"ref_wine_id"`
	RefVintage int64           `json:"ref_vintage"`
	NbWines    int             `json:"nb_wines"`
	Wines      []CandidateWine `json:"list_wines"`
}

// RatingPrediction is the result of PredictRating.
type RatingPrediction struct {
	WineID        int64   `json:"wine_id"`
	BatchVintage  int     `json:"batch_vintage"`
	RatingYear    int     `json:"rating_year"`
	PredictRating float64 `json:"predict_rating"`
}

// VintagePrediction pairs an observed rating with its prediction.
type VintagePrediction struct {
	BatchVintage  int      `json:"batch_vintage"`
	ActualRating  *float64 `json:"actual_rating"`
	PredictRating float64  `json:"predict_rating"`
}

// RatingPredictionList is the result of PredictAllRatings.
type RatingPredictionList struct {
	WineID     int64               `json:"wine_id"`
	RatingYear int                 `json:"rating_year"`
	Ratings    []VintagePrediction `json:"list_ratings"`
}

// WeatherForecast is the result of ForecastWeather.
type WeatherForecast struct {
	Timestamps []string  `json:"timestamp"`
	Field      string    `json:"predict_field"`
	Values     []float64 `json:"predict_value"`
}
