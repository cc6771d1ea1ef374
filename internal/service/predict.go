// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"fmt"

	"github.com/tomtom215/vintner/internal/catalog"
	"github.com/tomtom215/vintner/internal/rating"
	"github.com/tomtom215/vintner/internal/validation"
)

// PredictRating predicts the rating of one vintage as of the rating year.
func (s *Service) PredictRating(ctx context.Context, req PredictRatingRequest) (result RatingPrediction, err error) {
	ctx, done := s.begin(ctx, opPredictRating)
	defer func() { done(err) }()

	p := s.cfg.Predict
	vintage := p.DefaultBatchVintage
	if req.BatchVintage != nil {
		vintage = *req.BatchVintage
	}
	if verr := validation.Merge(
		validation.ValidateStruct(&req),
		validation.ValidateVar("batch_vintage", vintage, fmt.Sprintf("gte=%d,lte=%d", p.MinVintage, p.MaxVintage)),
		validation.ValidateVar("batch_vintage", vintage, fmt.Sprintf("lte=%d", req.RatingYear)),
	); verr != nil {
		return RatingPrediction{}, verr
	}

	key := predictRatingKey(req.WineID, vintage, req.RatingYear)
	return cached(ctx, s, opPredictRating, key, func(ctx context.Context) (RatingPrediction, error) {
		a, err := s.artifacts.Artifacts(ctx)
		if err != nil {
			return RatingPrediction{}, err
		}
		wine, err := a.Catalog.Wine(ctx, req.WineID)
		if err != nil {
			return RatingPrediction{}, err
		}

		predictions, err := s.predict(ctx, a, wine, req.RatingYear, []int{vintage}, s.single)
		if err != nil {
			return RatingPrediction{}, err
		}
		return RatingPrediction{
			WineID:        req.WineID,
			BatchVintage:  vintage,
			RatingYear:    req.RatingYear,
			PredictRating: predictions[0].Rating,
		}, nil
	})
}

// PredictAllRatings predicts every historically rated vintage of a wine as of
// the rating year, alongside the observed rating.
func (s *Service) PredictAllRatings(ctx context.Context, req PredictAllRatingsRequest) (result RatingPredictionList, err error) {
	ctx, done := s.begin(ctx, opPredictAllRatings)
	defer func() { done(err) }()

	year := s.cfg.Predict.MinRatingYearAll
	if req.RatingYear != nil {
		year = *req.RatingYear
	}
	if verr := validation.Merge(
		validation.ValidateStruct(&req),
		validation.ValidateVar("rating_year", year, fmt.Sprintf("gte=%d", s.cfg.Predict.MinRatingYearAll)),
	); verr != nil {
		return RatingPredictionList{}, verr
	}

	key := predictAllKey(req.WineID, year)
	return cached(ctx, s, opPredictAllRatings, key, func(ctx context.Context) (RatingPredictionList, error) {
		a, err := s.artifacts.Artifacts(ctx)
		if err != nil {
			return RatingPredictionList{}, err
		}
		wine, err := a.Catalog.Wine(ctx, req.WineID)
		if err != nil {
			return RatingPredictionList{}, err
		}

		history := a.Ratings.ForWine(wine.WineID)
		vintages := make([]int, len(history))
		for i, h := range history {
			vintages[i] = int(h.Vintage)
		}

		predictions, err := s.predict(ctx, a, wine, year, vintages, s.all)
		if err != nil {
			return RatingPredictionList{}, err
		}

		ratings := make([]VintagePrediction, len(history))
		for i, h := range history {
			ratings[i] = VintagePrediction{
				BatchVintage:  vintages[i],
				ActualRating:  h.Rating,
				PredictRating: predictions[i].Rating,
			}
		}
		return RatingPredictionList{
			WineID:     req.WineID,
			RatingYear: year,
			Ratings:    ratings,
		}, nil
	})
}

func (s *Service) predict(ctx context.Context, a *Artifacts, wine catalog.Wine, ratingYear int, vintages []int, layout rating.Layout) ([]rating.Prediction, error) {
	pipeline := rating.NewPipeline(a.MinMax, a.Standard, s.weatherSource(a))
	tensors, err := pipeline.Build(ctx, rating.Wine{
		Elaboration: wine.Elaborate,
		Body:        wine.Body,
		Acidity:     wine.Acidity,
		ABV:         wine.ABV,
		RegionID:    wine.RegionID,
	}, ratingYear, vintages, layout)
	if err != nil {
		return nil, err
	}
	return s.predictor.Predict(ctx, tensors)
}

// weatherSource reads vintage years from the precomputed forecast table and,
// when a forecaster is configured, forecasts later years from observed history.
func (s *Service) weatherSource(a *Artifacts) rating.BlockSource {
	chain := rating.ChainSource{rating.NewTableSource(a.WeatherForecast)}
	if s.forecaster != nil && s.cfg.Forecast.APIKey != "" {
		chain = append(chain, rating.NewForecastSource(
			s.forecaster,
			a.WeatherHistory,
			s.cfg.Forecast.Frequency,
			s.cfg.Forecast.MaxHorizonMonths,
		))
	}
	return chain
}
