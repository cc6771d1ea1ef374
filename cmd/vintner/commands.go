// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vintner/internal/service"
	"github.com/tomtom215/vintner/internal/validation"
)

// runFunc runs one parsed command against the service.
type runFunc func(ctx context.Context, svc *service.Service) (any, error)

type command struct {
	summary string
	parse   func(args []string) (runFunc, error)
}

var commandOrder = []string{"vintages", "compare", "predict", "predict-all", "forecast"}

var commands = map[string]command{
	"vintages": {
		summary: "list the rated vintages of a wine",
		parse: func(args []string) (runFunc, error) {
			fs := flag.NewFlagSet("vintages", flag.ContinueOnError)
			var req service.ListVintagesRequest
			fs.Int64Var(&req.WineID, "wine-id", 0, "internal wine id")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.ListVintages(ctx, req)
			}, nil
		},
	},
	"compare": {
		summary: "rank the wines most similar to a wine vintage",
		parse: func(args []string) (runFunc, error) {
			fs := flag.NewFlagSet("compare", flag.ContinueOnError)
			var req service.CompareRequest
			fs.Int64Var(&req.WineID, "wine-id", 0, "internal wine id")
			fs.Int64Var(&req.Vintage, "vintage", 0, "vintage year")
			nb := optionalInt(fs, "nb-wines", "number of similar wines (default from config)")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			req.NbWines = nb.value()
			return func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Compare(ctx, req)
			}, nil
		},
	},
	"predict": {
		summary: "predict the rating of one vintage",
		parse: func(args []string) (runFunc, error) {
			fs := flag.NewFlagSet("predict", flag.ContinueOnError)
			var req service.PredictRatingRequest
			fs.Int64Var(&req.WineID, "wine-id", 0, "internal wine id")
			fs.IntVar(&req.RatingYear, "rating-year", 0, "year the rating is predicted for")
			vintage := optionalInt(fs, "batch-vintage", "vintage year (default from config)")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			req.BatchVintage = vintage.value()
			return func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.PredictRating(ctx, req)
			}, nil
		},
	},
	"predict-all": {
		summary: "predict every rated vintage of a wine",
		parse: func(args []string) (runFunc, error) {
			fs := flag.NewFlagSet("predict-all", flag.ContinueOnError)
			var req service.PredictAllRatingsRequest
			fs.Int64Var(&req.WineID, "wine-id", 0, "internal wine id")
			year := optionalInt(fs, "rating-year", "year the ratings are predicted for (default from config)")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			req.RatingYear = year.value()
			return func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.PredictAllRatings(ctx, req)
			}, nil
		},
	},
	"forecast": {
		summary: "forecast a weather field for a region",
		parse: func(args []string) (runFunc, error) {
			fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
			var req service.ForecastWeatherRequest
			fs.Int64Var(&req.RegionID, "region-id", 0, "internal region id")
			fs.StringVar(&req.Field, "field", "", "weather field, e.g. avg_temperature")
			fs.IntVar(&req.Months, "months", 0, "number of months to forecast")
			fs.StringVar(&req.Frequency, "freq", "", "series frequency (default from config)")
			fs.StringVar(&req.APIKey, "api-key", "", "forecaster API key for this request")
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.ForecastWeather(ctx, req)
			}, nil
		},
	},
}

// intFlag is an int flag that remembers whether it was set.
type intFlag struct {
	v   int
	set bool
}

func optionalInt(fs *flag.FlagSet, name, usage string) *intFlag {
	f := &intFlag{}
	fs.Func(name, usage, func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("must be an integer")
		}
		f.v, f.set = v, true
		return nil
	})
	return f
}

func (f *intFlag) value() *int {
	if !f.set {
		return nil
	}
	v := f.v
	return &v
}

type errorReport struct {
	Kind    string            `json:"kind"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func validationDetails(err error) map[string]string {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Details()
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
