// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"

	"github.com/tomtom215/vintner/internal/validation"
)

// ListVintages returns the rated vintages of a wine in first-appearance order.
func (s *Service) ListVintages(ctx context.Context, req ListVintagesRequest) (result VintageList, err error) {
	ctx, done := s.begin(ctx, opListVintages)
	defer func() { done(err) }()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return VintageList{}, verr
	}

	return cached(ctx, s, opListVintages, listVintagesKey(req.WineID), func(ctx context.Context) (VintageList, error) {
		a, err := s.artifacts.Artifacts(ctx)
		if err != nil {
			return VintageList{}, err
		}
		wine, err := a.Catalog.Wine(ctx, req.WineID)
		if err != nil {
			return VintageList{}, err
		}
		return VintageList{
			WineID:   req.WineID,
			Vintages: a.Frames.Ratings.VintagesOf(wine.WineID),
		}, nil
	})
}
