// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package service

import (
	"context"
	"fmt"

	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/similarity"
	"github.com/tomtom215/vintner/internal/validation"
)

// Compare returns the wines most similar to one wine vintage, nearest first.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (result Comparison, err error) {
	ctx, done := s.begin(ctx, opCompare)
	defer func() { done(err) }()

	n := s.cfg.Similarity.DefaultCandidates
	if req.NbWines != nil {
		n = *req.NbWines
	}
	if verr := validation.Merge(
		validation.ValidateStruct(&req),
		validation.ValidateVar("nb_wines", n, "gte=0"),
	); verr != nil {
		return Comparison{}, verr
	}
	limit := n
	if maxN := s.cfg.Similarity.MaxCandidates; maxN > 0 && limit > maxN {
		limit = maxN
	}

	key := compareKey(req.WineID, req.Vintage, n)
	return cached(ctx, s, opCompare, key, func(ctx context.Context) (Comparison, error) {
		a, err := s.artifacts.Artifacts(ctx)
		if err != nil {
			return Comparison{}, err
		}
		ref, err := a.Catalog.Wine(ctx, req.WineID)
		if err != nil {
			return Comparison{}, err
		}

		q, err := a.Queries.Build(frame.Key{WineID: ref.WineID, Vintage: req.Vintage})
		if err != nil {
			return Comparison{}, err
		}
		ranked, err := similarity.NewEngine(a.Structured, a.Text, s.self).Rank(ctx, q, limit)
		if err != nil {
			return Comparison{}, err
		}

		wines, err := s.display(ctx, a, ranked)
		if err != nil {
			return Comparison{}, err
		}
		return Comparison{
			RefWineID:  req.WineID,
			RefVintage: req.Vintage,
			NbWines:    n,
			Wines:      wines,
		}, nil
	})
}

// display resolves every candidate's catalog attributes. One unresolved
// candidate fails the whole comparison.
func (s *Service) display(ctx context.Context, a *Artifacts, ranked []similarity.Candidate) ([]CandidateWine, error) {
	wines := make([]CandidateWine, 0, len(ranked))
	for _, c := range ranked {
		w, err := a.Catalog.WineByExternalID(ctx, c.Key.WineID)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %s: %w", ErrDisplayDataMissing, c.Key, err)
		}
		winery, err := a.Catalog.WineryByExternalID(ctx, w.WineryID)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %s: %w", ErrDisplayDataMissing, c.Key, err)
		}
		region, err := a.Catalog.RegionByExternalID(ctx, w.RegionID)
		if err != nil {
			return nil, fmt.Errorf("%w: candidate %s: %w", ErrDisplayDataMissing, c.Key, err)
		}

		cw := CandidateWine{
			ID:                 w.ID,
			WineID:             c.Key.WineID,
			Vintage:            c.Key.Vintage,
			Distance:           c.Distance,
			StructuredDistance: c.StructuredDistance,
			WineName:           w.Name,
			Type:               w.Type,
			Elaborate:          w.Elaborate,
			ABV:                w.ABV,
			Body:               w.Body,
			Acidity:            w.Acidity,
			Winery:             winery.Name,
			Region:             region.Name,
		}
		if c.HasTextDistance {
			d := c.TextDistance
			cw.TextDistance = &d
		}
		wines = append(wines, cw)
	}
	return wines, nil
}
