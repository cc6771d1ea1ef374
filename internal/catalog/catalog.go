// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package catalog provides read-only lookup of wine, region and winery
// reference records by internal id or by external corpus id.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Wine is one row of the wines reference table.
type Wine struct {
	ID        int64   `json:"id"`
	WineID    int64   `json:"wine_id"`
	Name      string  `json:"wine_name"`
	Type      string  `json:"type"`
	Elaborate string  `json:"elaborate"`
	ABV       float64 `json:"abv"`
	Body      string  `json:"body"`
	Acidity   string  `json:"acidity"`
	WineryID  int64   `json:"winery_id"`
	RegionID  int64   `json:"region_id"`
}

// Region is one row of the regions reference table.
type Region struct {
	ID        int64   `json:"id"`
	RegionID  int64   `json:"region_id"`
	Name      string  `json:"region_name"`
	Country   string  `json:"country"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Winery is one row of the wineries reference table.
type Winery struct {
	ID       int64  `json:"id"`
	WineryID int64  `json:"winery_id"`
	Name     string `json:"winery_name"`
	Website  string `json:"website"`
}

// Lookup resolves reference records. Every method returns ErrNotFound for unknown ids.
type Lookup interface {
	Wine(ctx context.Context, id int64) (Wine, error)
	WineByExternalID(ctx context.Context, wineID int64) (Wine, error)
	Region(ctx context.Context, id int64) (Region, error)
	RegionByExternalID(ctx context.Context, regionID int64) (Region, error)
	Winery(ctx context.Context, id int64) (Winery, error)
	WineryByExternalID(ctx context.Context, wineryID int64) (Winery, error)
}

// Catalog is an in-memory Lookup. It is immutable after construction and safe for concurrent use.
type Catalog struct {
	wines    index[Wine]
	regions  index[Region]
	wineries index[Winery]
}

// index holds records by internal and external id. The first record wins on duplicates.
type index[T any] struct {
	kind     string
	byID     map[int64]T
	byExtID  map[int64]T
	inserted int
}

func newIndex[T any](kind string, records []T, ids func(T) (int64, int64)) index[T] {
	ix := index[T]{
		kind:    kind,
		byID:    make(map[int64]T, len(records)),
		byExtID: make(map[int64]T, len(records)),
	}
	for _, r := range records {
		id, ext := ids(r)
		if _, dup := ix.byID[id]; !dup {
			ix.byID[id] = r
			ix.inserted++
		}
		if _, dup := ix.byExtID[ext]; !dup {
			ix.byExtID[ext] = r
		}
	}
	return ix
}

func (ix index[T]) get(m map[int64]T, what string, id int64) (T, error) {
	r, ok := m[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %s %d", ErrNotFound, ix.kind, what, id)
	}
	return r, nil
}

// New builds a catalog from records.
func New(wines []Wine, regions []Region, wineries []Winery) *Catalog {
	return &Catalog{
		wines:    newIndex("wine", wines, func(w Wine) (int64, int64) { return w.ID, w.WineID }),
		regions:  newIndex("region", regions, func(r Region) (int64, int64) { return r.ID, r.RegionID }),
		wineries: newIndex("winery", wineries, func(w Winery) (int64, int64) { return w.ID, w.WineryID }),
	}
}

// Counts returns the number of distinct wines, regions and wineries.
func (c *Catalog) Counts() (wines, regions, wineries int) {
	return c.wines.inserted, c.regions.inserted, c.wineries.inserted
}

func (c *Catalog) Wine(_ context.Context, id int64) (Wine, error) {
	return c.wines.get(c.wines.byID, "id", id)
}

func (c *Catalog) WineByExternalID(_ context.Context, wineID int64) (Wine, error) {
	return c.wines.get(c.wines.byExtID, "WineID", wineID)
}

func (c *Catalog) Region(_ context.Context, id int64) (Region, error) {
	return c.regions.get(c.regions.byID, "id", id)
}

func (c *Catalog) RegionByExternalID(_ context.Context, regionID int64) (Region, error) {
	return c.regions.get(c.regions.byExtID, "RegionID", regionID)
}

func (c *Catalog) Winery(_ context.Context, id int64) (Winery, error) {
	return c.wineries.get(c.wineries.byID, "id", id)
}

func (c *Catalog) WineryByExternalID(_ context.Context, wineryID int64) (Winery, error) {
	return c.wineries.get(c.wineries.byExtID, "WineryID", wineryID)
}

var _ Lookup = (*Catalog)(nil)
