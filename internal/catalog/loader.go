// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vintner/internal/database"
	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/logging"
)

// Sources names the reference files.
type Sources struct {
	Wines    string
	Regions  string
	Wineries string
}

// Load reads the three reference tables concurrently. Failures wrap frame.ErrDataUnavailable.
func Load(ctx context.Context, reader frame.Reader, src Sources) (*Catalog, error) {
	start := time.Now()
	var (
		wines    []Wine
		regions  []Region
		wineries []Winery
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := read(gctx, reader, src.Wines)
		if err == nil {
			wines, err = parseWines(t)
		}
		return err
	})
	g.Go(func() error {
		t, err := read(gctx, reader, src.Regions)
		if err == nil {
			regions, err = parseRegions(t)
		}
		return err
	})
	g.Go(func() error {
		t, err := read(gctx, reader, src.Wineries)
		if err == nil {
			wineries, err = parseWineries(t)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := New(wines, regions, wineries)
	nw, nr, nwy := c.Counts()
	logger := logging.WithComponent("catalog")
	logger.Info().
		Int("wines", nw).
		Int("regions", nr).
		Int("wineries", nwy).
		Dur("duration", time.Since(start)).
		Msg("Loaded reference catalog")
	return c, nil
}

func read(ctx context.Context, reader frame.Reader, path string) (*database.Table, error) {
	t, err := reader.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", frame.ErrDataUnavailable, err)
	}
	return t, nil
}

// columns resolves column positions. Optional columns map to -1 when absent.
type columns struct {
	t   *database.Table
	idx map[string]int
}

func resolve(t *database.Table, required []string, optional ...string) (columns, error) {
	c := columns{t: t, idx: make(map[string]int, len(required)+len(optional))}
	var errs *multierror.Error
	for _, name := range required {
		i, ok := t.ColumnIndex(name)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("missing column %q", name))
			continue
		}
		c.idx[name] = i
	}
	for _, name := range optional {
		i, ok := t.ColumnIndex(name)
		if !ok {
			i = -1
		}
		c.idx[name] = i
	}
	if err := errs.ErrorOrNil(); err != nil {
		return columns{}, fmt.Errorf("%w: %s: %w", frame.ErrDataUnavailable, t.Source, err)
	}
	return c, nil
}

// id returns the internal id of row: the "id" column when present, else the 1-based row position.
func (c columns) id(row int, errs *multierror.Error) (int64, *multierror.Error) {
	col := c.idx["id"]
	if col < 0 {
		return int64(row + 1), errs
	}
	return c.requiredInt(row, "id", errs)
}

func (c columns) requiredInt(row int, name string, errs *multierror.Error) (int64, *multierror.Error) {
	col := c.idx[name]
	if c.t.IsNull(row, col) {
		return 0, multierror.Append(errs, fmt.Errorf("row %d: null %s", row, name))
	}
	n, err := c.t.Int(row, col)
	if err != nil {
		return 0, multierror.Append(errs, err)
	}
	return n, errs
}

// optionalInt returns 0 for NULL; a dangling reference surfaces at lookup time.
func (c columns) optionalInt(row int, name string, errs *multierror.Error) (int64, *multierror.Error) {
	col := c.idx[name]
	if c.t.IsNull(row, col) {
		return 0, errs
	}
	n, err := c.t.Int(row, col)
	if err != nil {
		return 0, multierror.Append(errs, err)
	}
	return n, errs
}

func (c columns) float(row int, name string, errs *multierror.Error) (float64, *multierror.Error) {
	col := c.idx[name]
	if c.t.IsNull(row, col) {
		return 0, errs
	}
	f, err := c.t.Float(row, col)
	if err != nil {
		return 0, multierror.Append(errs, err)
	}
	return f, errs
}

func (c columns) str(row int, name string) string {
	return c.t.String(row, c.idx[name])
}

func finish(t *database.Table, errs *multierror.Error) error {
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %s: %w", frame.ErrDataUnavailable, t.Source, err)
	}
	return nil
}

func parseWines(t *database.Table) ([]Wine, error) {
	c, err := resolve(t,
		[]string{"WineID", "WineName", "Type", "Elaborate", "ABV", "Body", "Acidity", "WineryID", "RegionID"},
		"id")
	if err != nil {
		return nil, err
	}

	wines := make([]Wine, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		w := &wines[i]
		w.ID, errs = c.id(i, errs)
		w.WineID, errs = c.requiredInt(i, "WineID", errs)
		w.ABV, errs = c.float(i, "ABV", errs)
		w.WineryID, errs = c.optionalInt(i, "WineryID", errs)
		w.RegionID, errs = c.optionalInt(i, "RegionID", errs)
		w.Name = c.str(i, "WineName")
		w.Type = c.str(i, "Type")
		w.Elaborate = c.str(i, "Elaborate")
		w.Body = c.str(i, "Body")
		w.Acidity = c.str(i, "Acidity")
	}
	return wines, finish(t, errs)
}

func parseRegions(t *database.Table) ([]Region, error) {
	c, err := resolve(t,
		[]string{"RegionID", "RegionName", "Country", "Code", "Latitude", "Longitude"},
		"id")
	if err != nil {
		return nil, err
	}

	regions := make([]Region, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		r := &regions[i]
		r.ID, errs = c.id(i, errs)
		r.RegionID, errs = c.requiredInt(i, "RegionID", errs)
		r.Latitude, errs = c.float(i, "Latitude", errs)
		r.Longitude, errs = c.float(i, "Longitude", errs)
		r.Name = c.str(i, "RegionName")
		r.Country = c.str(i, "Country")
		r.Code = c.str(i, "Code")
	}
	return regions, finish(t, errs)
}

func parseWineries(t *database.Table) ([]Winery, error) {
	c, err := resolve(t, []string{"WineryID", "WineryName", "Website"}, "id")
	if err != nil {
		return nil, err
	}

	wineries := make([]Winery, t.Len())
	var errs *multierror.Error
	for i := range t.Rows {
		w := &wineries[i]
		w.ID, errs = c.id(i, errs)
		w.WineryID, errs = c.requiredInt(i, "WineryID", errs)
		w.Name = c.str(i, "WineryName")
		w.Website = c.str(i, "Website")
	}
	return wineries, finish(t, errs)
}
