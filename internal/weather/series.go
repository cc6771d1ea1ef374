// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package weather

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// MonthsPerBlock is the length of one vintage weather block.
const MonthsPerBlock = 12

// ErrIncompleteBlock is returned when a block does not hold every month of
// its year exactly once for every field.
var ErrIncompleteBlock = errors.New("incomplete weather block")

// Period is a calendar month.
type Period struct {
	Year  int
	Month int // 1..12
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Time returns the first day of the period at midnight UTC.
func (p Period) Time() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// MonthsUntil returns the number of months from p to q (negative when q is earlier).
func (p Period) MonthsUntil(q Period) int {
	return (q.Year-p.Year)*12 + (q.Month - p.Month)
}

// Valid reports whether the month is in range.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Point is one timestamped value of a single field.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is the monthly weather of one region, sorted by period.
type Series struct {
	RegionID int64
	periods  []Period
	values   map[Field][]float64
}

// NewSeries sorts the rows by (year, month) and returns an immutable series.
// values[f][i] belongs to periods[i]; every field slice must have len(periods) entries.
func NewSeries(regionID int64, periods []Period, values map[Field][]float64) (*Series, error) {
	for f, v := range values {
		if len(v) != len(periods) {
			return nil, fmt.Errorf("region %d field %s has %d values for %d periods", regionID, f, len(v), len(periods))
		}
	}

	order := make([]int, len(periods))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return periods[order[a]].Before(periods[order[b]])
	})

	s := &Series{
		RegionID: regionID,
		periods:  make([]Period, len(periods)),
		values:   make(map[Field][]float64, len(values)),
	}
	for i, src := range order {
		s.periods[i] = periods[src]
	}
	for f, v := range values {
		sorted := make([]float64, len(v))
		for i, src := range order {
			sorted[i] = v[src]
		}
		s.values[f] = sorted
	}
	return s, nil
}

// Len returns the number of months in the series.
func (s *Series) Len() int {
	return len(s.periods)
}

// Last returns the latest period. The series must not be empty.
func (s *Series) Last() Period {
	return s.periods[len(s.periods)-1]
}

// HasField reports whether the series carries values for f.
func (s *Series) HasField(f Field) bool {
	_, ok := s.values[f]
	return ok
}

// Points returns a copy of one field as timestamped points in period order.
func (s *Series) Points(f Field) ([]Point, bool) {
	v, ok := s.values[f]
	if !ok {
		return nil, false
	}
	points := make([]Point, len(v))
	for i, val := range v {
		points[i] = Point{Time: s.periods[i].Time(), Value: val}
	}
	return points, true
}

// Block is the weather of one calendar year for a set of fields, in month order.
type Block struct {
	Year    int
	Periods []Period
	Values  map[Field][]float64
}

// Len returns the number of months present in the block.
func (b Block) Len() int {
	return len(b.Periods)
}

// Year extracts the months of one calendar year. Fields missing from the
// series are absent from the block; the caller decides whether that is fatal.
func (s *Series) Year(year int, fields []Field) Block {
	b := Block{Year: year, Values: make(map[Field][]float64, len(fields))}

	start := sort.Search(len(s.periods), func(i int) bool {
		return s.periods[i].Year >= year
	})
	end := start
	for end < len(s.periods) && s.periods[end].Year == year {
		end++
	}

	b.Periods = append([]Period(nil), s.periods[start:end]...)
	for _, f := range fields {
		v, ok := s.values[f]
		if !ok {
			continue
		}
		b.Values[f] = append([]float64(nil), v[start:end]...)
	}
	return b
}

// Check verifies that the block holds January through December once each,
// in order, with a value per month for every field.
func (b Block) Check(fields []Field) error {
	if len(b.Periods) != MonthsPerBlock {
		return fmt.Errorf("%w: %d has %d of %d months", ErrIncompleteBlock, b.Year, len(b.Periods), MonthsPerBlock)
	}
	for i, p := range b.Periods {
		if p.Year != b.Year || p.Month != i+1 {
			return fmt.Errorf("%w: %d month %d is %s", ErrIncompleteBlock, b.Year, i+1, p)
		}
	}
	for _, f := range fields {
		if len(b.Values[f]) != len(b.Periods) {
			return fmt.Errorf("%w: %d has %d months of %s", ErrIncompleteBlock, b.Year, len(b.Values[f]), f)
		}
	}
	return nil
}

// BlockFromPoints groups forecast points of several fields into the block of one year.
// Points outside the year are ignored. Every field must cover the same months
// of the year, each exactly once.
func BlockFromPoints(year int, points map[Field][]Point) (Block, error) {
	b := Block{Year: year, Values: make(map[Field][]float64, len(points))}

	byField := make(map[Field]map[Period]float64, len(points))
	seen := make(map[Period]bool)
	for f, pts := range points {
		values := make(map[Period]float64, MonthsPerBlock)
		for _, p := range pts {
			period := PeriodOf(p.Time)
			if period.Year != year {
				continue
			}
			if _, dup := values[period]; dup {
				return Block{}, fmt.Errorf("%w: %s has two values for %s", ErrIncompleteBlock, f, period)
			}
			values[period] = p.Value
			if !seen[period] {
				seen[period] = true
				b.Periods = append(b.Periods, period)
			}
		}
		byField[f] = values
	}
	sort.Slice(b.Periods, func(i, j int) bool { return b.Periods[i].Before(b.Periods[j]) })

	for f, values := range byField {
		vals := make([]float64, len(b.Periods))
		for i, period := range b.Periods {
			v, ok := values[period]
			if !ok {
				return Block{}, fmt.Errorf("%w: %s has no value for %s", ErrIncompleteBlock, f, period)
			}
			vals[i] = v
		}
		b.Values[f] = vals
	}
	return b, nil
}

// Table is a set of region series loaded from one monthly weather file.
type Table struct {
	Source  string
	fields  []Field
	regions map[int64]*Series
}

// NewTable indexes series by region.
func NewTable(source string, fields []Field, series []*Series) *Table {
	t := &Table{
		Source:  source,
		fields:  append([]Field(nil), fields...),
		regions: make(map[int64]*Series, len(series)),
	}
	for _, s := range series {
		t.regions[s.RegionID] = s
	}
	return t
}

// HasField reports whether the table carries f.
func (t *Table) HasField(f Field) bool {
	for _, known := range t.fields {
		if known == f {
			return true
		}
	}
	return false
}

// Region returns the series of one region.
func (t *Table) Region(regionID int64) (*Series, bool) {
	s, ok := t.regions[regionID]
	return s, ok
}

// Regions returns the number of regions in the table.
func (t *Table) Regions() int {
	return len(t.regions)
}
