// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package weather

import (
	"errors"
	"testing"
	"time"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"avg_temperature", AvgTemperature, false},
		{" max_sunshine_duration ", MaxSunshineDuration, false},
		{"avg_soil_moisture", AvgSoilMoisture, false},
		{"avg_pressure", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownField) {
					t.Errorf("ParseField(%q) error = %v, want ErrUnknownField", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseField(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFieldsCount(t *testing.T) {
	if len(Fields) != 13 {
		t.Errorf("len(Fields) = %d, want 13", len(Fields))
	}
	if len(RatingFields) != 9 {
		t.Errorf("len(RatingFields) = %d, want 9", len(RatingFields))
	}
}

func TestPeriod(t *testing.T) {
	a := Period{Year: 2022, Month: 11}
	b := Period{Year: 2023, Month: 2}

	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before ordering wrong for %v and %v", a, b)
	}
	if got := a.MonthsUntil(b); got != 3 {
		t.Errorf("MonthsUntil = %d, want 3", got)
	}
	if got := b.MonthsUntil(a); got != -3 {
		t.Errorf("MonthsUntil reversed = %d, want -3", got)
	}
	if got := a.Time(); !got.Equal(time.Date(2022, time.November, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Time() = %v", got)
	}
	if a.String() != "2022-11" {
		t.Errorf("String() = %q, want 2022-11", a.String())
	}
}

func TestNewSeries_SortsByPeriod(t *testing.T) {
	periods := []Period{{2021, 2}, {2020, 12}, {2021, 1}}
	values := map[Field][]float64{AvgTemperature: {2, 12, 1}}

	s, err := NewSeries(4, periods, values)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}

	if s.Last() != (Period{2021, 2}) {
		t.Errorf("Last() = %v, want 2021-02", s.Last())
	}
	points, ok := s.Points(AvgTemperature)
	if !ok {
		t.Fatal("Points() missing field")
	}
	want := []float64{12, 1, 2}
	for i, p := range points {
		if p.Value != want[i] {
			t.Errorf("point %d = %v, want %v", i, p.Value, want[i])
		}
	}
}

func TestNewSeries_LengthMismatch(t *testing.T) {
	_, err := NewSeries(1, []Period{{2020, 1}}, map[Field][]float64{AvgRain: {1, 2}})
	if err == nil {
		t.Error("expected error for mismatched value count")
	}
}

func TestSeriesYear(t *testing.T) {
	var periods []Period
	var temps []float64
	for y := 2019; y <= 2021; y++ {
		for m := 1; m <= 12; m++ {
			periods = append(periods, Period{y, m})
			temps = append(temps, float64(y*100+m))
		}
	}
	s, err := NewSeries(1, periods, map[Field][]float64{AvgTemperature: temps})
	if err != nil {
		t.Fatal(err)
	}

	block := s.Year(2020, []Field{AvgTemperature, AvgHumidity})
	if block.Len() != MonthsPerBlock {
		t.Fatalf("block.Len() = %d, want 12", block.Len())
	}
	if got := block.Values[AvgTemperature][0]; got != 202001 {
		t.Errorf("first value = %v, want 202001", got)
	}
	if _, ok := block.Values[AvgHumidity]; ok {
		t.Error("absent field should not appear in block")
	}

	if empty := s.Year(1990, []Field{AvgTemperature}); empty.Len() != 0 {
		t.Errorf("uncovered year Len() = %d, want 0", empty.Len())
	}
}

func TestBlockFromPoints(t *testing.T) {
	var temps, rain []Point
	for m := 10; m <= 27; m++ {
		ts := time.Date(2024, time.Month(1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m-1, 0)
		temps = append(temps, Point{Time: ts, Value: float64(m)})
		rain = append(rain, Point{Time: ts, Value: float64(-m)})
	}

	block, err := BlockFromPoints(2025, map[Field][]Point{AvgTemperature: temps, AvgRain: rain})
	if err != nil {
		t.Fatalf("BlockFromPoints() error = %v", err)
	}
	if block.Len() != 12 {
		t.Fatalf("block.Len() = %d, want 12", block.Len())
	}
	if block.Periods[0] != (Period{2025, 1}) {
		t.Errorf("first period = %v, want 2025-01", block.Periods[0])
	}
	// 2025-01 is month offset 13 from 2024-01
	if got := block.Values[AvgTemperature][0]; got != 13 {
		t.Errorf("temperature Jan 2025 = %v, want 13", got)
	}
	if got := block.Values[AvgRain][11]; got != -24 {
		t.Errorf("rain Dec 2025 = %v, want -24", got)
	}
}

func TestBlockFromPoints_Incomplete(t *testing.T) {
	months := func(skip int, extra ...int) []Point {
		var pts []Point
		for m := 1; m <= 12; m++ {
			if m != skip {
				pts = append(pts, Point{Time: (Period{2025, m}).Time(), Value: float64(m)})
			}
		}
		for _, m := range extra {
			pts = append(pts, Point{Time: (Period{2025, m}).Time(), Value: -1})
		}
		return pts
	}

	tests := []struct {
		name   string
		points map[Field][]Point
	}{
		{"field missing a month", map[Field][]Point{AvgTemperature: months(0), AvgHumidity: months(12)}},
		{"field with a repeated month", map[Field][]Point{AvgTemperature: months(0), AvgHumidity: months(0, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BlockFromPoints(2025, tt.points); !errors.Is(err, ErrIncompleteBlock) {
				t.Errorf("BlockFromPoints() error = %v, want ErrIncompleteBlock", err)
			}
		})
	}
}

func TestBlockCheck(t *testing.T) {
	full := func() Block {
		b := Block{Year: 2020, Values: map[Field][]float64{AvgTemperature: make([]float64, 12)}}
		for m := 1; m <= 12; m++ {
			b.Periods = append(b.Periods, Period{2020, m})
		}
		return b
	}

	tests := []struct {
		name    string
		block   func() Block
		wantErr bool
	}{
		{"complete", full, false},
		{"eleven months", func() Block {
			b := full()
			b.Periods = b.Periods[:11]
			b.Values[AvgTemperature] = b.Values[AvgTemperature][:11]
			return b
		}, true},
		{"march twice, december missing", func() Block {
			b := full()
			b.Periods = append(b.Periods[:3:3], append([]Period{{2020, 3}}, b.Periods[3:11]...)...)
			return b
		}, true},
		{"other year", func() Block {
			b := full()
			b.Periods[0] = Period{2019, 1}
			return b
		}, true},
		{"field short", func() Block {
			b := full()
			b.Values[AvgTemperature] = b.Values[AvgTemperature][:10]
			return b
		}, true},
		{"field absent", func() Block {
			b := full()
			delete(b.Values, AvgTemperature)
			return b
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block().Check([]Field{AvgTemperature})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrIncompleteBlock) {
				t.Errorf("Check() error = %v, want ErrIncompleteBlock", err)
			}
		})
	}
}

func TestTable(t *testing.T) {
	s, _ := NewSeries(9, []Period{{2020, 1}}, map[Field][]float64{AvgTemperature: {1}})
	table := NewTable("agg.parquet", []Field{AvgTemperature}, []*Series{s})

	if _, ok := table.Region(9); !ok {
		t.Error("Region(9) not found")
	}
	if _, ok := table.Region(1); ok {
		t.Error("Region(1) should be absent")
	}
	if !table.HasField(AvgTemperature) || table.HasField(AvgRain) {
		t.Error("HasField reported wrong membership")
	}
	if table.Regions() != 1 {
		t.Errorf("Regions() = %d, want 1", table.Regions())
	}
}
