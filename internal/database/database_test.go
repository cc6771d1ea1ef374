// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package database

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/database/query"
)

// setupTestDB opens an in-memory DuckDB connection for tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { closeQuietly(db) })
	return db
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadFile_CSVPreservesOrder(t *testing.T) {
	db := setupTestDB(t)
	path := writeFile(t, t.TempDir(), "ratings.csv",
		"WineID,Vintage,Score\n9,2001,0.5\n3,1999,1.25\n7,2010,2.0\n")

	table, err := db.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	if len(table.Columns) != 3 {
		t.Fatalf("Columns = %v, want 3 columns", table.Columns)
	}

	wantIDs := []int64{9, 3, 7}
	idCol, ok := table.ColumnIndex("WineID")
	if !ok {
		t.Fatal("WineID column missing")
	}
	for i, want := range wantIDs {
		got, err := table.Int(i, idCol)
		if err != nil {
			t.Fatalf("Int(%d) error = %v", i, err)
		}
		if got != want {
			t.Errorf("row %d WineID = %d, want %d", i, got, want)
		}
	}

	scoreCol, _ := table.ColumnIndex("Score")
	score, err := table.Float(1, scoreCol)
	if err != nil {
		t.Fatal(err)
	}
	if score != 1.25 {
		t.Errorf("Score = %v, want 1.25", score)
	}
}

func TestReadFile_Missing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ReadFile() error = %v, want ErrFileNotFound", err)
	}
}

func TestReadFile_UnsupportedFormat(t *testing.T) {
	db := setupTestDB(t)
	path := writeFile(t, t.TempDir(), "tree.joblib", "binary")

	_, err := db.ReadFile(context.Background(), path)
	if !errors.Is(err, query.ErrUnsupportedFormat) {
		t.Errorf("ReadFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTable_MissingColumns(t *testing.T) {
	table := &Table{Source: "t", Columns: []string{"WineID", "Vintage"}}

	missing := table.MissingColumns("WineID", "WineName", "Vintage", "ABV")
	if len(missing) != 2 || missing[0] != "WineName" || missing[1] != "ABV" {
		t.Errorf("MissingColumns() = %v, want [WineName ABV]", missing)
	}
	if idx, ok := table.ColumnIndex("Body"); ok || idx != -1 {
		t.Errorf("ColumnIndex(Body) = %d, %v, want -1, false", idx, ok)
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"float64", 1.5, 1.5, true},
		{"float32", float32(2.5), 2.5, true},
		{"int64", int64(3), 3, true},
		{"int32", int32(-4), -4, true},
		{"uint8", uint8(5), 5, true},
		{"big int", big.NewInt(6), 6, true},
		{"numeric string", "7.25", 7.25, true},
		{"text", "Full-bodied", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToFloat64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
		ok   bool
	}{
		{"int64", int64(2015), 2015, true},
		{"int32", int32(1949), 1949, true},
		{"integral float", 2010.0, 2010, true},
		{"fractional float", 2010.5, 0, false},
		{"nil", nil, 0, false},
		{"uint64 overflow", uint64(1 << 63), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToInt64(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
