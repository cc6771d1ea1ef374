// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package database wraps the DuckDB connection used to read the parquet and
// CSV artifacts that back the reference tables.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/database/query"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
)

// DB wraps the DuckDB connection and provides file scan methods
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens a DuckDB connection. An empty cfg.Path opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	// preserve_insertion_order keeps file row order, which is the corpus row index
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&preserve_insertion_order=true&autoinstall_known_extensions=false",
		cfg.Path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg}
	db.configureConnectionPool(numThreads)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Debug().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Str("max_memory", maxMemory).
		Msg("DuckDB connection opened")

	return db, nil
}

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool(threads int) {
	db.conn.SetMaxOpenConns(threads)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// ReadFile scans every row and column of a parquet or CSV file in file order.
func (db *DB) ReadFile(ctx context.Context, path string) (*Table, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	stmt, err := query.ScanAll(path)
	if err != nil {
		return nil, err
	}

	table, err := db.scan(ctx, path, stmt)
	metrics.RecordFileRead(filepath.Base(path), rowCount(table), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (db *DB) scan(ctx context.Context, path, stmt string) (*Table, error) {
	rows, err := db.conn.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	defer closeWithLog(rows, "rows")

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: columns: %w", ErrReadFailed, path, err)
	}

	table := &Table{Source: path, Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: %s: scan row %d: %w", ErrReadFailed, path, len(table.Rows), err)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	return table, nil
}

func rowCount(t *Table) int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
