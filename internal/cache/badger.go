// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefix for namespacing response entries in BadgerDB.
const badgerKeyPrefix = "response:"

// BadgerStore is a Store backed by BadgerDB. Expiry is enforced by Badger's entry TTL.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a store at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Cached responses are small JSON documents
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// OpenInMemoryBadgerStore opens a Badger store without a data directory.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger cache: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get retrieves a value by key.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return value, true, nil
}

// Set stores value under key with ttl.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerKeyPrefix+key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set cache entry: %w", err)
		}
		return nil
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
