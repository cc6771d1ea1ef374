// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package cache provides the response cache used by the service layer.
//
// Values are opaque byte payloads keyed by request parameters, each stored
// with a TTL. Three backends are available:
//
//   - memory: an in-process LRU bounded by entry count
//   - badger: a BadgerDB directory, shared across CLI invocations
//   - none: every lookup misses and writes are discarded
//
// Usage:
//
//	store, err := cache.New(&cfg.Cache)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if data, ok, err := store.Get(ctx, key); err == nil && ok {
//	    // decode cached result
//	}
//	_ = store.Set(ctx, key, payload, cfg.Cache.TTL)
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/vintner/internal/config"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("cache key cannot be empty")

// Store is a TTL key-value cache.
type Store interface {
	// Get returns the value and true if the key exists and has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendNone   = "none"
)

// New creates the store selected by cfg.Backend.
func New(cfg *config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(cfg.MaxEntries, cfg.TTL), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.Path)
	case BackendNone:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NopStore never holds anything.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopStore) Close() error { return nil }

// Verify interface implementations at compile time
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BadgerStore)(nil)
	_ Store = NopStore{}
)
