// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tomtom215/vintner/internal/metrics"
)

// memoryEntry is a stored value with its own deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means the store TTL alone applies
}

// MemoryStore is an in-process LRU bounded by entry count.
//
// The store TTL is enforced by the LRU itself. A Set with a shorter ttl
// also records a per-entry deadline that Get checks; a longer ttl is capped
// by the store TTL.
type MemoryStore struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryStore creates a store holding at most maxEntries values, each for
// at most ttl. A zero maxEntries is unbounded and a zero ttl never expires.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	onEvict := func(string, memoryEntry) { metrics.RecordCacheEviction(BackendMemory) }
	return &MemoryStore{
		lru: expirable.NewLRU[string, memoryEntry](maxEntries, onEvict, ttl),
		now: time.Now,
	}
}

// Get returns a copy of the stored value. Found entries become most recently used.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	entry, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.lru.Remove(key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Set stores a copy of value. The least recently used entry is evicted when over capacity.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.lru.Add(key, entry)
	return nil
}

// Close drops all entries.
func (s *MemoryStore) Close() error {
	s.lru.Purge()
	return nil
}
