// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vintner/internal/config"
	"github.com/tomtom215/vintner/internal/metrics"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, time.Hour)

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v, want miss", ok, err)
	}

	value := []byte(`{"wine_id":1}`)
	if err := s.Set(ctx, "list_vintages_1", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, ok, err := s.Get(ctx, "list_vintages_1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want hit", ok, err)
	}
	if !bytes.Equal(got, []byte(`{"wine_id":1}`)) {
		t.Errorf("Get() = %s, want stored copy", got)
	}
	if n := s.lru.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, 0)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(59 * time.Second)
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Error("entry expired before its TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("entry survived past its TTL")
	}
	if _, ok, _ := s.Get(ctx, "forever"); !ok {
		t.Error("entry without TTL expired")
	}
	if n := s.lru.Len(); n != 1 {
		t.Errorf("Len() = %d, want expired entry removed", n)
	}
}

func TestMemoryStore_StoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10, 20*time.Millisecond)

	if err := s.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("entry outlived the store TTL")
	}
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, 0)
	evictions := testutil.ToFloat64(metrics.CacheEvictions.WithLabelValues(BackendMemory))

	_ = s.Set(ctx, "a", []byte("1"), 0)
	_ = s.Set(ctx, "b", []byte("2"), 0)
	_, _, _ = s.Get(ctx, "a") // a becomes most recent
	_ = s.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := s.Get(ctx, "b"); ok {
		t.Error("b should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok, _ := s.Get(ctx, key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
	if d := testutil.ToFloat64(metrics.CacheEvictions.WithLabelValues(BackendMemory)) - evictions; d != 1 {
		t.Errorf("evictions delta = %v, want 1", d)
	}
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	s := NewMemoryStore(0, 0)
	if _, _, err := s.Get(context.Background(), ""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Get error = %v, want ErrEmptyKey", err)
	}
	if err := s.Set(context.Background(), "", nil, 0); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Set error = %v, want ErrEmptyKey", err)
	}
}

func TestBadgerStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(ctx, "compare_wine_1_2015_3"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v, want miss", ok, err)
	}
	if err := s.Set(ctx, "compare_wine_1_2015_3", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get(ctx, "compare_wine_1_2015_3")
	if err != nil || !ok || string(got) != "[]" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestBadgerStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenInMemoryBadgerStore()
	if err != nil {
		t.Fatalf("OpenInMemoryBadgerStore() error = %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if got, ok, err := s.Get(ctx, "k"); err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
	if _, _, err := s.Get(ctx, ""); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Get(\"\") error = %v, want ErrEmptyKey", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{BackendMemory, "*cache.MemoryStore", false},
		{BackendNone, "cache.NopStore", false},
		{BackendBadger, "*cache.BadgerStore", false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := New(&config.CacheConfig{Backend: tt.backend, Path: t.TempDir(), MaxEntries: 5})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("New() type = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *MemoryStore:
		return "*cache.MemoryStore"
	case *BadgerStore:
		return "*cache.BadgerStore"
	case NopStore:
		return "cache.NopStore"
	}
	return "unknown"
}

func TestNopStore(t *testing.T) {
	var s NopStore
	_ = s.Set(context.Background(), "k", []byte("v"), time.Minute)
	if _, ok, err := s.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v, want miss", ok, err)
	}
}
