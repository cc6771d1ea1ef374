// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/vintner/internal/frame"
)

type fixture struct {
	frames     *frame.FeatureFrames
	structured *OrderedCorpus
	text       *OrderedCorpus
	builder    *QueryBuilder
}

func mustVectors(t *testing.T, source string, keys []frame.Key, columns []string, values [][]float64) *frame.VectorTable {
	t.Helper()
	vt, err := frame.NewVectorTable(source, keys, columns, values)
	if err != nil {
		t.Fatalf("NewVectorTable(%s) error = %v", source, err)
	}
	return vt
}

// newFixture builds a six-wine structured corpus and a four-wine text corpus.
// 5/2015 has a review, 7/2010 does not, 9/1999 only exists in the text corpus.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	structKeys := []frame.Key{{5, 2015}, {1, 2000}, {2, 2000}, {3, 2000}, {7, 2010}, {4, 2000}}
	composition := mustVectors(t, "composition", structKeys, []string{"abv", "avg_temperature"}, [][]float64{
		{0, 0},
		{1, 0},
		{0, 2},
		{3, 0},
		{0.5, 0.5},
		{4, 0},
	})

	textKeys := []frame.Key{{5, 2015}, {1, 2000}, {2, 2000}, {9, 1999}}
	text := mustVectors(t, "text", textKeys, []string{"d0", "d1"}, [][]float64{
		{0, 0},
		{0, 3},
		{0, 0.5},
		{0, 0.1},
	})

	frames := &frame.FeatureFrames{
		Ratings:     frame.NewKeyTable("ratings", structKeys),
		Composition: composition,
		ReviewFlags: frame.NewKeyTable("flags", []frame.Key{{5, 2015}}),
		TextReviews: text,
	}

	sc, err := NewOrderedCorpus("structured", composition)
	if err != nil {
		t.Fatal(err)
	}
	tc, err := NewOrderedCorpus("text", text)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		frames:     frames,
		structured: sc,
		text:       tc,
		builder:    NewQueryBuilder(frames, sc, tc),
	}
}

func (f *fixture) rank(t *testing.T, self SelfExclusion, key frame.Key, n int) []Candidate {
	t.Helper()
	q, err := f.builder.Build(key)
	if err != nil {
		t.Fatalf("Build(%s) error = %v", key, err)
	}
	got, err := NewEngine(f.structured, f.text, self).Rank(context.Background(), q, n)
	if err != nil {
		t.Fatalf("Rank(%s, %d) error = %v", key, n, err)
	}
	return got
}

func keysOf(cs []Candidate) []frame.Key {
	keys := make([]frame.Key, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return keys
}

func equalKeys(a, b []frame.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRank_WithTextReview(t *testing.T) {
	f := newFixture(t)
	got := f.rank(t, SelfWindow, frame.Key{5, 2015}, 3)

	want := []frame.Key{{9, 1999}, {7, 2010}, {2, 2000}}
	if !equalKeys(keysOf(got), want) {
		t.Fatalf("Rank() keys = %v, want %v", keysOf(got), want)
	}

	for i, c := range got {
		if c.Key == (frame.Key{5, 2015}) {
			t.Errorf("result %d is the reference wine", i)
		}
		if i > 0 && got[i-1].Distance > c.Distance {
			t.Errorf("results not ascending at %d: %v > %v", i, got[i-1].Distance, c.Distance)
		}
		if c.Distance < c.StructuredDistance {
			t.Errorf("%s fused %v < structured %v", c.Key, c.Distance, c.StructuredDistance)
		}
	}

	// text-only key carries a zero structured distance
	if got[0].StructuredDistance != 0 || !got[0].HasTextDistance || math.Abs(got[0].Distance-0.1) > 1e-9 {
		t.Errorf("text-only candidate = %+v", got[0])
	}
	// 2/2000 fuses 2 + 0.5
	if math.Abs(got[2].Distance-2.5) > 1e-9 {
		t.Errorf("2/2000 distance = %v, want 2.5", got[2].Distance)
	}
}

func TestRank_TiesKeepJoinOrder(t *testing.T) {
	f := newFixture(t)
	got := f.rank(t, SelfWindow, frame.Key{5, 2015}, 6)

	// 1/2000 (1+3) and 4/2000 (4+0) tie; 1/2000 is earlier in the structured corpus
	n := len(got)
	if n != 6 {
		t.Fatalf("len = %d, want 6", n)
	}
	if got[n-2].Key != (frame.Key{1, 2000}) || got[n-1].Key != (frame.Key{4, 2000}) {
		t.Errorf("tail = %v, want [1/2000 4/2000]", keysOf(got[n-2:]))
	}
}

func TestRank_WithoutTextReview(t *testing.T) {
	f := newFixture(t)
	got := f.rank(t, SelfWindow, frame.Key{7, 2010}, 3)

	want := []frame.Key{{5, 2015}, {1, 2000}, {2, 2000}}
	if !equalKeys(keysOf(got), want) {
		t.Fatalf("Rank() keys = %v, want %v", keysOf(got), want)
	}
	for _, c := range got {
		if c.HasTextDistance || c.Distance != c.StructuredDistance {
			t.Errorf("%s used a text distance: %+v", c.Key, c)
		}
		if c.Key == (frame.Key{9, 1999}) {
			t.Error("text-only key ranked without a text review")
		}
	}
}

func TestRank_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		key  frame.Key
		n    int
		want int
	}{
		{"zero", frame.Key{5, 2015}, 0, 0},
		{"corpus size no text", frame.Key{7, 2010}, 6, 5},
		{"above corpus size no text", frame.Key{7, 2010}, 100, 5},
		{"joined size with text", frame.Key{5, 2015}, 7, 6},
		{"one", frame.Key{7, 2010}, 1, 1},
	}

	for _, tt := range tests {
		for _, self := range []SelfExclusion{SelfWindow, SelfStrict} {
			t.Run(tt.name+"_"+string(self), func(t *testing.T) {
				f := newFixture(t)
				got := f.rank(t, self, tt.key, tt.n)
				if got == nil {
					t.Fatal("Rank() returned nil slice")
				}
				if len(got) != tt.want {
					t.Errorf("len(Rank()) = %d, want %d", len(got), tt.want)
				}
				for _, c := range got {
					if c.Key == tt.key {
						t.Error("reference wine in result")
					}
				}
			})
		}
	}
}

func TestRank_NegativeCount(t *testing.T) {
	f := newFixture(t)
	q, err := f.builder.Build(frame.Key{5, 2015})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewEngine(f.structured, f.text, SelfWindow).Rank(context.Background(), q, -1)
	if !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Rank(-1) error = %v, want ErrInvalidCount", err)
	}
}

func TestRank_CancelledContext(t *testing.T) {
	f := newFixture(t)
	q, _ := f.builder.Build(frame.Key{5, 2015})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewEngine(f.structured, f.text, "").Rank(ctx, q, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("Rank() error = %v, want context.Canceled", err)
	}
}

func TestParseSelfExclusion(t *testing.T) {
	tests := []struct {
		in      string
		want    SelfExclusion
		wantErr bool
	}{
		{"", SelfWindow, false},
		{"window", SelfWindow, false},
		{"strict", SelfStrict, false},
		{"loose", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelfExclusion(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseSelfExclusion(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}
