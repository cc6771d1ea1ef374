// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package similarity

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vintner/internal/frame"
	"github.com/tomtom215/vintner/internal/logging"
	"github.com/tomtom215/vintner/internal/metrics"
)

// SelfExclusion selects how the reference pair is removed from the ranking.
type SelfExclusion string

const (
	// SelfWindow takes the first N+1 candidates and drops the reference pair
	// when it is among them, otherwise keeps the first N.
	SelfWindow SelfExclusion = "window"
	// SelfStrict drops the reference pair from the full ranking before truncating.
	SelfStrict SelfExclusion = "strict"
)

// ParseSelfExclusion validates a policy name. Empty selects SelfWindow.
func ParseSelfExclusion(s string) (SelfExclusion, error) {
	switch SelfExclusion(s) {
	case "", SelfWindow:
		return SelfWindow, nil
	case SelfStrict:
		return SelfStrict, nil
	}
	return "", fmt.Errorf("unknown self exclusion policy %q", s)
}

// Candidate is one ranked corpus wine.
type Candidate struct {
	Key frame.Key
	// Distance is the fused ranking distance.
	Distance           float64
	StructuredDistance float64
	TextDistance       float64
	HasTextDistance    bool
}

// Engine fuses the structured and text rankings. It holds no request state
// and is safe for concurrent use.
type Engine struct {
	structured *OrderedCorpus
	text       *OrderedCorpus
	self       SelfExclusion
	logger     zerolog.Logger
}

// NewEngine creates an engine over the two corpora.
func NewEngine(structured, text *OrderedCorpus, self SelfExclusion) *Engine {
	if self == "" {
		self = SelfWindow
	}
	return &Engine{
		structured: structured,
		text:       text,
		self:       self,
		logger:     logging.WithComponent("similarity"),
	}
}

// Rank returns up to n candidates ordered by ascending fused distance, with the
// reference pair removed. n == 0 yields an empty list.
func (e *Engine) Rank(ctx context.Context, q *Query, n int) ([]Candidate, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if n == 0 {
		return []Candidate{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joined, err := e.join(q)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].Distance < joined[j].Distance
	})

	result := e.truncate(joined, q.Key, n)

	metrics.RecordSimilarityQuery(len(joined), q.HasTextReview())
	e.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Stringer("key", q.Key).
		Bool("has_text_review", q.HasTextReview()).
		Int("ranked", len(joined)).
		Int("returned", len(result)).
		Msg("Similarity ranking complete")

	return result, nil
}

// join outer-joins the per-key distances of both spaces. Structured keys come
// first in corpus order, then keys only present in the text corpus. Missing
// distances count as zero.
func (e *Engine) join(q *Query) ([]Candidate, error) {
	structured, err := e.structured.distancesByRow(q.Structured.Values)
	if err != nil {
		return nil, err
	}

	joined := make([]Candidate, 0, len(structured))
	position := make(map[frame.Key]int, len(structured))
	for _, kd := range structured {
		position[kd.key] = len(joined)
		joined = append(joined, Candidate{
			Key:                kd.key,
			Distance:           kd.distance,
			StructuredDistance: kd.distance,
		})
	}

	if !q.HasTextReview() {
		return joined, nil
	}

	text, err := e.text.distancesByRow(q.Text.Values)
	if err != nil {
		return nil, err
	}
	for _, kd := range text {
		i, ok := position[kd.key]
		if !ok {
			i = len(joined)
			position[kd.key] = i
			joined = append(joined, Candidate{Key: kd.key})
		}
		c := &joined[i]
		c.TextDistance = kd.distance
		c.HasTextDistance = true
		c.Distance = c.StructuredDistance + c.TextDistance
	}
	return joined, nil
}

func (e *Engine) truncate(ranked []Candidate, self frame.Key, n int) []Candidate {
	if e.self == SelfStrict {
		out := make([]Candidate, 0, n)
		for _, c := range ranked {
			if c.Key == self {
				continue
			}
			if len(out) == n {
				break
			}
			out = append(out, c)
		}
		return out
	}

	window := ranked
	if len(window) > n+1 {
		window = window[:n+1]
	}
	out := make([]Candidate, 0, n)
	removed := false
	for _, c := range window {
		if c.Key == self {
			removed = true
			continue
		}
		out = append(out, c)
	}
	if !removed && len(out) > n {
		out = out[:n]
	}
	return out
}
