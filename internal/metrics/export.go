// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// runtimePrefixes are the collector families registered by client_golang itself.
var runtimePrefixes = []string{"go_", "process_", "promhttp_"}

// WriteText writes the pipeline metric families gathered from g in the
// Prometheus text format. Runtime collector families are skipped.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !pipelineFamily(mf) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func pipelineFamily(mf *dto.MetricFamily) bool {
	if len(mf.GetMetric()) == 0 {
		return false
	}
	for _, p := range runtimePrefixes {
		if strings.HasPrefix(mf.GetName(), p) {
			return false
		}
	}
	return true
}
