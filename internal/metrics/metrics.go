// Vintner - Wine Similarity and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vintner

// Package metrics defines the Prometheus instrumentation for the pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline instrumentation:
// - DuckDB file reads backing the reference tables
// - Service operations (compare, predict, forecast)
// - Response cache efficiency
// - Nearest-neighbor ranking and regressor latency
// - Forecaster calls and circuit breaker state

var (
	// File read metrics
	FileReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_file_read_duration_seconds",
			Help:    "Duration of DuckDB parquet/CSV scans in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"file"},
	)

	FileReadRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_file_read_rows_total",
			Help: "Total number of rows read from data files",
		},
		[]string{"file"},
	)

	FileReadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_file_read_errors_total",
			Help: "Total number of failed data file reads",
		},
		[]string{"file", "error_type"},
	)

	// Service operation metrics
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vintner_operation_duration_seconds",
			Help:    "Duration of service operations in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_operations_total",
			Help: "Total number of service operations by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "client", "not_found", "unavailable", "internal"
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"operation"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_cache_errors_total",
			Help: "Total number of response cache read/write failures",
		},
		[]string{"op"}, // op: "get", "set"
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_cache_evictions_total",
			Help: "Total number of entries dropped from the response cache",
		},
		[]string{"backend"},
	)

	// Similarity metrics
	SimilarityCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vintner_similarity_ranked_candidates",
			Help:    "Number of fused candidates ranked per comparison",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	SimilarityTextQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_similarity_queries_total",
			Help: "Total number of comparisons by whether a text review vector was used",
		},
		[]string{"has_text_review"},
	)

	// Regressor metrics
	RegressorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vintner_regressor_duration_seconds",
			Help:    "Duration of rating regressor invocations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RegressorBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vintner_regressor_batch_size",
			Help:    "Number of batch vintages per regressor invocation",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	RegressorErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vintner_regressor_errors_total",
			Help: "Total number of failed regressor invocations",
		},
	)

	// Forecaster metrics
	ForecastRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vintner_forecast_requests_total",
			Help: "Total number of forecaster calls by field and result",
		},
		[]string{"field", "result"}, // result: "success", "failure"
	)

	ForecastPacingWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vintner_forecast_pacing_wait_seconds",
			Help:    "Time spent waiting for the forecaster pacing limiter",
			Buckets: []float64{0, .01, .1, .5, 1, 2, 5, 10},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordFileRead records a DuckDB file scan
func RecordFileRead(file string, rows int, duration time.Duration, err error) {
	FileReadDuration.WithLabelValues(file).Observe(duration.Seconds())
	if err != nil {
		FileReadErrors.WithLabelValues(file, truncateLabel(err.Error())).Inc()
		return
	}
	FileReadRows.WithLabelValues(file).Add(float64(rows))
}

// RecordOperation records the duration and outcome of a service operation
func RecordOperation(operation, outcome string, duration time.Duration) {
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCacheLookup records a response cache hit or miss
func RecordCacheLookup(operation string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(operation).Inc()
		return
	}
	CacheMisses.WithLabelValues(operation).Inc()
}

// RecordCacheError records a failed cache read or write
func RecordCacheError(op string) {
	CacheErrors.WithLabelValues(op).Inc()
}

// RecordCacheEviction records an entry dropped by capacity, expiry or purge
func RecordCacheEviction(backend string) {
	CacheEvictions.WithLabelValues(backend).Inc()
}

// RecordSimilarityQuery records one comparison ranking
func RecordSimilarityQuery(candidates int, hasTextReview bool) {
	SimilarityCandidates.Observe(float64(candidates))
	label := "false"
	if hasTextReview {
		label = "true"
	}
	SimilarityTextQueries.WithLabelValues(label).Inc()
}

// RecordRegressorCall records one regressor invocation
func RecordRegressorCall(batchSize int, duration time.Duration, err error) {
	RegressorDuration.Observe(duration.Seconds())
	RegressorBatchSize.Observe(float64(batchSize))
	if err != nil {
		RegressorErrors.Inc()
	}
}

// RecordForecastCall records one forecaster call
func RecordForecastCall(field string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ForecastRequests.WithLabelValues(field, result).Inc()
}

// truncateLabel keeps error label cardinality bounded
func truncateLabel(s string) string {
	if len(s) > 50 {
		return s[:50]
	}
	return s
}
