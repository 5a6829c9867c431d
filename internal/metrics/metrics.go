// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Ranking Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"kind", "outcome"}, // outcome: "ranked", "cold_start", "no_candidates", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_operation_duration_seconds",
			Help:    "Duration of ranking engine operations in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind", "operation"}, // operation: "add_candidates", "recommend", "update_features"
	)

	RecommendCandidatesScored = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates_scored",
			Help:    "Number of candidates scored per ranking request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"kind"},
	)

	IngestedCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_ingested_candidates_total",
			Help: "Total number of candidates processed by ingestion",
		},
		[]string{"kind", "result"}, // result: "inserted", "duplicate", "skipped"
	)

	FeaturesRefreshed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_features_refreshed_total",
			Help: "Total number of items whose features were re-extracted",
		},
		[]string{"kind"},
	)

	// Embedding Metrics
	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_lookups_total",
			Help: "Total number of embedding cache lookups",
		},
		[]string{"result"}, // result: "hit", "miss"
	)

	EmbeddingProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_provider_requests_total",
			Help: "Total number of embedding provider calls",
		},
		[]string{"provider", "result"}, // result: "success", "error", "rate_limited"
	)

	EmbeddingProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_provider_duration_seconds",
			Help:    "Duration of embedding provider calls in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	EmbeddingDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_similarity_unavailable_total",
			Help: "Total number of similarity computations degraded to no semantic signal",
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

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordRecommend records the outcome of one ranking request.
func RecordRecommend(kind, outcome string, candidates int, duration time.Duration) {
	RecommendRequests.WithLabelValues(kind, outcome).Inc()
	RecommendDuration.WithLabelValues(kind, "recommend").Observe(duration.Seconds())
	RecommendCandidatesScored.WithLabelValues(kind).Observe(float64(candidates))
}

// RecordIngestion records the result counts of one add_candidates call.
func RecordIngestion(kind string, inserted, duplicates, skipped int, duration time.Duration) {
	IngestedCandidates.WithLabelValues(kind, "inserted").Add(float64(inserted))
	IngestedCandidates.WithLabelValues(kind, "duplicate").Add(float64(duplicates))
	IngestedCandidates.WithLabelValues(kind, "skipped").Add(float64(skipped))
	RecommendDuration.WithLabelValues(kind, "add_candidates").Observe(duration.Seconds())
}

// RecordFeatureRefresh records an update_features pass.
func RecordFeatureRefresh(kind string, items int, duration time.Duration) {
	FeaturesRefreshed.WithLabelValues(kind).Add(float64(items))
	RecommendDuration.WithLabelValues(kind, "update_features").Observe(duration.Seconds())
}

// RecordEmbeddingLookup records an embedding cache hit or miss.
func RecordEmbeddingLookup(hit bool) {
	if hit {
		EmbeddingCacheLookups.WithLabelValues("hit").Inc()
	} else {
		EmbeddingCacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordEmbeddingProvider records one provider call.
func RecordEmbeddingProvider(provider, result string, duration time.Duration) {
	EmbeddingProviderRequests.WithLabelValues(provider, result).Inc()
	EmbeddingProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
