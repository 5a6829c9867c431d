// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Ranking Metrics:
  - recommend_requests_total: ranking requests (counter)
    Labels: kind, outcome (ranked, cold_start, no_candidates, error)
  - recommend_operation_duration_seconds: engine operation latency (histogram)
    Labels: kind, operation (add_candidates, recommend, update_features)
  - recommend_candidates_scored: candidates scored per request (histogram)
  - recommend_ingested_candidates_total: ingestion results (counter)
    Labels: kind, result (inserted, duplicate, skipped)
  - recommend_features_refreshed_total: items re-extracted (counter)

Embedding Metrics:
  - embedding_cache_lookups_total: cache lookups (counter), Labels: result
  - embedding_provider_requests_total: provider calls (counter)
    Labels: provider, result (success, error, rate_limited)
  - embedding_provider_duration_seconds: provider latency (histogram)
  - embedding_similarity_unavailable_total: similarity degraded to no signal

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Database and HTTP Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - api_requests_total, api_request_duration_seconds, api_active_requests
*/
package metrics
