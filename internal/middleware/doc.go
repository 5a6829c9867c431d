// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package middleware provides HTTP middleware components for the API server.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight gauge
  - PerformanceMonitor: rolling latency percentiles per route

All middleware has the func(http.Handler) http.Handler shape used by chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

Route Labels:

Metrics and performance statistics are keyed by the chi route pattern
(/api/v1/projects/{projectID}/{kind}/recommendations), not the raw path, so
project and item IDs do not create new label values. Requests that match no
route are labelled "unmatched".

Thread Safety:

All middleware components are safe for concurrent use. PerformanceMonitor
guards its window with a sync.RWMutex.
*/
package middleware
