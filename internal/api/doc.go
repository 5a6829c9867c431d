// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package api provides the HTTP REST API layer for Studyfeed.

The API is a thin adapter over the recommendation engine: an external
retrieval service posts candidates, clients request rankings and record
likes and dislikes. All engine semantics live in internal/recommend.

Endpoints (kind is "papers" or "videos"):

	POST /api/v1/projects/{projectID}/{kind}/candidates           add_candidates
	POST /api/v1/projects/{projectID}/{kind}/recommendations      recommend
	POST /api/v1/projects/{projectID}/{kind}/features/refresh     update_features(project)
	GET  /api/v1/projects/{projectID}/{kind}/items/{itemID}       item lookup
	POST /api/v1/projects/{projectID}/{kind}/items/{itemID}/preference
	PUT  /api/v1/projects/{projectID}/embedding                   project embedding
	POST /api/v1/features/refresh                                 update_features(all)
	GET  /api/v1/health, /api/v1/health/live, /api/v1/health/ready
	GET  /api/v1/health/performance
	GET  /metrics

Responses use the models.APIResponse envelope. Engine errors map to HTTP
status codes by recommend.ErrorCode:

  - validation: 400 VALIDATION_ERROR
  - not_found: 404 NOT_FOUND
  - provider: 502 EMBEDDING_UNAVAILABLE
  - persistence: 500 DATABASE_ERROR

Usage Example:

	handler := api.NewHandler(db, embeddingCache, cfg, paperRec, videoRec)
	router := api.NewRouter(handler, &cfg.Security)
	srv := &http.Server{Addr: ":8460", Handler: router.SetupChi()}

Middleware Stack:

Global: request ID, real IP, panic recovery, access log, CORS, gzip.
API routes add rate limiting (go-chi/httprate), security headers, Prometheus
metrics and the performance monitor.
*/
package api
