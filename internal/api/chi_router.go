// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/studyfeed/internal/middleware"
)

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)        // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(middleware.AccessLog)        // Structured access log per request
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json", "text/plain"))

	// Set before mounting subrouters so they inherit the JSON handlers
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.handler.perf.Middleware)

		// ========================
		// Health Endpoints
		// ========================
		// Permissive rate limiting so monitoring can poll freely
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
			r.Get("/performance", router.handler.HealthPerformance)
		})

		// ========================
		// Recommendation Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Put("/embedding", router.handler.SetProjectEmbedding)

				r.Route("/{kind}", func(r chi.Router) {
					r.Post("/candidates", router.handler.AddCandidates)
					r.Post("/recommendations", router.handler.Recommend)
					r.Post("/features/refresh", router.handler.RefreshProjectFeatures)
					r.Get("/items/{itemID}", router.handler.GetItem)
					r.Post("/items/{itemID}/preference", router.handler.RecordPreference)
				})
			})
		})

		// Full refresh rescores every item of every project
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitRefresh)).
			Post("/features/refresh", router.handler.RefreshAllFeatures)
	})

	return r
}
