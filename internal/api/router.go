// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"net/http"

	"github.com/tomtom215/studyfeed/internal/config"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler. A nil security config uses the
// default CORS and rate limit settings.
func NewRouter(handler *Handler, security *config.SecurityConfig) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if security != nil {
		if len(security.CORSOrigins) > 0 {
			mwConfig.CORSAllowedOrigins = security.CORSOrigins
		}
		if security.RateLimitReqs > 0 {
			mwConfig.RateLimitRequests = security.RateLimitReqs
		}
		if security.RateLimitWindow > 0 {
			mwConfig.RateLimitWindow = security.RateLimitWindow
		}
		mwConfig.RateLimitDisabled = security.RateLimitDisabled
	}
	mwConfig.RateLimitOnLimit = rateLimited

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// rateLimited answers requests rejected by the rate limiter.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Rate limit exceeded, retry later", nil)
}

// notFound answers unmatched routes with the JSON error envelope.
func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
}

// methodNotAllowed answers matched routes called with the wrong method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
}
