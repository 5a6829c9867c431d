// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/middleware"
	"github.com/tomtom215/studyfeed/internal/models"
)

// Health returns service health, embedding wiring and record counts.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	// Check database connectivity (nil means not connected)
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	health := models.HealthStatus{
		Status:            "healthy",
		Version:           Version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.config != nil {
		health.EmbeddingProvider = h.config.Embedding.Provider
		health.EmbeddingStore = h.config.Embedding.Store
	}

	if !dbConnected {
		health.Status = "degraded"
	} else {
		counts, err := h.db.GetRecordCounts(r.Context())
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to count records for health check")
			health.Status = "degraded"
		} else {
			health.Papers = counts.Papers
			health.Videos = counts.Videos
			health.Preferences = counts.Preferences
			health.Embeddings = counts.Embeddings
		}
		if version, err := h.db.GetCurrentSchemaVersion(r.Context()); err == nil {
			health.SchemaVersion = version
		}
	}

	respondSuccess(w, r, http.StatusOK, health, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the database answers, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: models.ReadinessStatus{
			DatabaseConnected: dbConnected,
			ReadyToServe:      dbConnected,
			Uptime:            time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// PerformanceReport is the payload of GET /api/v1/health/performance.
type PerformanceReport struct {
	Endpoints []middleware.EndpointStats `json:"endpoints"`
	Recent    []middleware.RequestSample `json:"recent,omitempty"`
}

// HealthPerformance returns per-route latency percentiles over the recent
// request window. The optional "recent" query parameter (0-100) includes
// the most recent samples.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	report := PerformanceReport{Endpoints: h.perf.Stats()}
	if raw := r.URL.Query().Get("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "recent must be an integer between 0 and 100", nil)
			return
		}
		report.Recent = h.perf.Recent(n)
	}

	respondSuccess(w, r, http.StatusOK, report, start)
}
