// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "outcome": "ranked", "total_candidates": 12},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 14,
//	    "request_id": "5f0c..."
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "k must be between 0 and 100"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - VALIDATION_ERROR: malformed request or candidate
//   - NOT_FOUND: unknown item or route
//   - DATABASE_ERROR: persistence failure, the operation was rolled back
//   - EMBEDDING_UNAVAILABLE: the embedding provider failed (project embedding only)
//   - METHOD_NOT_ALLOWED, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status            string  `json:"status"` // "healthy" or "degraded"
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	EmbeddingProvider string  `json:"embedding_provider"`
	EmbeddingStore    string  `json:"embedding_store"`
	Uptime            float64 `json:"uptime_seconds"`

	Papers      int64 `json:"papers"`
	Videos      int64 `json:"videos"`
	Preferences int64 `json:"preferences"`
	Embeddings  int64 `json:"embeddings"`

	SchemaVersion int `json:"schema_version"`
}

// ReadinessStatus is the payload of GET /api/v1/health/ready.
type ReadinessStatus struct {
	DatabaseConnected bool    `json:"database_connected"`
	ReadyToServe      bool    `json:"ready_to_serve"`
	Uptime            float64 `json:"uptime_seconds"`
}
