// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"context"
	"time"

	"github.com/tomtom215/studyfeed/internal/config"
	"github.com/tomtom215/studyfeed/internal/database"
	"github.com/tomtom215/studyfeed/internal/middleware"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// Version is reported by the health endpoint; set at build time.
var Version = "dev"

// Engine is the recommendation engine of one item kind.
// *recommend.Recommender implements it.
type Engine interface {
	Kind() recommend.ItemKind
	AddCandidates(ctx context.Context, projectID int64, candidates []recommend.Candidate) (*recommend.IngestResult, error)
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	UpdateFeatures(ctx context.Context, projectID int64) (int, error)
	UpdateAllFeatures(ctx context.Context) (int, error)
	RecordPreference(ctx context.Context, projectID, itemID int64, liked bool) (*recommend.Preference, error)
	GetItem(ctx context.Context, projectID, itemID int64) (*recommend.Item, error)
}

// ProjectEmbedder creates or overwrites project embeddings.
// *recommend.EmbeddingCache implements it.
type ProjectEmbedder interface {
	EmbedProject(ctx context.Context, projectID int64, text string) error
}

// HealthChecker reports database health. *database.DB implements it.
type HealthChecker interface {
	Ping(ctx context.Context) error
	GetRecordCounts(ctx context.Context) (*database.RecordCounts, error)
	GetCurrentSchemaVersion(ctx context.Context) (int, error)
}

// Handler serves the API endpoints.
type Handler struct {
	engines   map[recommend.ItemKind]Engine
	embedder  ProjectEmbedder
	db        HealthChecker
	config    *config.Config
	perf      *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a handler serving one engine per item kind. embedder
// may be nil, which disables the project embedding endpoint.
func NewHandler(db HealthChecker, embedder ProjectEmbedder, cfg *config.Config, engines ...Engine) *Handler {
	h := &Handler{
		engines:   make(map[recommend.ItemKind]Engine, len(engines)),
		embedder:  embedder,
		db:        db,
		config:    cfg,
		perf:      middleware.NewPerformanceMonitor(1000, 2*time.Second),
		startTime: time.Now(),
	}
	for _, e := range engines {
		h.engines[e.Kind()] = e
	}
	return h
}

// PerformanceMonitor returns the monitor fed by the API routes.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perf
}

// requestContext bounds an engine call by the configured server timeout.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 30 * time.Second
	if h.config != nil && h.config.Server.Timeout > 0 {
		timeout = h.config.Server.Timeout
	}
	return context.WithTimeout(ctx, timeout)
}
