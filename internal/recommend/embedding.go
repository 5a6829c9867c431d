// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/studyfeed/internal/metrics"
)

// EmbeddingProvider turns text into a fixed-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingStore persists one vector per entity.
type EmbeddingStore interface {
	// GetEmbedding returns ErrNotFound when no vector is stored for key.
	GetEmbedding(ctx context.Context, key EntityKey) ([]float32, error)

	// PutEmbedding creates or overwrites the vector of key.
	PutEmbedding(ctx context.Context, key EntityKey, vec []float32) error
}

// EmbeddingCache computes item-to-project similarity, embedding items
// lazily and caching their vectors. A nil provider disables lazy
// embedding; cached vectors are still used.
type EmbeddingCache struct {
	provider EmbeddingProvider
	store    EmbeddingStore
	logger   zerolog.Logger
}

// NewEmbeddingCache creates an embedding cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEmbeddingCache(provider EmbeddingProvider, store EmbeddingStore, logger zerolog.Logger) *EmbeddingCache {
	return &EmbeddingCache{
		provider: provider,
		store:    store,
		logger:   logger.With().Str("component", "embedding_cache").Logger(),
	}
}

// Similarity returns the cosine similarity in [0,1] between the project's
// embedding and the item's, embedding the item on a cache miss. It
// returns false when no similarity can be computed: the project has no
// embedding, the provider failed, or the vectors are incompatible.
// Failures are logged and never returned.
func (c *EmbeddingCache) Similarity(ctx context.Context, projectID int64, item EntityKey, text string) (float64, bool) {
	projectVec, ok := c.projectVector(ctx, projectID)
	if !ok {
		return 0, false
	}
	return c.similarityTo(ctx, projectVec, item, text)
}

// projectVector returns the stored embedding of the project.
func (c *EmbeddingCache) projectVector(ctx context.Context, projectID int64) ([]float32, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	vec, err := c.store.GetEmbedding(ctx, ProjectKey(projectID))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn().Err(err).Int64("project_id", projectID).Msg("project embedding lookup failed")
			metrics.EmbeddingDegraded.Inc()
		}
		return nil, false
	}
	return vec, true
}

// similarityTo compares projectVec with the stored or freshly embedded
// vector of item.
func (c *EmbeddingCache) similarityTo(ctx context.Context, projectVec []float32, item EntityKey, text string) (float64, bool) {
	itemVec, ok := c.itemVector(ctx, item, text)
	if !ok {
		metrics.EmbeddingDegraded.Inc()
		return 0, false
	}
	return c.compare(projectVec, itemVec, item.String())
}

// compare returns the clamped cosine of two vectors of equal length.
func (c *EmbeddingCache) compare(projectVec, itemVec []float32, entity string) (float64, bool) {
	if len(itemVec) != len(projectVec) {
		c.logger.Warn().
			Str("entity", entity).
			Int("item_dims", len(itemVec)).
			Int("project_dims", len(projectVec)).
			Msg("embedding dimensions differ")
		metrics.EmbeddingDegraded.Inc()
		return 0, false
	}
	return clamp01(Cosine(projectVec, itemVec)), true
}

func (c *EmbeddingCache) itemVector(ctx context.Context, item EntityKey, text string) ([]float32, bool) {
	vec, err := c.store.GetEmbedding(ctx, item)
	if err == nil {
		metrics.RecordEmbeddingLookup(true)
		return vec, true
	}
	metrics.RecordEmbeddingLookup(false)
	if !errors.Is(err, ErrNotFound) {
		c.logger.Warn().Err(err).Str("entity", item.String()).Msg("embedding lookup failed")
	}

	vec, ok := c.embedText(ctx, item.String(), text)
	if !ok {
		return nil, false
	}
	c.storeVector(ctx, item, vec)
	return vec, true
}

// canEmbed reports whether new text can be embedded.
func (c *EmbeddingCache) canEmbed() bool {
	return c != nil && c.provider != nil && c.store != nil
}

// embedText asks the provider for the vector of text. entity labels the
// log entries.
func (c *EmbeddingCache) embedText(ctx context.Context, entity, text string) ([]float32, bool) {
	if c.provider == nil || strings.TrimSpace(text) == "" {
		return nil, false
	}

	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		c.logger.Warn().Err(err).Str("entity", entity).Msg("embedding provider failed, no semantic signal")
		return nil, false
	}
	if len(vec) == 0 {
		c.logger.Warn().Str("entity", entity).Msg("embedding provider returned an empty vector")
		return nil, false
	}
	return vec, true
}

// storeVector caches vec under key, logging failures.
func (c *EmbeddingCache) storeVector(ctx context.Context, key EntityKey, vec []float32) {
	if err := c.store.PutEmbedding(ctx, key, vec); err != nil {
		c.logger.Warn().Err(err).Str("entity", key.String()).Msg("failed to cache embedding")
	}
}

// EmbedProject embeds the project's text and creates or overwrites its
// embedding record. Unlike Similarity, it reports provider failures.
func (c *EmbeddingCache) EmbedProject(ctx context.Context, projectID int64, text string) error {
	const op = "embed project"
	if strings.TrimSpace(text) == "" {
		return newError(CodeValidation, op, "project text is empty", nil)
	}
	if c == nil || c.provider == nil || c.store == nil {
		return newError(CodeProvider, op, "no embedding provider configured", nil)
	}

	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return newError(CodeProvider, op, "embedding provider failed", err)
	}
	if len(vec) == 0 {
		return newError(CodeProvider, op, "embedding provider returned an empty vector", nil)
	}
	if err := c.store.PutEmbedding(ctx, ProjectKey(projectID), vec); err != nil {
		return persistenceError(op, fmt.Errorf("store project embedding: %w", err))
	}

	c.logger.Info().Int64("project_id", projectID).Int("dims", len(vec)).Msg("project embedding stored")
	return nil
}

// Cosine returns the cosine similarity of a and b. It returns 0 for
// vectors of different length or zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// SimilarityBucket buckets a similarity in [0,1] into five ordered bins.
func SimilarityBucket(sim float64) string {
	switch {
	case sim > 0.95:
		return "emb:excellent"
	case sim > 0.85:
		return "emb:high"
	case sim > 0.70:
		return "emb:mid"
	case sim > 0.50:
		return "emb:low"
	default:
		return "emb:poor"
	}
}
