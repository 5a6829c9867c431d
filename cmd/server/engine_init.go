// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/tomtom215/studyfeed/internal/config"
	"github.com/tomtom215/studyfeed/internal/database"
	"github.com/tomtom215/studyfeed/internal/embedding"
	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/recommend"
	"github.com/tomtom215/studyfeed/internal/supervisor/services"
)

// EngineComponents holds the recommendation engines and their embedding
// dependencies.
type EngineComponents struct {
	Cache  *recommend.EmbeddingCache
	Papers *recommend.Recommender
	Videos *recommend.Recommender

	// HasProvider is false when EMBEDDING_PROVIDER=none; project
	// embeddings cannot be created then.
	HasProvider bool

	// storeCloser releases the embedding store backend.
	storeCloser io.Closer
}

// Close releases the embedding store backend.
func (c *EngineComponents) Close() error {
	if c.storeCloser == nil {
		return nil
	}
	return c.storeCloser.Close()
}

// initEngines wires the embedding provider and store into the paper and
// video recommenders. The DuckDB database is the primary embedding store.
func initEngines(ctx context.Context, cfg *config.Config, db *database.DB) (*EngineComponents, error) {
	logger := logging.Component("engine")

	provider, err := embedding.NewProvider(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if provider == nil {
		logger.Warn().Msg("No embedding provider configured (EMBEDDING_PROVIDER=none); the emb category uses stored vectors only")
	}

	store, closer, err := embedding.NewStore(ctx, &cfg.Embedding, db)
	if err != nil {
		return nil, fmt.Errorf("embedding store: %w", err)
	}

	logger.Info().
		Str("provider", cfg.Embedding.Provider).
		Str("store", cfg.Embedding.Store).
		Int("lru_size", cfg.Embedding.LRUSize).
		Msg("Embedding cache configured")

	cache := recommend.NewEmbeddingCache(provider, store, logger)
	engineCfg := cfg.Recommend.EngineConfig()

	papers, err := recommend.NewPaperRecommender(db, cache, engineCfg, logger)
	if err != nil {
		closeQuietly(closer, "embedding store")
		return nil, fmt.Errorf("paper recommender: %w", err)
	}
	videos, err := recommend.NewVideoRecommender(db, cache, engineCfg, logger)
	if err != nil {
		closeQuietly(closer, "embedding store")
		return nil, fmt.Errorf("video recommender: %w", err)
	}

	logger.Info().
		Float64("lambda", engineCfg.Lambda).
		Int("default_k", engineCfg.DefaultK).
		Int("max_k", engineCfg.MaxK).
		Str("missing_embedding", string(engineCfg.MissingEmbedding)).
		Msg("Recommendation engines initialized")

	return &EngineComponents{
		Cache:       cache,
		Papers:      papers,
		Videos:      videos,
		HasProvider: provider != nil,
		storeCloser: closer,
	}, nil
}

// closeQuietly closes c and logs a failure.
func closeQuietly(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("resource", what).Msg("Error closing resource")
	}
}

// refreshServiceConfig maps the recommend section onto the refresh service.
func refreshServiceConfig(cfg *config.RecommendConfig) services.FeatureRefreshConfig {
	return services.FeatureRefreshConfig{
		Interval:         cfg.RefreshInterval,
		RefreshOnStartup: cfg.RefreshOnStartup,
	}
}
