// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"fmt"
	"io"

	"github.com/tomtom215/studyfeed/internal/config"
	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// NewProvider builds the configured embedding provider wrapped in a
// GuardedProvider. It returns a nil provider for "none", which disables
// lazy embedding.
func NewProvider(cfg *config.EmbeddingConfig) (recommend.EmbeddingProvider, error) {
	var (
		inner recommend.EmbeddingProvider
		name  string
	)

	switch cfg.Provider {
	case config.EmbeddingProviderNone:
		logging.Info().Msg("Embedding provider disabled, semantic similarity only from stored vectors")
		return nil, nil
	case config.EmbeddingProviderOpenAI:
		inner = NewOpenAIProvider(OpenAIOptions{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout,
		})
		name = config.EmbeddingProviderOpenAI
	case config.EmbeddingProviderHash:
		inner = NewHashProvider(cfg.Dimensions)
		name = config.EmbeddingProviderHash
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}

	logging.Info().
		Str("provider", name).
		Str("model", cfg.Model).
		Float64("rate_limit", cfg.RateLimit).
		Msg("Embedding provider configured")

	return NewGuardedProvider(inner, GuardOptions{
		Name:             name,
		RateLimit:        cfg.RateLimit,
		RateBurst:        cfg.RateBurst,
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewStore builds the configured embedding store. duckdb is the database's
// own store, passed in as primary. The returned closer releases any
// backend opened here. A positive LRUSize puts a CachedStore in front.
func NewStore(ctx context.Context, cfg *config.EmbeddingConfig, primary recommend.EmbeddingStore) (recommend.EmbeddingStore, io.Closer, error) {
	var (
		store  recommend.EmbeddingStore
		closer io.Closer = nopCloser{}
	)

	switch cfg.Store {
	case config.EmbeddingStoreDuckDB, "":
		if primary == nil {
			return nil, nil, fmt.Errorf("duckdb embedding store requires a database")
		}
		store = primary
	case config.EmbeddingStoreBadger:
		bs, err := OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		store, closer = bs, bs
	case config.EmbeddingStoreRedis:
		rs, err := OpenRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		store, closer = rs, rs
	default:
		return nil, nil, fmt.Errorf("unknown embedding store %q", cfg.Store)
	}

	if cfg.LRUSize > 0 {
		store = NewCachedStore(store, cfg.LRUSize, cfg.LRUTTL)
	}

	logging.Info().Str("store", cfg.Store).Int("lru_size", cfg.LRUSize).Msg("Embedding store configured")
	return store, closer, nil
}
