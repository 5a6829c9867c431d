// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"time"

	"github.com/tomtom215/studyfeed/internal/cache"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// CachedStore is a read-through LRU in front of another EmbeddingStore.
// Misses are not cached.
type CachedStore struct {
	next recommend.EmbeddingStore
	lru  *cache.LRUCache[[]float32]
}

// NewCachedStore keeps up to size vectors of next in memory for ttl
// (non-positive values fall back to the cache defaults).
func NewCachedStore(next recommend.EmbeddingStore, size int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next: next,
		lru:  cache.NewLRUCache[[]float32](size, ttl),
	}
}

// GetEmbedding serves key from memory, falling back to the wrapped store.
func (s *CachedStore) GetEmbedding(ctx context.Context, key recommend.EntityKey) ([]float32, error) {
	k := key.String()
	if vec, ok := s.lru.Get(k); ok {
		return vec, nil
	}

	vec, err := s.next.GetEmbedding(ctx, key)
	if err != nil {
		return nil, err
	}
	s.lru.Add(k, vec)
	return vec, nil
}

// PutEmbedding writes through to the wrapped store, then updates memory.
func (s *CachedStore) PutEmbedding(ctx context.Context, key recommend.EntityKey, vec []float32) error {
	if err := s.next.PutEmbedding(ctx, key, vec); err != nil {
		s.lru.Remove(key.String())
		return err
	}
	s.lru.Add(key.String(), vec)
	return nil
}

// Stats returns the in-memory hit and miss counts and the number of cached vectors.
func (s *CachedStore) Stats() (hits, misses int64, size int) {
	return s.lru.Stats()
}
