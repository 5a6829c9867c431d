// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// RedisStore keeps embedding vectors in Redis so several server instances
// share one cache.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // item vectors only; 0 = no expiry
}

// OpenRedisStore connects to Redis and verifies the connection.
func OpenRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// GetEmbedding returns recommend.ErrNotFound when key has no vector.
func (s *RedisStore) GetEmbedding(ctx context.Context, key recommend.EntityKey) ([]float32, error) {
	data, err := s.client.Get(ctx, storeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get embedding: %w", err)
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("decode embedding %s: %w", key, err)
	}
	return vec, nil
}

// PutEmbedding creates or overwrites the vector of key. Project vectors
// never expire; item vectors expire after the configured TTL.
func (s *RedisStore) PutEmbedding(ctx context.Context, key recommend.EntityKey, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	if err := s.client.Set(ctx, storeKey(key), data, s.expiry(key)).Err(); err != nil {
		return fmt.Errorf("redis set embedding: %w", err)
	}
	return nil
}

// expiry returns the TTL applied to key.
func (s *RedisStore) expiry(key recommend.EntityKey) time.Duration {
	if key.Kind == recommend.EntityProject {
		return 0
	}
	return s.ttl
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
