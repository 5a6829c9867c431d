// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// embeddingKeyPrefix namespaces vectors in shared key-value stores.
const embeddingKeyPrefix = "emb:"

func storeKey(key recommend.EntityKey) string {
	return embeddingKeyPrefix + key.String()
}

// BadgerStore persists embedding vectors in BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for embeddings: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already opened BadgerDB.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// GetEmbedding returns recommend.ErrNotFound when key has no vector.
func (s *BadgerStore) GetEmbedding(ctx context.Context, key recommend.EntityKey) ([]float32, error) {
	var vec []float32
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storeKey(key)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get embedding: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// PutEmbedding creates or overwrites the vector of key.
func (s *BadgerStore) PutEmbedding(ctx context.Context, key recommend.EntityKey, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(storeKey(key)), data); err != nil {
			return fmt.Errorf("set embedding: %w", err)
		}
		return nil
	})
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
