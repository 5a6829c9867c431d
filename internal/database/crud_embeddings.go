// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// GetEmbedding returns the stored vector of key, or recommend.ErrNotFound.
func (db *DB) GetEmbedding(ctx context.Context, key recommend.EntityKey) (vec []float32, err error) {
	defer observe("select", "embeddings", time.Now(), &err)

	var encoded string
	err = db.conn.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE entity_kind = ? AND entity_id = ?`,
		key.Kind, key.ID).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding %s: %w", key, err)
	}

	if err = json.Unmarshal([]byte(encoded), &vec); err != nil {
		return nil, fmt.Errorf("failed to decode embedding %s: %w", key, err)
	}
	return vec, nil
}

// PutEmbedding creates or overwrites the vector of key.
func (db *DB) PutEmbedding(ctx context.Context, key recommend.EntityKey, vec []float32) (err error) {
	defer observe("upsert", "embeddings", time.Now(), &err)

	encoded, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("failed to encode embedding %s: %w", key, err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO embeddings (entity_kind, entity_id, dimensions, vector, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (entity_kind, entity_id) DO UPDATE SET
			dimensions = excluded.dimensions,
			vector = excluded.vector,
			updated_at = excluded.updated_at`,
		key.Kind, key.ID, len(vec), string(encoded), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store embedding %s: %w", key, err)
	}
	return nil
}
