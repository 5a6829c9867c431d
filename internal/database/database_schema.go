// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
database_schema.go - Database Schema Management

Tables:
  - items: papers and videos accepted into a project, with their optional
    attributes and the outcome of the latest ranking pass
  - item_features: one row per (category, value) tag of an item
  - preferences: likes and dislikes recorded per project
  - embeddings: one vector per project or item, JSON encoded

Timestamps are stored as UTC TIMESTAMP values so the schema needs no
extension. Uniqueness of titles within a project is enforced by the
ingestion transaction rather than a constraint.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table creation SQL statements
func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS items_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT PRIMARY KEY DEFAULT nextval('items_id_seq'),
			kind VARCHAR NOT NULL,
			project_id BIGINT NOT NULL,
			title VARCHAR NOT NULL,
			description VARCHAR NOT NULL DEFAULT '',
			url VARCHAR NOT NULL DEFAULT '',
			duration_seconds INTEGER,
			view_count BIGINT,
			like_count BIGINT,
			published_at TIMESTAMP,
			published_year INTEGER,
			authors VARCHAR NOT NULL DEFAULT '[]',
			served BOOLEAN NOT NULL DEFAULT FALSE,
			last_score DOUBLE,
			rank_position INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_project_kind ON items(project_id, kind)`,

		`CREATE TABLE IF NOT EXISTS item_features (
			kind VARCHAR NOT NULL,
			item_id BIGINT NOT NULL,
			category VARCHAR NOT NULL,
			value VARCHAR NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_item_features_item ON item_features(kind, item_id)`,

		`CREATE SEQUENCE IF NOT EXISTS preferences_id_seq START 1`,
		`CREATE TABLE IF NOT EXISTS preferences (
			id BIGINT PRIMARY KEY DEFAULT nextval('preferences_id_seq'),
			project_id BIGINT NOT NULL,
			kind VARCHAR NOT NULL,
			item_id BIGINT NOT NULL,
			liked BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS embeddings (
			entity_kind VARCHAR NOT NULL,
			entity_id BIGINT NOT NULL,
			dimensions INTEGER NOT NULL,
			vector VARCHAR NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (entity_kind, entity_id)
		)`,
	}
}
