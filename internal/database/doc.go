// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package database is the DuckDB persistence layer of Studyfeed.
//
// DB implements recommend.Store, handing the engine one transaction per
// operation, and recommend.EmbeddingStore for the project and item
// vectors.
//
// # Files
//
//   - database.go: lifecycle (open, checkpoint, close) and record counts
//   - database_connection.go: DSN and connection pool settings
//   - database_schema.go: table creation
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - store.go: the transaction wrapper and query metrics
//   - crud_items.go, crud_features.go, crud_preferences.go: engine tables
//   - crud_embeddings.go: vector upsert and lookup
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	rec, err := recommend.NewVideoRecommender(db, cache, engineCfg, logger)
//
// Every query records its latency and failures through the metrics
// package, labelled by operation and table. Not-found lookups are not
// counted as failures.
package database
