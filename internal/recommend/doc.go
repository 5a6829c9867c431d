// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package recommend implements the feature-based ranking engine that
// recommends papers and videos to a research project.
//
// # Architecture
//
// Every item is reduced to a set of categorical tags, one set per feature
// category:
//
//   - duration, freshness, popularity and engagement (videos)
//   - year and author (papers)
//   - type, a constant tag per item kind
//   - emb, the bucketed cosine similarity between the item and the project
//
// A project profile is the per-category union of the feature sets of the
// items the project liked (positive) and disliked (negative). Candidates are
// scored with a weighted per-category Jaccard similarity:
//
//	S = max(0, Jpos - lambda * Jneg)
//
// # Determinism
//
// Scoring is a pure function of persisted feature rows and profile sets.
// Categories are summed in a fixed order and ranking ties are broken by item
// ID, so repeated runs over unchanged data return identical results.
//
// # Usage
//
//	cache := recommend.NewEmbeddingCache(provider, embeddingStore, logger)
//	papers, err := recommend.NewPaperRecommender(store, cache, cfg, logger)
//
//	res, err := papers.AddCandidates(ctx, projectID, candidates)
//	resp, err := papers.Recommend(ctx, recommend.Request{ProjectID: projectID, K: 5})
//
// # Thread Safety
//
// A Recommender holds no per-request state and is safe for concurrent use.
// Every mutating call writes inside one store transaction. Embedding
// lookups and provider calls happen outside any transaction, so the
// embedding store may share the candidate store's connection pool.
package recommend
