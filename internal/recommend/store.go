// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import "context"

// Store is the candidate store the Recommender reads and writes through.
// Every operation of the Recommender runs inside one transaction.
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// ItemFilter selects items of one kind within one project.
type ItemFilter struct {
	ProjectID int64
	Kind      ItemKind

	// UnservedOnly excludes items already surfaced by a ranking pass.
	UnservedOnly bool
}

// RankingEntry is the outcome of one ranking pass for one item.
type RankingEntry struct {
	ItemID   int64
	Score    float64
	Position int
}

// Tx is a store transaction. Implementations must make ReplaceFeatures
// atomic: after it returns, the item has exactly the given feature rows.
type Tx interface {
	// FindItemByTitle returns the ID of the item with title in the
	// project, or ErrNotFound.
	FindItemByTitle(ctx context.Context, projectID int64, kind ItemKind, title string) (int64, error)

	// InsertItem persists item and returns its new ID.
	InsertItem(ctx context.Context, item *Item) (int64, error)

	// GetItem returns the item, or ErrNotFound when it does not exist in
	// the project.
	GetItem(ctx context.Context, projectID int64, kind ItemKind, itemID int64) (*Item, error)

	// ListItems returns the matching items ordered by ID.
	ListItems(ctx context.Context, filter ItemFilter) ([]Item, error)

	// ReplaceFeatures deletes the item's feature rows and inserts features.
	ReplaceFeatures(ctx context.Context, kind ItemKind, itemID int64, features []Feature) error

	// LoadFeatures returns the persisted feature sets of itemIDs. Items
	// without feature rows are absent from the result.
	LoadFeatures(ctx context.Context, kind ItemKind, itemIDs []int64) (map[int64]FeatureSet, error)

	// Preferences returns every preference record of the project for kind.
	Preferences(ctx context.Context, projectID int64, kind ItemKind) ([]Preference, error)

	// InsertPreference persists pref and returns its new ID.
	InsertPreference(ctx context.Context, pref *Preference) (int64, error)

	// RecordRanking stores the score and rank position of ranked items.
	RecordRanking(ctx context.Context, kind ItemKind, entries []RankingEntry) error

	// MarkServed flags the items as surfaced.
	MarkServed(ctx context.Context, kind ItemKind, itemIDs []int64) error

	// ProjectIDs returns the IDs of projects owning at least one item of kind.
	ProjectIDs(ctx context.Context, kind ItemKind) ([]int64, error)

	Commit() error
	Rollback() error
}
