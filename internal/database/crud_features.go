// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/studyfeed/internal/database/query"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// featureChunkSize bounds the IN list of one feature query.
const featureChunkSize = 500

// ReplaceFeatures swaps the item's feature rows for features inside the
// caller's transaction.
func (t *storeTx) ReplaceFeatures(ctx context.Context, kind recommend.ItemKind, itemID int64, features []recommend.Feature) (err error) {
	defer observe("replace", "item_features", time.Now(), &err)

	if _, err = t.tx.ExecContext(ctx,
		`DELETE FROM item_features WHERE kind = ? AND item_id = ?`, string(kind), itemID); err != nil {
		return fmt.Errorf("failed to delete features of item %d: %w", itemID, err)
	}
	if len(features) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx,
		`INSERT INTO item_features (kind, item_id, category, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, f := range features {
		if _, err = stmt.ExecContext(ctx, string(kind), itemID, string(f.Category), f.Value); err != nil {
			return fmt.Errorf("failed to insert feature %s=%s of item %d: %w", f.Category, f.Value, itemID, err)
		}
	}
	return nil
}

// LoadFeatures returns the feature sets of itemIDs. Items without rows
// are absent from the result.
func (t *storeTx) LoadFeatures(ctx context.Context, kind recommend.ItemKind, itemIDs []int64) (sets map[int64]recommend.FeatureSet, err error) {
	defer observe("select", "item_features", time.Now(), &err)

	sets = make(map[int64]recommend.FeatureSet)
	for start := 0; start < len(itemIDs); start += featureChunkSize {
		end := start + featureChunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		if err = t.loadFeatureChunk(ctx, kind, itemIDs[start:end], sets); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

func (t *storeTx) loadFeatureChunk(ctx context.Context, kind recommend.ItemKind, ids []int64, sets map[int64]recommend.FeatureSet) error {
	where, args := query.NewWhereBuilder().
		AddEqual("kind", string(kind)).
		AddInt64s("item_id", ids).
		BuildWithPrefix()

	rows, err := t.tx.QueryContext(ctx, `SELECT item_id, category, value FROM item_features `+where, args...)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			itemID          int64
			category, value string
		)
		if err := rows.Scan(&itemID, &category, &value); err != nil {
			return fmt.Errorf("failed to scan feature: %w", err)
		}
		fs, ok := sets[itemID]
		if !ok {
			fs = recommend.NewFeatureSet()
			sets[itemID] = fs
		}
		fs.Add(recommend.Category(category), value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate features: %w", err)
	}
	return nil
}
