// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// Preferences returns the project's likes and dislikes for kind in
// insertion order.
func (t *storeTx) Preferences(ctx context.Context, projectID int64, kind recommend.ItemKind) (prefs []recommend.Preference, err error) {
	defer observe("select", "preferences", time.Now(), &err)

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, project_id, kind, item_id, liked, created_at
		FROM preferences
		WHERE project_id = ? AND kind = ?
		ORDER BY created_at, id`,
		projectID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			p      recommend.Preference
			pkKind string
		)
		if err = rows.Scan(&p.ID, &p.ProjectID, &pkKind, &p.ItemID, &p.Liked, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p.Kind = recommend.ItemKind(pkKind)
		p.CreatedAt = p.CreatedAt.UTC()
		prefs = append(prefs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}
	return prefs, nil
}

// InsertPreference persists pref and returns its new ID.
func (t *storeTx) InsertPreference(ctx context.Context, pref *recommend.Preference) (id int64, err error) {
	defer observe("insert", "preferences", time.Now(), &err)

	createdAt := pref.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO preferences (project_id, kind, item_id, liked, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		pref.ProjectID, string(pref.Kind), pref.ItemID, pref.Liked, createdAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert preference: %w", err)
	}
	return id, nil
}
