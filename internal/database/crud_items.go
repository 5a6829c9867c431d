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

	"github.com/tomtom215/studyfeed/internal/database/query"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

const itemColumns = `id, kind, project_id, title, description, url,
	duration_seconds, view_count, like_count, published_at, published_year,
	authors, served, last_score, rank_position, created_at`

// FindItemByTitle returns the ID of the project's item with the exact title.
func (t *storeTx) FindItemByTitle(ctx context.Context, projectID int64, kind recommend.ItemKind, title string) (id int64, err error) {
	defer observe("select", "items", time.Now(), &err)

	err = t.tx.QueryRowContext(ctx,
		`SELECT id FROM items WHERE project_id = ? AND kind = ? AND title = ? ORDER BY id LIMIT 1`,
		projectID, string(kind), title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, recommend.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up item by title: %w", err)
	}
	return id, nil
}

// InsertItem persists item and returns its new ID.
func (t *storeTx) InsertItem(ctx context.Context, item *recommend.Item) (id int64, err error) {
	defer observe("insert", "items", time.Now(), &err)

	authors, err := json.Marshal(nonNilAuthors(item.Authors))
	if err != nil {
		return 0, fmt.Errorf("failed to encode authors: %w", err)
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO items (
			kind, project_id, title, description, url,
			duration_seconds, view_count, like_count, published_at, published_year,
			authors, served, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		string(item.Kind), item.ProjectID, item.Title, item.Description, item.URL,
		nullableInt(item.DurationSeconds), nullableInt64(item.ViewCount), nullableInt64(item.LikeCount),
		utc(item.PublishedAt), nullableInt(item.PublishedYear),
		string(authors), item.Served, createdAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}
	return id, nil
}

// GetItem returns one item of the project.
func (t *storeTx) GetItem(ctx context.Context, projectID int64, kind recommend.ItemKind, itemID int64) (item *recommend.Item, err error) {
	defer observe("select", "items", time.Now(), &err)

	row := t.tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND project_id = ? AND kind = ?`,
		itemID, projectID, string(kind))
	item, err = scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recommend.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", itemID, err)
	}
	return item, nil
}

// ListItems returns the matching items ordered by ID.
func (t *storeTx) ListItems(ctx context.Context, filter recommend.ItemFilter) (items []recommend.Item, err error) {
	defer observe("select", "items", time.Now(), &err)

	wb := query.NewWhereBuilder().
		AddEqual("project_id", filter.ProjectID).
		AddEqual("kind", string(filter.Kind))
	if filter.UnservedOnly {
		wb.AddClause("served = FALSE")
	}
	where, args := wb.BuildWithPrefix()

	rows, err := t.tx.QueryContext(ctx, `SELECT `+itemColumns+` FROM items `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan item: %w", scanErr)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// RecordRanking stores the score and rank position of ranked items.
func (t *storeTx) RecordRanking(ctx context.Context, kind recommend.ItemKind, entries []recommend.RankingEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	defer observe("update", "items", time.Now(), &err)

	stmt, err := t.tx.PrepareContext(ctx,
		`UPDATE items SET last_score = ?, rank_position = ? WHERE id = ? AND kind = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare ranking update: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.Score, e.Position, e.ItemID, string(kind)); err != nil {
			return fmt.Errorf("failed to record ranking of item %d: %w", e.ItemID, err)
		}
	}
	return nil
}

// MarkServed flags the items as surfaced.
func (t *storeTx) MarkServed(ctx context.Context, kind recommend.ItemKind, itemIDs []int64) (err error) {
	if len(itemIDs) == 0 {
		return nil
	}
	defer observe("update", "items", time.Now(), &err)

	where, args := query.NewWhereBuilder().
		AddEqual("kind", string(kind)).
		AddInt64s("id", itemIDs).
		BuildWithPrefix()
	if _, err = t.tx.ExecContext(ctx, `UPDATE items SET served = TRUE `+where, args...); err != nil {
		return fmt.Errorf("failed to mark items served: %w", err)
	}
	return nil
}

// ProjectIDs returns the projects owning at least one item of kind.
func (t *storeTx) ProjectIDs(ctx context.Context, kind recommend.ItemKind) (ids []int64, err error) {
	defer observe("select", "items", time.Now(), &err)

	rows, err := t.tx.QueryContext(ctx,
		`SELECT DISTINCT project_id FROM items WHERE kind = ? ORDER BY project_id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*recommend.Item, error) {
	var (
		item          recommend.Item
		kind          string
		duration      sql.NullInt64
		views         sql.NullInt64
		likes         sql.NullInt64
		publishedAt   sql.NullTime
		publishedYear sql.NullInt64
		authors       string
		lastScore     sql.NullFloat64
		rankPosition  sql.NullInt64
	)

	err := row.Scan(
		&item.ID, &kind, &item.ProjectID, &item.Title, &item.Description, &item.URL,
		&duration, &views, &likes, &publishedAt, &publishedYear,
		&authors, &item.Served, &lastScore, &rankPosition, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = recommend.ItemKind(kind)
	if duration.Valid {
		v := int(duration.Int64)
		item.DurationSeconds = &v
	}
	if views.Valid {
		v := views.Int64
		item.ViewCount = &v
	}
	if likes.Valid {
		v := likes.Int64
		item.LikeCount = &v
	}
	if publishedAt.Valid {
		v := publishedAt.Time.UTC()
		item.PublishedAt = &v
	}
	if publishedYear.Valid {
		v := int(publishedYear.Int64)
		item.PublishedYear = &v
	}
	if lastScore.Valid {
		v := lastScore.Float64
		item.LastScore = &v
	}
	if rankPosition.Valid {
		v := int(rankPosition.Int64)
		item.RankPosition = &v
	}
	if authors != "" {
		if err := json.Unmarshal([]byte(authors), &item.Authors); err != nil {
			return nil, fmt.Errorf("failed to decode authors: %w", err)
		}
		if len(item.Authors) == 0 {
			item.Authors = nil
		}
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

func nonNilAuthors(authors []string) []string {
	if authors == nil {
		return []string{}
	}
	return authors
}
