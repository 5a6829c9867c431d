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

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/metrics"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

var (
	_ recommend.Store          = (*DB)(nil)
	_ recommend.Tx             = (*storeTx)(nil)
	_ recommend.EmbeddingStore = (*DB)(nil)
)

// BeginTx starts a store transaction.
func (db *DB) BeginTx(ctx context.Context) (recommend.Tx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &storeTx{tx: tx}, nil
}

// storeTx implements recommend.Tx over a database/sql transaction.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Commit() error {
	err := t.tx.Commit()
	if isTransactionConflict(err) {
		logging.Warn().Err(err).Msg("Transaction conflict on commit")
	}
	return err
}

// Rollback is a no-op after Commit.
func (t *storeTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// observe records the duration and outcome of a query. It is deferred
// with a pointer to the caller's named error result.
func observe(operation, table string, start time.Time, errp *error) {
	err := *errp
	if errors.Is(err, recommend.ErrNotFound) {
		err = nil
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// utc returns t in UTC, or nil for a nil pointer.
func utc(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
