// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// withTx runs fn inside a transaction, committing only if fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// touch bumps updated_at on one row of table. When expected is set the row
// must still carry that version, otherwise ErrConflict is returned.
// table is always a package constant, never user input.
func touch(ctx context.Context, tx *sql.Tx, table string, id uuid.UUID, expected *time.Time) (time.Time, error) {
	var (
		updatedAt time.Time
		err       error
	)
	if expected == nil {
		err = tx.QueryRowContext(ctx,
			`UPDATE `+table+` SET updated_at = NOW() WHERE id = $1 RETURNING updated_at`, id,
		).Scan(&updatedAt)
	} else {
		err = tx.QueryRowContext(ctx,
			`UPDATE `+table+` SET updated_at = NOW() WHERE id = $1 AND updated_at = $2 RETURNING updated_at`,
			id, *expected,
		).Scan(&updatedAt)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return updatedAt, err
	}
	if expected == nil {
		return updatedAt, ErrNotFound
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return updatedAt, err
	}
	if exists {
		return updatedAt, ErrConflict
	}
	return updatedAt, ErrNotFound
}

// deleteRow removes one row by id, returning ErrNotFound if nothing matched.
func deleteRow(ctx context.Context, db *sql.DB, table string, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// execOne runs a single-row UPDATE, returning ErrNotFound if nothing matched.
func execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
