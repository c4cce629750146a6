// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
)

// CategoryStore manages one hierarchical taxonomy: practice areas or post
// categories. Both share a table shape, so the store only differs in the
// table names it addresses.
type CategoryStore struct {
	db           *sql.DB
	table        string
	translations string
}

// NewCategoryStore returns a CategoryStore for the given taxonomy.
func NewCategoryStore(db *sql.DB, taxonomy models.Taxonomy) *CategoryStore {
	s := &CategoryStore{db: db}
	switch taxonomy {
	case models.TaxonomyPostCategory:
		s.table, s.translations = "post_categories", "post_category_translations"
	default:
		s.table, s.translations = "practices", "practice_translations"
	}
	return s
}

func (s *CategoryStore) selectQuery(where string) string {
	return `
		SELECT c.id, c.parent_id, c.sort_order, c.created_at, c.updated_at,
		       t.language_code, t.name, t.slug, t.description, t.seo_title, t.seo_description
		FROM ` + s.table + ` c
		LEFT JOIN ` + s.translations + ` t ON t.category_id = c.id
		` + where + `
		ORDER BY c.sort_order, c.created_at, c.id`
}

// collectCategories folds joined category/translation rows into categories,
// keeping the order in which each category first appears.
func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	var (
		items []models.Category
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			c                        models.Category
			lang, name, slug, desc   sql.NullString
			seoTitle, seoDescription sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&lang, &name, &slug, &desc, &seoTitle, &seoDescription,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}

		i, ok := index[c.ID]
		if !ok {
			c.Translations = models.Translations[models.CategoryTranslation]{}
			items = append(items, c)
			i = len(items) - 1
			index[c.ID] = i
		}
		if lang.Valid {
			l := models.Language(lang.String)
			items[i].Translations[l] = models.CategoryTranslation{
				Language:       l,
				Name:           name.String,
				Slug:           slug.String,
				Description:    desc.String,
				SEOTitle:       seoTitle.String,
				SEODescription: seoDescription.String,
			}
		}
	}
	return items, rows.Err()
}

// List returns every category with its translations in one query, ordered
// by sort_order then creation time.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, s.selectQuery(""))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

// FindByID returns one category with its translations, or ErrNotFound.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, s.selectQuery("WHERE c.id = $1"), id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	defer rows.Close()

	items, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// Create inserts the category and all of its translation rows in one
// transaction. The new node is appended after its future siblings.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	out := *c
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO `+s.table+` (parent_id, sort_order)
			VALUES ($1, COALESCE((SELECT MAX(sort_order) + 1 FROM `+s.table+`
			                      WHERE parent_id IS NOT DISTINCT FROM $1), 0))
			RETURNING id, sort_order, created_at, updated_at`,
			c.ParentID,
		).Scan(&out.ID, &out.SortOrder, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return classify("create category", err)
		}
		return s.upsertTranslations(ctx, tx, out.ID, c.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the translation rows of a category. parent_id and
// sort_order are left alone; Move and Reorder own those. When expected is
// non-nil the write only succeeds if the row is still at that version.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category, expected *time.Time) (*models.Category, error) {
	out := *c
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		updatedAt, err := touch(ctx, tx, s.table, c.ID, expected)
		if err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		out.UpdatedAt = updatedAt
		return s.upsertTranslations(ctx, tx, c.ID, c.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryStore) upsertTranslations(ctx context.Context, tx *sql.Tx, id uuid.UUID, tr models.Translations[models.CategoryTranslation]) error {
	for _, lang := range models.Languages {
		t, ok := tr[lang]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO `+s.translations+`
				(category_id, language_code, name, slug, description, seo_title, seo_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (category_id, language_code) DO UPDATE SET
				name = EXCLUDED.name, slug = EXCLUDED.slug,
				description = EXCLUDED.description,
				seo_title = EXCLUDED.seo_title,
				seo_description = EXCLUDED.seo_description`,
			id, lang, t.Name, t.Slug, t.Description, t.SEOTitle, t.SEODescription,
		)
		if err != nil {
			return classify(fmt.Sprintf("save category translation %s", lang), err)
		}
	}
	return nil
}

// Delete removes a category. Translations and the whole subtree go with it
// through ON DELETE CASCADE.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteRow(ctx, s.db, s.table, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Move re-parents a category (nil parentID makes it a root) and appends it
// after its new siblings. Moves within one taxonomy are serialized by a
// transaction-scoped advisory lock, and the new parent's ancestor chain is
// walked under that lock: if it reaches id the move returns ErrCycle.
func (s *CategoryStore) Move(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "move:"+s.table); err != nil {
			return fmt.Errorf("lock %s: %w", s.table, err)
		}

		if parentID != nil {
			// UNION drops repeated rows, so the walk ends even if the
			// table already holds a loop.
			var cycle bool
			err := tx.QueryRowContext(ctx, `
				WITH RECURSIVE ancestors(id, parent_id) AS (
					SELECT id, parent_id FROM `+s.table+` WHERE id = $1
					UNION
					SELECT c.id, c.parent_id FROM `+s.table+` c
					JOIN ancestors a ON c.id = a.parent_id
				)
				SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)`,
				*parentID, id,
			).Scan(&cycle)
			if err != nil {
				return fmt.Errorf("move category: check ancestors: %w", err)
			}
			if cycle {
				return ErrCycle
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE `+s.table+` SET
				parent_id = $2,
				sort_order = COALESCE((SELECT MAX(sort_order) + 1 FROM `+s.table+`
				                       WHERE parent_id IS NOT DISTINCT FROM $2 AND id <> $1), 0),
				updated_at = NOW()
			WHERE id = $1`, id, parentID)
		if err != nil {
			return classify("move category", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("move category %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ReorderItem assigns a sort position to one category.
type ReorderItem struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Reorder updates sort_order for multiple categories in a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE `+s.table+` SET sort_order = $1, updated_at = $2 WHERE id = $3`)
		if err != nil {
			return fmt.Errorf("prepare reorder: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, item := range items {
			res, err := stmt.ExecContext(ctx, item.Order, now, item.ID)
			if err != nil {
				return fmt.Errorf("reorder category %s: %w", item.ID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("reorder category %s: %w", item.ID, ErrNotFound)
			}
		}
		return nil
	})
}
