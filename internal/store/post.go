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

// PostStore manages blog posts and their per-language rows.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// PostImageColumn names a post image column that can be replaced.
type PostImageColumn string

const (
	ColumnFeaturedImage PostImageColumn = "featured_image_url"
	ColumnSocialImage   PostImageColumn = "social_image_url"
)

const postSelect = `
	SELECT p.id, p.author_id, p.status, p.body_format, p.featured_image_url,
	       p.social_image_url, p.published_at, p.created_at, p.updated_at,
	       t.language_code, t.title, t.slug, t.excerpt, t.body, t.category_id,
	       t.position, t.reading_time, t.seo_title, t.seo_description, t.seo_keywords,
	       t.social_title, t.social_description
	FROM posts p
	LEFT JOIN post_translations t ON t.post_id = p.id`

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	var (
		items []models.Post
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			p                                     models.Post
			lang, title, slug, excerpt, body      sql.NullString
			categoryID                            *uuid.UUID
			position, readingTime                 sql.NullInt64
			seoTitle, seoDescription, seoKeywords sql.NullString
			socialTitle, socialDescription        sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Status, &p.BodyFormat, &p.FeaturedImageURL,
			&p.SocialImageURL, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
			&lang, &title, &slug, &excerpt, &body, &categoryID,
			&position, &readingTime, &seoTitle, &seoDescription, &seoKeywords,
			&socialTitle, &socialDescription,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}

		i, ok := index[p.ID]
		if !ok {
			p.Translations = models.Translations[models.PostTranslation]{}
			items = append(items, p)
			i = len(items) - 1
			index[p.ID] = i
		}
		if lang.Valid {
			l := models.Language(lang.String)
			items[i].Translations[l] = models.PostTranslation{
				Language:           l,
				Title:              title.String,
				Slug:               slug.String,
				Excerpt:            excerpt.String,
				Body:               body.String,
				CategoryID:         categoryID,
				Position:           int(position.Int64),
				ReadingTimeMinutes: int(readingTime.Int64),
				SEOTitle:           seoTitle.String,
				SEODescription:     seoDescription.String,
				SEOKeywords:        seoKeywords.String,
				SocialTitle:        socialTitle.String,
				SocialDescription:  socialDescription.String,
			}
		}
	}
	return items, rows.Err()
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// FindByID returns one post with all translations, or ErrNotFound.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	defer rows.Close()

	items, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// Create inserts a post and its translations in one transaction.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	out := *p
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO posts (author_id, status, body_format, featured_image_url, social_image_url, published_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			p.AuthorID, p.Status, p.BodyFormat, p.FeaturedImageURL, p.SocialImageURL, p.PublishedAt,
		).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return classify("create post", err)
		}
		return upsertPostTranslations(ctx, tx, out.ID, p.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update saves the author, body format and every translation row of a post
// in one transaction.
func (s *PostStore) Update(ctx context.Context, p *models.Post, expected *time.Time) (*models.Post, error) {
	out := *p
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		updatedAt, err := touch(ctx, tx, "posts", p.ID, expected)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		out.UpdatedAt = updatedAt

		if _, err := tx.ExecContext(ctx, `
			UPDATE posts SET author_id = $2, body_format = $3 WHERE id = $1`,
			p.ID, p.AuthorID, p.BodyFormat,
		); err != nil {
			return classify("update post", err)
		}
		return upsertPostTranslations(ctx, tx, p.ID, p.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func upsertPostTranslations(ctx context.Context, tx *sql.Tx, id uuid.UUID, tr models.Translations[models.PostTranslation]) error {
	for _, lang := range models.Languages {
		t, ok := tr[lang]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO post_translations
				(post_id, language_code, title, slug, excerpt, body, category_id, position,
				 reading_time, seo_title, seo_description, seo_keywords, social_title, social_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (post_id, language_code) DO UPDATE SET
				title = EXCLUDED.title, slug = EXCLUDED.slug, excerpt = EXCLUDED.excerpt,
				body = EXCLUDED.body, category_id = EXCLUDED.category_id,
				position = EXCLUDED.position, reading_time = EXCLUDED.reading_time,
				seo_title = EXCLUDED.seo_title, seo_description = EXCLUDED.seo_description,
				seo_keywords = EXCLUDED.seo_keywords, social_title = EXCLUDED.social_title,
				social_description = EXCLUDED.social_description`,
			id, lang, t.Title, t.Slug, t.Excerpt, t.Body, t.CategoryID, t.Position,
			t.ReadingTimeMinutes, t.SEOTitle, t.SEODescription, t.SEOKeywords,
			t.SocialTitle, t.SocialDescription,
		)
		if err != nil {
			return classify(fmt.Sprintf("save post translation %s", lang), err)
		}
	}
	return nil
}

// SetStatus publishes or unpublishes a post. published_at is stamped the
// first time a post is published and kept afterwards.
func (s *PostStore) SetStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	err := execOne(ctx, s.db, `
		UPDATE posts SET
			status = $2,
			published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
			updated_at = NOW()
		WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set post status: %w", err)
	}
	return nil
}

// SetImage replaces the URL stored in one post image column.
func (s *PostStore) SetImage(ctx context.Context, id uuid.UUID, column PostImageColumn, url *string) error {
	if column != ColumnFeaturedImage && column != ColumnSocialImage {
		return fmt.Errorf("set post image: unknown column %q", column)
	}
	err := execOne(ctx, s.db,
		`UPDATE posts SET `+string(column)+` = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("set post image: %w", err)
	}
	return nil
}

// Delete removes a post and its translations.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteRow(ctx, s.db, "posts", id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
