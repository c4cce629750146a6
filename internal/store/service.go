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

// ServiceStore manages the services offered by profiles.
type ServiceStore struct {
	db *sql.DB
}

// NewServiceStore creates a new ServiceStore.
func NewServiceStore(db *sql.DB) *ServiceStore {
	return &ServiceStore{db: db}
}

const serviceSelect = `
	SELECT s.id, s.profile_id, s.practice_id, s.status, s.price, s.image_url,
	       s.created_at, s.updated_at,
	       t.language_code, t.name, t.slug, t.description, t.seo_title, t.seo_description
	FROM services s
	LEFT JOIN service_translations t ON t.service_id = s.id`

func collectServices(rows *sql.Rows) ([]models.Service, error) {
	var (
		items []models.Service
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			sv                       models.Service
			lang, name, slug, desc   sql.NullString
			seoTitle, seoDescription sql.NullString
		)
		if err := rows.Scan(
			&sv.ID, &sv.ProfileID, &sv.PracticeID, &sv.Status, &sv.Price, &sv.ImageURL,
			&sv.CreatedAt, &sv.UpdatedAt,
			&lang, &name, &slug, &desc, &seoTitle, &seoDescription,
		); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}

		i, ok := index[sv.ID]
		if !ok {
			sv.Translations = models.Translations[models.ServiceTranslation]{}
			items = append(items, sv)
			i = len(items) - 1
			index[sv.ID] = i
		}
		if lang.Valid {
			l := models.Language(lang.String)
			items[i].Translations[l] = models.ServiceTranslation{
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

// List returns every service, newest first.
func (s *ServiceStore) List(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, serviceSelect+` ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	return collectServices(rows)
}

// FindByID returns one service with its translations, or ErrNotFound.
func (s *ServiceStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	rows, err := s.db.QueryContext(ctx, serviceSelect+` WHERE s.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	defer rows.Close()

	items, err := collectServices(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// Create inserts a service and its translations in one transaction.
func (s *ServiceStore) Create(ctx context.Context, sv *models.Service) (*models.Service, error) {
	out := *sv
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO services (profile_id, practice_id, status, price, image_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			sv.ProfileID, sv.PracticeID, sv.Status, sv.Price, sv.ImageURL,
		).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return classify("create service", err)
		}
		return upsertServiceTranslations(ctx, tx, out.ID, sv.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update saves the practice, price and translations of a service.
func (s *ServiceStore) Update(ctx context.Context, sv *models.Service, expected *time.Time) (*models.Service, error) {
	out := *sv
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		updatedAt, err := touch(ctx, tx, "services", sv.ID, expected)
		if err != nil {
			return fmt.Errorf("update service: %w", err)
		}
		out.UpdatedAt = updatedAt

		if _, err := tx.ExecContext(ctx, `
			UPDATE services SET practice_id = $2, price = $3 WHERE id = $1`,
			sv.ID, sv.PracticeID, sv.Price,
		); err != nil {
			return classify("update service", err)
		}
		return upsertServiceTranslations(ctx, tx, sv.ID, sv.Translations)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func upsertServiceTranslations(ctx context.Context, tx *sql.Tx, id uuid.UUID, tr models.Translations[models.ServiceTranslation]) error {
	for _, lang := range models.Languages {
		t, ok := tr[lang]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO service_translations
				(service_id, language_code, name, slug, description, seo_title, seo_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (service_id, language_code) DO UPDATE SET
				name = EXCLUDED.name, slug = EXCLUDED.slug,
				description = EXCLUDED.description,
				seo_title = EXCLUDED.seo_title,
				seo_description = EXCLUDED.seo_description`,
			id, lang, t.Name, t.Slug, t.Description, t.SEOTitle, t.SEODescription,
		)
		if err != nil {
			return classify(fmt.Sprintf("save service translation %s", lang), err)
		}
	}
	return nil
}

// SetStatus changes the active/inactive flag of one service.
func (s *ServiceStore) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	err := execOne(ctx, s.db,
		`UPDATE services SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set service status: %w", err)
	}
	return nil
}

// SetImage replaces the service image URL.
func (s *ServiceStore) SetImage(ctx context.Context, id uuid.UUID, url *string) error {
	err := execOne(ctx, s.db,
		`UPDATE services SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("set service image: %w", err)
	}
	return nil
}

// Delete removes a service and its translations.
func (s *ServiceStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteRow(ctx, s.db, "services", id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
