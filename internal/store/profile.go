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

// ProfileStore manages companies and specialists. Both kinds share the
// profiles table and differ only in which columns the admin edits.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// ImageColumn names a profile image column that can be replaced.
type ImageColumn string

const (
	ColumnAvatar ImageColumn = "avatar_url"
	ColumnLogo   ImageColumn = "logo_url"
)

const profileSelect = `
	SELECT p.id, p.kind, p.status, p.is_blocked, p.company_id, p.email, p.phone,
	       p.website, p.avatar_url, p.logo_url, p.created_at, p.updated_at,
	       t.language_code, t.name, t.slug, t.position, t.bio, t.address,
	       t.seo_title, t.seo_description
	FROM profiles p
	LEFT JOIN profile_translations t ON t.profile_id = p.id`

func collectProfiles(rows *sql.Rows) ([]models.Profile, error) {
	var (
		items []models.Profile
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			p                        models.Profile
			lang, name, slug         sql.NullString
			position, bio, address   sql.NullString
			seoTitle, seoDescription sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Kind, &p.Status, &p.Blocked, &p.CompanyID, &p.Email, &p.Phone,
			&p.Website, &p.AvatarURL, &p.LogoURL, &p.CreatedAt, &p.UpdatedAt,
			&lang, &name, &slug, &position, &bio, &address, &seoTitle, &seoDescription,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}

		i, ok := index[p.ID]
		if !ok {
			p.Translations = models.Translations[models.ProfileTranslation]{}
			p.PracticeIDs = []uuid.UUID{}
			items = append(items, p)
			i = len(items) - 1
			index[p.ID] = i
		}
		if lang.Valid {
			l := models.Language(lang.String)
			items[i].Translations[l] = models.ProfileTranslation{
				Language:       l,
				Name:           name.String,
				Slug:           slug.String,
				Position:       position.String,
				Bio:            bio.String,
				Address:        address.String,
				SEOTitle:       seoTitle.String,
				SEODescription: seoDescription.String,
			}
		}
	}
	return items, rows.Err()
}

// attachPractices fills PracticeIDs for the given profiles.
func (s *ProfileStore) attachPractices(ctx context.Context, items []models.Profile, where string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pp.profile_id, pp.practice_id
		FROM profile_practices pp
		JOIN profiles p ON p.id = pp.profile_id
		`+where+`
		ORDER BY pp.practice_id`, args...)
	if err != nil {
		return fmt.Errorf("list profile practices: %w", err)
	}
	defer rows.Close()

	index := make(map[uuid.UUID]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}
	for rows.Next() {
		var profileID, practiceID uuid.UUID
		if err := rows.Scan(&profileID, &practiceID); err != nil {
			return fmt.Errorf("scan profile practice: %w", err)
		}
		if i, ok := index[profileID]; ok {
			items[i].PracticeIDs = append(items[i].PracticeIDs, practiceID)
		}
	}
	return rows.Err()
}

// List returns every profile of the given kind, newest first.
func (s *ProfileStore) List(ctx context.Context, kind models.ProfileKind) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, profileSelect+`
		WHERE p.kind = $1
		ORDER BY p.created_at DESC, p.id`, kind)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachPractices(ctx, items, "WHERE p.kind = $1", kind); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns one profile with translations and practices, or ErrNotFound.
func (s *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, profileSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	defer rows.Close()

	items, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	if err := s.attachPractices(ctx, items, "WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Create inserts a profile with its translations and practice links in a
// single transaction.
func (s *ProfileStore) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	out := *p
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO profiles (kind, status, is_blocked, company_id, email, phone, website, avatar_url, logo_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			p.Kind, p.Status, p.Blocked, p.CompanyID, p.Email, p.Phone, p.Website, p.AvatarURL, p.LogoURL,
		).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			return classify("create profile", err)
		}
		if err := upsertProfileTranslations(ctx, tx, out.ID, p.Translations); err != nil {
			return err
		}
		return replacePractices(ctx, tx, out.ID, p.PracticeIDs)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update saves contact details, translations and practice links. Status,
// block state, company link and images have their own methods.
func (s *ProfileStore) Update(ctx context.Context, p *models.Profile, expected *time.Time) (*models.Profile, error) {
	out := *p
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		updatedAt, err := touch(ctx, tx, "profiles", p.ID, expected)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		out.UpdatedAt = updatedAt

		if _, err := tx.ExecContext(ctx, `
			UPDATE profiles SET email = $2, phone = $3, website = $4 WHERE id = $1`,
			p.ID, p.Email, p.Phone, p.Website,
		); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if err := upsertProfileTranslations(ctx, tx, p.ID, p.Translations); err != nil {
			return err
		}
		return replacePractices(ctx, tx, p.ID, p.PracticeIDs)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func upsertProfileTranslations(ctx context.Context, tx *sql.Tx, id uuid.UUID, tr models.Translations[models.ProfileTranslation]) error {
	for _, lang := range models.Languages {
		t, ok := tr[lang]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_translations
				(profile_id, language_code, name, slug, position, bio, address, seo_title, seo_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (profile_id, language_code) DO UPDATE SET
				name = EXCLUDED.name, slug = EXCLUDED.slug, position = EXCLUDED.position,
				bio = EXCLUDED.bio, address = EXCLUDED.address,
				seo_title = EXCLUDED.seo_title, seo_description = EXCLUDED.seo_description`,
			id, lang, t.Name, t.Slug, t.Position, t.Bio, t.Address, t.SEOTitle, t.SEODescription,
		)
		if err != nil {
			return classify(fmt.Sprintf("save profile translation %s", lang), err)
		}
	}
	return nil
}

func replacePractices(ctx context.Context, tx *sql.Tx, id uuid.UUID, practiceIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_practices WHERE profile_id = $1`, id); err != nil {
		return fmt.Errorf("clear profile practices: %w", err)
	}
	for _, pid := range practiceIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO profile_practices (profile_id, practice_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, id, pid,
		); err != nil {
			return classify("link profile practice", err)
		}
	}
	return nil
}

// SetStatus changes the active/inactive flag of one profile.
func (s *ProfileStore) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	err := execOne(ctx, s.db,
		`UPDATE profiles SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set profile status: %w", err)
	}
	return nil
}

// SetBlocked changes the block flag of one profile.
func (s *ProfileStore) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	err := execOne(ctx, s.db,
		`UPDATE profiles SET is_blocked = $2, updated_at = NOW() WHERE id = $1`, id, blocked)
	if err != nil {
		return fmt.Errorf("set profile blocked: %w", err)
	}
	return nil
}

// SetSpecialistsBlocked mirrors a company's block flag onto every
// specialist linked to it and returns how many rows changed.
func (s *ProfileStore) SetSpecialistsBlocked(ctx context.Context, companyID uuid.UUID, blocked bool) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET is_blocked = $2, updated_at = NOW()
		WHERE kind = 'specialist' AND company_id = $1`, companyID, blocked)
	if err != nil {
		return 0, fmt.Errorf("set specialists blocked: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set specialists blocked: %w", err)
	}
	return n, nil
}

// SetCompany links a specialist to a company, or unlinks it when companyID
// is nil.
func (s *ProfileStore) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	err := execOne(ctx, s.db,
		`UPDATE profiles SET company_id = $2, updated_at = NOW() WHERE id = $1 AND kind = 'specialist'`,
		id, companyID)
	if err != nil {
		return classify("set specialist company", err)
	}
	return nil
}

// SetImage replaces the URL stored in one image column.
func (s *ProfileStore) SetImage(ctx context.Context, id uuid.UUID, column ImageColumn, url *string) error {
	if column != ColumnAvatar && column != ColumnLogo {
		return fmt.Errorf("set profile image: unknown column %q", column)
	}
	err := execOne(ctx, s.db,
		`UPDATE profiles SET `+string(column)+` = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("set profile image: %w", err)
	}
	return nil
}

// Delete removes a profile. Translations, practice links and services
// cascade; specialists of a deleted company are unlinked.
func (s *ProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteRow(ctx, s.db, "profiles", id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
