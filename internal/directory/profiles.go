// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/search"
	"legaldir/internal/store"
	"legaldir/internal/validate"
)

// ProfileInput is the editable part of a company or specialist.
type ProfileInput struct {
	Email       string
	Phone       string
	Website     string
	CompanyID   *uuid.UUID // specialists only, used on create
	PracticeIDs []uuid.UUID
	// Translations must have a name for every language.
	Translations      models.Translations[models.ProfileTranslation]
	ExpectedUpdatedAt *time.Time
}

// Profiles manages one kind of profile.
type Profiles struct {
	kind    models.ProfileKind
	repo    ProfileRepository
	images  Images
	changes ChangeLog
}

// NewCompanies returns the company manager.
func NewCompanies(repo ProfileRepository, images Images, changes ChangeLog) *Profiles {
	return &Profiles{kind: models.ProfileCompany, repo: repo, images: images, changes: changes}
}

// NewSpecialists returns the specialist manager.
func NewSpecialists(repo ProfileRepository, images Images, changes ChangeLog) *Profiles {
	return &Profiles{kind: models.ProfileSpecialist, repo: repo, images: images, changes: changes}
}

// Kind returns the kind of profile managed.
func (s *Profiles) Kind() models.ProfileKind { return s.kind }

func (s *Profiles) entity() string { return string(s.kind) }

// List returns every profile of this kind whose name, position or contact
// details contain q.
func (s *Profiles) List(ctx context.Context, q string) ([]models.Profile, error) {
	items, err := s.repo.List(ctx, s.kind)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, search.NewQuery(q), func(p *models.Profile) []string {
		fields := []string{p.Email, p.Phone, p.Website}
		for _, t := range p.Translations {
			fields = append(fields, t.Name, t.Position)
		}
		return fields
	}), nil
}

// Get returns one profile. A profile of the other kind is not found.
func (s *Profiles) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Kind != s.kind {
		return nil, fmt.Errorf("%s %s: %w", s.kind, id, store.ErrNotFound)
	}
	return p, nil
}

func (s *Profiles) prepare(in *ProfileInput) (models.Translations[models.ProfileTranslation], error) {
	var v validate.Errors
	contact(&v, &in.Email, &in.Phone, &in.Website)
	tr := prepareProfileTranslations(&v, in.Translations)
	if s.kind == models.ProfileCompany && in.CompanyID != nil {
		v.Add("company_id", "only specialists belong to a company")
	}
	return tr, v.Err()
}

// Create validates in and inserts a new inactive profile. Nothing is
// written if validation fails.
func (s *Profiles) Create(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	tr, err := s.prepare(&in)
	if err != nil {
		return nil, err
	}
	if in.CompanyID != nil {
		if err := s.checkCompany(ctx, *in.CompanyID); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.Create(ctx, &models.Profile{
		Kind:         s.kind,
		Status:       models.StatusInactive,
		CompanyID:    in.CompanyID,
		Email:        in.Email,
		Phone:        in.Phone,
		Website:      in.Website,
		PracticeIDs:  in.PracticeIDs,
		Translations: tr,
	})
	if err != nil {
		return nil, err
	}
	logChange(ctx, s.changes, s.entity(), p.ID, "create")
	return p, nil
}

// Update replaces contact details, practices and translations.
func (s *Profiles) Update(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.Profile, error) {
	in.CompanyID = nil
	tr, err := s.prepare(&in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, &models.Profile{
		ID:           id,
		Kind:         s.kind,
		Email:        in.Email,
		Phone:        in.Phone,
		Website:      in.Website,
		PracticeIDs:  in.PracticeIDs,
		Translations: tr,
	}, in.ExpectedUpdatedAt)
	if err != nil {
		return nil, err
	}
	logChange(ctx, s.changes, s.entity(), id, "update")
	return p, nil
}

// ToggleStatus flips active/inactive and returns the new status.
func (s *Profiles) ToggleStatus(ctx context.Context, id uuid.UUID) (models.Status, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	next := p.Status.Toggle()
	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return "", err
	}
	logChange(ctx, s.changes, s.entity(), id, "status")
	return next, nil
}

// ToggleBlock flips the block flag and returns the new state. For a
// company the flag is then copied onto every specialist of that company.
// That second step only runs after the company update succeeded; if it
// fails the company change stays and a *PartialError is returned.
func (s *Profiles) ToggleBlock(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	blocked := !p.Blocked
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return false, err
	}
	logChange(ctx, s.changes, s.entity(), id, "block")

	if s.kind != models.ProfileCompany {
		return blocked, nil
	}
	n, err := s.repo.SetSpecialistsBlocked(ctx, id, blocked)
	if err != nil {
		return blocked, &PartialError{
			Op:        "toggle company block",
			Committed: []string{"company"},
			Failed:    "specialists",
			Err:       err,
		}
	}
	if n > 0 {
		logChange(ctx, s.changes, string(models.ProfileSpecialist), id, "block")
	}
	return blocked, nil
}

// SetCompany links a specialist to a company, or unlinks it when
// companyID is nil.
func (s *Profiles) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	if s.kind != models.ProfileSpecialist {
		return &validate.Error{Fields: map[string]string{"company_id": "only specialists belong to a company"}}
	}
	if companyID != nil {
		if err := s.checkCompany(ctx, *companyID); err != nil {
			return err
		}
	}
	if err := s.repo.SetCompany(ctx, id, companyID); err != nil {
		return err
	}
	logChange(ctx, s.changes, s.entity(), id, "company")
	return nil
}

func (s *Profiles) checkCompany(ctx context.Context, companyID uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, companyID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !c.IsCompany()) {
		return &validate.Error{Fields: map[string]string{"company_id": "company does not exist"}}
	}
	return err
}

// Delete removes a profile and then, best effort, its images.
func (s *Profiles) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil {
		s.images.RemoveByURL(ctx, p.AvatarURL)
		s.images.RemoveByURL(ctx, p.LogoURL)
	}
	logChange(ctx, s.changes, s.entity(), id, "delete")
	return nil
}

// imageField returns the column and upload purpose of the profile image.
func (s *Profiles) imageField() (store.ImageColumn, models.MediaPurpose) {
	if s.kind == models.ProfileCompany {
		return store.ColumnLogo, models.PurposeLogo
	}
	return store.ColumnAvatar, models.PurposeAvatar
}

// SetImage replaces the logo of a company or the avatar of a specialist
// and returns the new URL.
func (s *Profiles) SetImage(ctx context.Context, id uuid.UUID, f media.File) (string, error) {
	if s.images == nil {
		return "", media.ErrNoStorage
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	column, purpose := s.imageField()
	old := p.AvatarURL
	if column == store.ColumnLogo {
		old = p.LogoURL
	}

	url, err := s.images.ReplaceImage(ctx, purpose, f, old, func(ctx context.Context, url string) error {
		return s.repo.SetImage(ctx, id, column, &url)
	})
	if err != nil {
		return "", err
	}
	logChange(ctx, s.changes, s.entity(), id, "image")
	return url, nil
}
