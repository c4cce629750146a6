// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/search"
	"legaldir/internal/store"
	"legaldir/internal/validate"
)

const entityService = "service"

// ServiceInput is the editable part of a service.
type ServiceInput struct {
	ProfileID         uuid.UUID
	PracticeID        *uuid.UUID
	Price             *int64
	Translations      models.Translations[models.ServiceTranslation]
	ExpectedUpdatedAt *time.Time
}

// Services manages the services offered by profiles.
type Services struct {
	repo     ServiceRepository
	profiles ProfileRepository
	images   Images
	changes  ChangeLog
}

// NewServices creates a service manager. profiles is used to check the
// owning profile.
func NewServices(repo ServiceRepository, profiles ProfileRepository, images Images, changes ChangeLog) *Services {
	return &Services{repo: repo, profiles: profiles, images: images, changes: changes}
}

// List returns every service whose name or description contains q.
func (s *Services) List(ctx context.Context, q string) ([]models.Service, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, search.NewQuery(q), func(sv *models.Service) []string {
		var fields []string
		for _, t := range sv.Translations {
			fields = append(fields, t.Name, t.Slug)
		}
		return fields
	}), nil
}

// Get returns one service.
func (s *Services) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Services) prepare(in *ServiceInput, create bool) (models.Translations[models.ServiceTranslation], error) {
	var v validate.Errors
	if create && in.ProfileID == uuid.Nil {
		v.Add("profile_id", "is required")
	}
	if in.Price != nil && *in.Price < 0 {
		v.Add("price", "must not be negative")
	}
	tr := prepareServiceTranslations(&v, in.Translations)
	return tr, v.Err()
}

// Create validates in and inserts a new inactive service. When image is
// given it is uploaded first; if the insert then fails the upload is
// removed again.
func (s *Services) Create(ctx context.Context, in ServiceInput, image *media.File) (*models.Service, error) {
	tr, err := s.prepare(&in, true)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.FindByID(ctx, in.ProfileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &validate.Error{Fields: map[string]string{"profile_id": "profile does not exist"}}
		}
		return nil, err
	}

	sv := &models.Service{
		ProfileID:    in.ProfileID,
		PracticeID:   in.PracticeID,
		Status:       models.StatusInactive,
		Price:        in.Price,
		Translations: tr,
	}

	var created *models.Service
	insert := func(ctx context.Context, url string) error {
		if url != "" {
			sv.ImageURL = &url
		}
		var err error
		created, err = s.repo.Create(ctx, sv)
		return err
	}

	if image == nil {
		err = insert(ctx, "")
	} else {
		if s.images == nil {
			return nil, media.ErrNoStorage
		}
		_, err = s.images.ReplaceImage(ctx, models.PurposeServiceImage, *image, nil, insert)
	}
	if err != nil {
		return nil, err
	}
	logChange(ctx, s.changes, entityService, created.ID, "create")
	return created, nil
}

// Update replaces the practice, price and translations of a service.
func (s *Services) Update(ctx context.Context, id uuid.UUID, in ServiceInput) (*models.Service, error) {
	tr, err := s.prepare(&in, false)
	if err != nil {
		return nil, err
	}
	sv, err := s.repo.Update(ctx, &models.Service{
		ID:           id,
		PracticeID:   in.PracticeID,
		Price:        in.Price,
		Translations: tr,
	}, in.ExpectedUpdatedAt)
	if err != nil {
		return nil, err
	}
	logChange(ctx, s.changes, entityService, id, "update")
	return sv, nil
}

// ToggleStatus flips active/inactive and returns the new status.
func (s *Services) ToggleStatus(ctx context.Context, id uuid.UUID) (models.Status, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	next := sv.Status.Toggle()
	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return "", err
	}
	logChange(ctx, s.changes, entityService, id, "status")
	return next, nil
}

// SetImage replaces the image of a service and returns the new URL.
func (s *Services) SetImage(ctx context.Context, id uuid.UUID, f media.File) (string, error) {
	if s.images == nil {
		return "", media.ErrNoStorage
	}
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.images.ReplaceImage(ctx, models.PurposeServiceImage, f, sv.ImageURL, func(ctx context.Context, url string) error {
		return s.repo.SetImage(ctx, id, &url)
	})
	if err != nil {
		return "", err
	}
	logChange(ctx, s.changes, entityService, id, "image")
	return url, nil
}

// Delete removes a service and then, best effort, its image.
func (s *Services) Delete(ctx context.Context, id uuid.UUID) error {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil {
		s.images.RemoveByURL(ctx, sv.ImageURL)
	}
	logChange(ctx, s.changes, entityService, id, "delete")
	return nil
}
