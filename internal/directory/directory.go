// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package directory manages companies, specialists and the services they
// offer: validation, search, row actions and their image fields.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/store"
)

// ProfileRepository persists companies and specialists. *store.ProfileStore
// implements it.
type ProfileRepository interface {
	List(ctx context.Context, kind models.ProfileKind) ([]models.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile, expected *time.Time) (*models.Profile, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
	SetSpecialistsBlocked(ctx context.Context, companyID uuid.UUID, blocked bool) (int64, error)
	SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, column store.ImageColumn, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceRepository persists services. *store.ServiceStore implements it.
type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, sv *models.Service) (*models.Service, error)
	Update(ctx context.Context, sv *models.Service, expected *time.Time) (*models.Service, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetImage(ctx context.Context, id uuid.UUID, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Images stores entity images. *media.Service implements it.
type Images interface {
	ReplaceImage(ctx context.Context, purpose models.MediaPurpose, f media.File, oldURL *string, commit func(ctx context.Context, url string) error) (string, error)
	RemoveByURL(ctx context.Context, url *string)
}

// ChangeLog records changes public pages must pick up.
// *store.CacheLogStore implements it.
type ChangeLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// PartialError reports a multi-step operation that stopped after some
// steps were already committed. Committed steps are not rolled back.
type PartialError struct {
	Op        string
	Committed []string
	Failed    string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s: %s failed after %v committed: %v", e.Op, e.Failed, e.Committed, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

func logChange(ctx context.Context, changes ChangeLog, entity string, id uuid.UUID, action string) {
	if changes != nil {
		changes.Log(ctx, entity, id, action)
	}
}
