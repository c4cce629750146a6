// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/store"
)

// memoryProfiles is an in-memory ProfileRepository that records calls.
type memoryProfiles struct {
	rows  map[uuid.UUID]*models.Profile
	order []uuid.UUID
	calls []string

	setBlockedErr  error
	specialistsErr error
	setImageErr    error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{rows: map[uuid.UUID]*models.Profile{}}
}

func (r *memoryProfiles) add(p models.Profile) *models.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.StatusInactive
	}
	r.rows[p.ID] = &p
	r.order = append(r.order, p.ID)
	return &p
}

func (r *memoryProfiles) List(ctx context.Context, kind models.ProfileKind) ([]models.Profile, error) {
	r.calls = append(r.calls, "List")
	var out []models.Profile
	for _, id := range r.order {
		if p, ok := r.rows[id]; ok && p.Kind == kind {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memoryProfiles) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	r.calls = append(r.calls, "FindByID")
	p, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryProfiles) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	r.calls = append(r.calls, "Create")
	out := *p
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	return r.add(out), nil
}

func (r *memoryProfiles) Update(ctx context.Context, p *models.Profile, expected *time.Time) (*models.Profile, error) {
	r.calls = append(r.calls, "Update")
	cur, ok := r.rows[p.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if expected != nil && !expected.Equal(cur.UpdatedAt) {
		return nil, store.ErrConflict
	}
	cur.Email, cur.Phone, cur.Website = p.Email, p.Phone, p.Website
	cur.PracticeIDs = p.PracticeIDs
	cur.Translations = p.Translations
	cur.UpdatedAt = time.Now()
	out := *cur
	return &out, nil
}

func (r *memoryProfiles) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	r.calls = append(r.calls, "SetStatus")
	p, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *memoryProfiles) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	r.calls = append(r.calls, "SetBlocked")
	if r.setBlockedErr != nil {
		return r.setBlockedErr
	}
	p, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Blocked = blocked
	return nil
}

func (r *memoryProfiles) SetSpecialistsBlocked(ctx context.Context, companyID uuid.UUID, blocked bool) (int64, error) {
	r.calls = append(r.calls, "SetSpecialistsBlocked")
	if r.specialistsErr != nil {
		return 0, r.specialistsErr
	}
	var n int64
	for _, p := range r.rows {
		if p.Kind == models.ProfileSpecialist && p.CompanyID != nil && *p.CompanyID == companyID {
			p.Blocked = blocked
			n++
		}
	}
	return n, nil
}

func (r *memoryProfiles) SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error {
	r.calls = append(r.calls, "SetCompany")
	p, ok := r.rows[id]
	if !ok || p.Kind != models.ProfileSpecialist {
		return store.ErrNotFound
	}
	p.CompanyID = companyID
	return nil
}

func (r *memoryProfiles) SetImage(ctx context.Context, id uuid.UUID, column store.ImageColumn, url *string) error {
	r.calls = append(r.calls, "SetImage")
	if r.setImageErr != nil {
		return r.setImageErr
	}
	p, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	if column == store.ColumnLogo {
		p.LogoURL = url
	} else {
		p.AvatarURL = url
	}
	return nil
}

func (r *memoryProfiles) Delete(ctx context.Context, id uuid.UUID) error {
	r.calls = append(r.calls, "Delete")
	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// writes returns the recorded calls that change data.
func (r *memoryProfiles) writes() []string {
	var out []string
	for _, c := range r.calls {
		switch c {
		case "List", "FindByID":
		default:
			out = append(out, c)
		}
	}
	return out
}

// memoryServices is an in-memory ServiceRepository.
type memoryServices struct {
	rows      map[uuid.UUID]*models.Service
	calls     []string
	createErr error
}

func newMemoryServices() *memoryServices {
	return &memoryServices{rows: map[uuid.UUID]*models.Service{}}
}

func (r *memoryServices) List(ctx context.Context) ([]models.Service, error) {
	r.calls = append(r.calls, "List")
	var out []models.Service
	for _, sv := range r.rows {
		out = append(out, *sv)
	}
	return out, nil
}

func (r *memoryServices) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	sv, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *sv
	return &out, nil
}

func (r *memoryServices) Create(ctx context.Context, sv *models.Service) (*models.Service, error) {
	r.calls = append(r.calls, "Create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	out := *sv
	out.ID = uuid.New()
	out.UpdatedAt = time.Now()
	r.rows[out.ID] = &out
	ret := out
	return &ret, nil
}

func (r *memoryServices) Update(ctx context.Context, sv *models.Service, expected *time.Time) (*models.Service, error) {
	r.calls = append(r.calls, "Update")
	cur, ok := r.rows[sv.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cur.PracticeID, cur.Price, cur.Translations = sv.PracticeID, sv.Price, sv.Translations
	out := *cur
	return &out, nil
}

func (r *memoryServices) SetStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	r.calls = append(r.calls, "SetStatus")
	sv, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	sv.Status = status
	return nil
}

func (r *memoryServices) SetImage(ctx context.Context, id uuid.UUID, url *string) error {
	r.calls = append(r.calls, "SetImage")
	sv, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	sv.ImageURL = url
	return nil
}

func (r *memoryServices) Delete(ctx context.Context, id uuid.UUID) error {
	r.calls = append(r.calls, "Delete")
	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memoryLog struct {
	actions []string
}

func (l *memoryLog) Log(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	l.actions = append(l.actions, entityType+":"+action)
}

func profileNames(base string) models.Translations[models.ProfileTranslation] {
	return models.Translations[models.ProfileTranslation]{
		models.LangKA: {Name: base + " ka"},
		models.LangEN: {Name: base + " en"},
		models.LangRU: {Name: base + " ru"},
	}
}

func serviceNames(base string) models.Translations[models.ServiceTranslation] {
	return models.Translations[models.ServiceTranslation]{
		models.LangKA: {Name: base + " ka"},
		models.LangEN: {Name: base + " en"},
		models.LangRU: {Name: base + " ru"},
	}
}
