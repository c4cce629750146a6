// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/directory"
	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/render"
)

// ProfileService manages companies or specialists. *directory.Profiles
// implements it.
type ProfileService interface {
	Kind() models.ProfileKind
	List(ctx context.Context, q string) ([]models.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, in directory.ProfileInput) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, in directory.ProfileInput) (*models.Profile, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (models.Status, error)
	ToggleBlock(ctx context.Context, id uuid.UUID) (bool, error)
	SetCompany(ctx context.Context, id uuid.UUID, companyID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, f media.File) (string, error)
}

// Profiles serves the company or specialist list and detail routes.
type Profiles struct {
	svc ProfileService
}

// NewProfiles creates the handler group for one kind of profile.
func NewProfiles(svc ProfileService) *Profiles {
	return &Profiles{svc: svc}
}

type profileRequest struct {
	Email             string                                         `json:"email"`
	Phone             string                                         `json:"phone"`
	Website           string                                         `json:"website"`
	CompanyID         *uuid.UUID                                     `json:"company_id"`
	PracticeIDs       []uuid.UUID                                    `json:"practice_ids"`
	Translations      models.Translations[models.ProfileTranslation] `json:"translations"`
	ExpectedUpdatedAt *time.Time                                     `json:"expected_updated_at"`
}

func (req *profileRequest) input() directory.ProfileInput {
	return directory.ProfileInput{
		Email:             req.Email,
		Phone:             req.Phone,
		Website:           req.Website,
		CompanyID:         req.CompanyID,
		PracticeIDs:       req.PracticeIDs,
		Translations:      req.Translations,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	}
}

// List returns profiles matching ?q=.
func (h *Profiles) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, items)
}

// Get returns one profile with all of its translations.
func (h *Profiles) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// Create adds a profile. New profiles start inactive.
func (h *Profiles) Create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, p)
}

// Update replaces contact details, practices and translations.
func (h *Profiles) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), id, req.input())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// ToggleStatus flips active/inactive.
func (h *Profiles) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	status, err := h.svc.ToggleStatus(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]models.Status{"status": status})
}

// ToggleBlock flips the block flag. Requires ?confirm=true. Blocking a
// company also blocks its specialists.
func (h *Profiles) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := confirmed(r); err != nil {
		render.Error(w, r, err)
		return
	}
	blocked, err := h.svc.ToggleBlock(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]bool{"blocked": blocked})
}

type companyRequest struct {
	// CompanyID nil unlinks the specialist.
	CompanyID *uuid.UUID `json:"company_id"`
}

// SetCompany links a specialist to a company.
func (h *Profiles) SetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req companyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetCompany(r.Context(), id, req.CompanyID); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// Delete removes a profile. Requires ?confirm=true.
func (h *Profiles) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := confirmed(r); err != nil {
		render.Error(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// Image replaces the company logo or specialist avatar from the "file"
// field of a multipart upload.
func (h *Profiles) Image(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	f, err := readUpload(w, r, "file")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	url, err := h.svc.SetImage(r.Context(), id, f)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"url": url})
}
