// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/directory"
	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/validate"
)

// ServiceCatalog manages services. *directory.Services implements it.
type ServiceCatalog interface {
	List(ctx context.Context, q string) ([]models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, in directory.ServiceInput, image *media.File) (*models.Service, error)
	Update(ctx context.Context, id uuid.UUID, in directory.ServiceInput) (*models.Service, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (models.Status, error)
	SetImage(ctx context.Context, id uuid.UUID, f media.File) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Services serves the service list and detail routes.
type Services struct {
	svc ServiceCatalog
}

// NewServices creates the service handler group.
func NewServices(svc ServiceCatalog) *Services {
	return &Services{svc: svc}
}

type serviceRequest struct {
	ProfileID         uuid.UUID                                      `json:"profile_id"`
	PracticeID        *uuid.UUID                                     `json:"practice_id"`
	Price             *int64                                         `json:"price"`
	Translations      models.Translations[models.ServiceTranslation] `json:"translations"`
	ExpectedUpdatedAt *time.Time                                     `json:"expected_updated_at"`
}

func (req *serviceRequest) input() directory.ServiceInput {
	return directory.ServiceInput{
		ProfileID:         req.ProfileID,
		PracticeID:        req.PracticeID,
		Price:             req.Price,
		Translations:      req.Translations,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	}
}

// List returns services matching ?q=.
func (h *Services) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, items)
}

// Get returns one service.
func (h *Services) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	sv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, sv)
}

// Create adds a service. It accepts a plain JSON body, or a multipart
// form with the JSON in the "data" field and an optional "image" file.
func (h *Services) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	var image *media.File

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, ok, err := optionalUpload(w, r, "image")
		if err != nil {
			render.Error(w, r, err)
			return
		}
		if ok {
			image = &f
		}
		data := r.FormValue("data")
		if data == "" {
			render.Error(w, r, &validate.Error{Fields: map[string]string{"data": "is required"}})
			return
		}
		if !decodeString(w, data, &req) {
			return
		}
	} else if !decode(w, r, &req) {
		return
	}

	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	sv, err := h.svc.Create(r.Context(), req.input(), image)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, sv)
}

// Update replaces the practice, price and translations of a service.
func (h *Services) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req serviceRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	sv, err := h.svc.Update(r.Context(), id, req.input())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, sv)
}

// ToggleStatus flips active/inactive.
func (h *Services) ToggleStatus(w http.ResponseWriter, r *http.Request) {
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

// Image replaces the service image from the "file" field.
func (h *Services) Image(w http.ResponseWriter, r *http.Request) {
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

// Delete removes a service. Requires ?confirm=true.
func (h *Services) Delete(w http.ResponseWriter, r *http.Request) {
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
