// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"legaldir/internal/media"
	"legaldir/internal/render"
)

const (
	defaultMediaPage = 50
	maxMediaPage     = 200
)

// MediaLibrary stores uploaded files. *media.Service implements it.
type MediaLibrary interface {
	Upload(ctx context.Context, f media.File, altText string, uploaderID uuid.UUID) (*media.Item, error)
	List(ctx context.Context, limit, offset int) ([]media.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Media serves the media library.
type Media struct {
	lib MediaLibrary
}

// NewMedia creates the media handler group.
func NewMedia(lib MediaLibrary) *Media {
	return &Media{lib: lib}
}

// List returns one page of the library, newest first. Paging uses
// ?limit= and ?offset=.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultMediaPage)
	if limit <= 0 || limit > maxMediaPage {
		limit = defaultMediaPage
	}
	offset := max(queryInt(r, "offset", 0), 0)

	items, err := h.lib.List(r.Context(), limit, offset)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, items)
}

// Upload stores the "file" field of a multipart form, with an optional
// "alt_text" field.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	f, err := readUpload(w, r, "file")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	item, err := h.lib.Upload(r.Context(), f, r.FormValue("alt_text"), currentSession(r).UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, item)
}

// Delete removes a file from the library.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := h.lib.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}
