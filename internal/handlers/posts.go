// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"legaldir/internal/blog"
	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/store"
)

// PostService manages posts and their translation drafts. *blog.Posts
// implements it.
type PostService interface {
	List(ctx context.Context, q string) ([]models.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, in blog.PostInput) (*models.Post, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (models.PostStatus, error)
	SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, column store.PostImageColumn, f media.File) (string, error)

	OpenDraft(ctx context.Context, id, userID uuid.UUID) (*blog.DraftView, error)
	EditDraft(ctx context.Context, id, userID uuid.UUID, patch blog.DraftPatch) (*blog.DraftView, error)
	CommitDraft(ctx context.Context, id, userID uuid.UUID) (*models.Post, error)
	DiscardDraft(ctx context.Context, id, userID uuid.UUID) error
}

// Posts serves blog posts and the translation editor.
type Posts struct {
	svc PostService
}

// NewPosts creates the post handler group.
func NewPosts(svc PostService) *Posts {
	return &Posts{svc: svc}
}

type postRequest struct {
	BodyFormat   models.BodyFormat                           `json:"body_format"`
	Translations models.Translations[models.PostTranslation] `json:"translations"`
}

// List returns posts whose title or slug matches ?q=.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, items)
}

// Get returns one post with all of its translations.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
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

// Create adds a post authored by the current operator.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	author := currentSession(r).UserID
	p, err := h.svc.Create(r.Context(), blog.PostInput{
		AuthorID:     &author,
		BodyFormat:   req.BodyFormat,
		Translations: req.Translations,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, p)
}

// ToggleStatus publishes or unpublishes a post.
func (h *Posts) ToggleStatus(w http.ResponseWriter, r *http.Request) {
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
	render.JSON(w, http.StatusOK, map[string]models.PostStatus{"status": status})
}

type categoryLinkRequest struct {
	// CategoryID nil unlinks the post.
	CategoryID *uuid.UUID `json:"category_id"`
}

// SetCategory links the post to a category in every language at once.
func (h *Posts) SetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req categoryLinkRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.SetCategory(r.Context(), id, req.CategoryID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// Delete removes a post. Requires ?confirm=true.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
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

// FeaturedImage replaces the featured image.
func (h *Posts) FeaturedImage(w http.ResponseWriter, r *http.Request) {
	h.image(w, r, store.ColumnFeaturedImage)
}

// SocialImage replaces the image used for social sharing.
func (h *Posts) SocialImage(w http.ResponseWriter, r *http.Request) {
	h.image(w, r, store.ColumnSocialImage)
}

func (h *Posts) image(w http.ResponseWriter, r *http.Request, column store.PostImageColumn) {
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
	url, err := h.svc.SetImage(r.Context(), id, column, f)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"url": url})
}

// OpenDraft returns the operator's draft for the post, seeding it from the
// stored translations on first access.
func (h *Posts) OpenDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	view, err := h.svc.OpenDraft(r.Context(), id, currentSession(r).UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, view)
}

// EditDraft applies a batch of field edits and slug mode changes. The
// batch is applied whole or not at all.
func (h *Posts) EditDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var patch blog.DraftPatch
	if !decode(w, r, &patch) {
		return
	}
	view, err := h.svc.EditDraft(r.Context(), id, currentSession(r).UserID, patch)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, view)
}

// CommitDraft writes the draft to the post and closes it.
func (h *Posts) CommitDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	p, err := h.svc.CommitDraft(r.Context(), id, currentSession(r).UserID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// DiscardDraft drops the draft without saving.
func (h *Posts) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := h.svc.DiscardDraft(r.Context(), id, currentSession(r).UserID); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}
