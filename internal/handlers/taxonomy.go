// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/session"
	"legaldir/internal/taxonomy"
)

// TaxonomyService edits one category tree. *taxonomy.Manager implements it.
type TaxonomyService interface {
	Taxonomy() models.Taxonomy
	Load(ctx context.Context) (*taxonomy.Tree, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, in taxonomy.Input) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in taxonomy.Input) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// SessionUpdater persists changes to the current session.
type SessionUpdater interface {
	Update(ctx context.Context, r *http.Request, data *session.Data) error
}

// Taxonomy serves one category tree (practices or post categories).
type Taxonomy struct {
	svc      TaxonomyService
	sessions SessionUpdater
}

// NewTaxonomy creates the handler group for one taxonomy.
func NewTaxonomy(svc TaxonomyService, sessions SessionUpdater) *Taxonomy {
	return &Taxonomy{svc: svc, sessions: sessions}
}

// TreeResponse is a loaded tree plus the operator's expanded nodes.
type TreeResponse struct {
	*taxonomy.Tree
	Expanded []uuid.UUID `json:"expanded"`
}

type categoryRequest struct {
	ParentID          *uuid.UUID                                      `json:"parent_id"`
	Translations      models.Translations[models.CategoryTranslation] `json:"translations"`
	ExpectedUpdatedAt *time.Time                                      `json:"expected_updated_at"`
}

func (req *categoryRequest) input() taxonomy.Input {
	return taxonomy.Input{
		ParentID:          req.ParentID,
		Translations:      req.Translations,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	}
}

func (h *Taxonomy) expansion(r *http.Request) taxonomy.Expansion {
	sess := currentSession(r)
	if sess == nil {
		return taxonomy.NewExpansion(nil)
	}
	return taxonomy.NewExpansion(sess.Expanded[string(h.svc.Taxonomy())])
}

// Tree returns the nested tree, its orphans and the expanded node ids.
func (h *Taxonomy) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Load(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	exp := h.expansion(r)
	exp.Prune(tree)
	render.JSON(w, http.StatusOK, TreeResponse{Tree: tree, Expanded: exp.IDs()})
}

// Flat returns the tree flattened depth-first for <select> dropdowns.
func (h *Taxonomy) Flat(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Load(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, tree.Flatten())
}

// Get returns one category with all of its translations.
func (h *Taxonomy) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, c)
}

// Create adds a category.
func (h *Taxonomy) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), req.input())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, c)
}

// Update replaces a category's translations. The parent is changed
// through Move.
func (h *Taxonomy) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	if err := checkLanguages(req.Translations); err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, req.input())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, c)
}

// Delete removes a category. Requires ?confirm=true.
func (h *Taxonomy) Delete(w http.ResponseWriter, r *http.Request) {
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

type moveRequest struct {
	// ParentID nil moves the category to the root.
	ParentID *uuid.UUID `json:"parent_id"`
}

// Move reparents a category.
func (h *Taxonomy) Move(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Move(r.Context(), id, req.ParentID); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// Reorder sets the order of one set of siblings.
func (h *Taxonomy) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Reorder(r.Context(), req.IDs); err != nil {
		render.Error(w, r, err)
		return
	}
	render.NoContent(w)
}

// ToggleResponse reports a node's expansion state after a toggle.
type ToggleResponse struct {
	ID       uuid.UUID   `json:"id"`
	Open     bool        `json:"open"`
	Expanded []uuid.UUID `json:"expanded"`
}

// Toggle expands or collapses a node in the operator's view of the tree.
// The state lives in the session, not in the category rows.
func (h *Taxonomy) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	tree, err := h.svc.Load(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if tree.Find(id) == nil {
		render.Message(w, http.StatusNotFound, "not found")
		return
	}

	sess := currentSession(r)
	exp := h.expansion(r)
	open := exp.Toggle(id)
	exp.Prune(tree)

	if sess.Expanded == nil {
		sess.Expanded = make(map[string][]uuid.UUID)
	}
	sess.Expanded[string(h.svc.Taxonomy())] = exp.IDs()
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, ToggleResponse{ID: id, Open: open, Expanded: exp.IDs()})
}
