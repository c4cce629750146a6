// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"legaldir/internal/models"
	"legaldir/internal/slug"
	"legaldir/internal/store"
	"legaldir/internal/validate"
)

// ErrCycle is returned when a move would make a category its own ancestor.
// The repository reports the same error when it catches a cycle that a
// concurrent move created after the manager's own check.
var ErrCycle = store.ErrCycle

// Repository is the persistence a Manager needs. *store.CategoryStore
// implements it.
type Repository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category, expected *time.Time) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error
	Reorder(ctx context.Context, items []store.ReorderItem) error
}

// Cache holds serialized trees. *cache.TreeCache implements it.
//
// Generation is read before the repository is queried and handed back to
// Set, which must drop the tree if Invalidate ran in between.
type Cache interface {
	Get(ctx context.Context, taxonomy string) ([]byte, bool)
	Generation(ctx context.Context, taxonomy string) (int64, bool)
	Set(ctx context.Context, taxonomy string, gen int64, data []byte)
	Invalidate(ctx context.Context, taxonomy string)
}

// ChangeLog records cache invalidations. *store.CacheLogStore implements it.
type ChangeLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// Input is the editable part of a category.
type Input struct {
	ParentID     *uuid.UUID
	Translations models.Translations[models.CategoryTranslation]
	// ExpectedUpdatedAt enables the stale-write check on Update.
	ExpectedUpdatedAt *time.Time
}

// Manager loads and edits one taxonomy.
type Manager struct {
	taxonomy models.Taxonomy
	repo     Repository
	cache    Cache
	changes  ChangeLog
	loads    singleflight.Group
}

// NewManager creates a Manager. cache and changes may be nil.
func NewManager(taxonomy models.Taxonomy, repo Repository, cache Cache, changes ChangeLog) *Manager {
	return &Manager{taxonomy: taxonomy, repo: repo, cache: cache, changes: changes}
}

// Taxonomy returns the taxonomy this manager edits.
func (m *Manager) Taxonomy() models.Taxonomy {
	return m.taxonomy
}

// Load returns the current tree. Concurrent loads of an uncached tree share
// one repository query.
func (m *Manager) Load(ctx context.Context) (*Tree, error) {
	key := string(m.taxonomy)
	if m.cache != nil {
		if data, ok := m.cache.Get(ctx, key); ok {
			var t Tree
			if err := json.Unmarshal(data, &t); err == nil {
				return &t, nil
			}
			slog.Warn("discarding unreadable cached tree", "taxonomy", key)
		}
	}

	v, err, _ := m.loads.Do(key, func() (any, error) {
		var (
			gen   int64
			genOK bool
		)
		if m.cache != nil {
			gen, genOK = m.cache.Generation(ctx, key)
		}
		categories, err := m.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}
		t := BuildTree(categories)
		if len(t.Orphans) > 0 {
			slog.Warn("taxonomy has orphaned categories", "taxonomy", key, "count", len(t.Orphans))
		}
		if genOK {
			if data, err := json.Marshal(t); err == nil {
				m.cache.Set(ctx, key, gen, data)
			}
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tree), nil
}

// Get returns one category with all translations.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return m.repo.FindByID(ctx, id)
}

// Create validates in and inserts a new category, as a root or below
// in.ParentID. Nothing is written if validation fails.
func (m *Manager) Create(ctx context.Context, in Input) (*models.Category, error) {
	tr, err := prepareTranslations(in.Translations)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := m.repo.FindByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &validate.Error{Fields: map[string]string{"parent_id": "parent category does not exist"}}
			}
			return nil, err
		}
	}

	c, err := m.repo.Create(ctx, &models.Category{ParentID: in.ParentID, Translations: tr})
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx, c.ID, "create")
	return c, nil
}

// Update replaces the translations of a category. The position in the
// tree is not changed; use Move for that.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, in Input) (*models.Category, error) {
	tr, err := prepareTranslations(in.Translations)
	if err != nil {
		return nil, err
	}
	c, err := m.repo.Update(ctx, &models.Category{ID: id, Translations: tr}, in.ExpectedUpdatedAt)
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx, id, "update")
	return c, nil
}

// Delete removes a category together with its subtree.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		return err
	}
	m.invalidate(ctx, id, "delete")
	return nil
}

// Move re-parents a category. A nil parentID makes it a root. Moving a
// category below itself or one of its descendants returns ErrCycle.
// The check here rejects the common case without a write; the repository
// repeats it under a lock so concurrent moves cannot close a loop.
func (m *Manager) Move(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	categories, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("move category: %w", err)
	}
	if !containsID(categories, id) {
		return fmt.Errorf("move category %s: %w", id, store.ErrNotFound)
	}
	if parentID != nil {
		if !containsID(categories, *parentID) {
			return fmt.Errorf("move category: parent %s: %w", *parentID, store.ErrNotFound)
		}
		if *parentID == id || descendants(categories, id)[*parentID] {
			return ErrCycle
		}
	}

	if err := m.repo.Move(ctx, id, parentID); err != nil {
		return err
	}
	m.invalidate(ctx, id, "move")
	return nil
}

// Reorder sets the order of siblings. ids must list every child of one
// parent exactly once; their position in the slice becomes their sort order.
func (m *Manager) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return &validate.Error{Fields: map[string]string{"ids": "is required"}}
	}
	categories, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	byID := make(map[uuid.UUID]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	items := make([]store.ReorderItem, 0, len(ids))
	first, ok := byID[ids[0]]
	if !ok {
		return fmt.Errorf("reorder category %s: %w", ids[0], store.ErrNotFound)
	}
	for i, id := range ids {
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder category %s: %w", id, store.ErrNotFound)
		}
		if seen[id] {
			return &validate.Error{Fields: map[string]string{"ids": "contains duplicates"}}
		}
		if !sameParent(c.ParentID, first.ParentID) {
			return &validate.Error{Fields: map[string]string{"ids": "must all share the same parent"}}
		}
		seen[id] = true
		items = append(items, store.ReorderItem{ID: id, Order: i})
	}
	for _, c := range categories {
		if sameParent(c.ParentID, first.ParentID) && !seen[c.ID] {
			return &validate.Error{Fields: map[string]string{"ids": "must list every sibling"}}
		}
	}

	if err := m.repo.Reorder(ctx, items); err != nil {
		return err
	}
	m.invalidate(ctx, first.ID, "reorder")
	return nil
}

func (m *Manager) invalidate(ctx context.Context, id uuid.UUID, action string) {
	if m.cache != nil {
		m.cache.Invalidate(ctx, string(m.taxonomy))
	}
	// Loads that start from here on must query again instead of joining
	// one that may have read the repository before this write.
	m.loads.Forget(string(m.taxonomy))
	if m.changes != nil {
		m.changes.Log(ctx, string(m.taxonomy), id, action)
	}
}

// prepareTranslations checks that every language has a name and derives
// missing slugs from the name. It returns a normalized copy.
func prepareTranslations(in models.Translations[models.CategoryTranslation]) (models.Translations[models.CategoryTranslation], error) {
	var v validate.Errors
	out := make(models.Translations[models.CategoryTranslation], len(models.Languages))
	for _, lang := range models.Languages {
		t := in[lang]
		t.Language = lang
		t.Name = strings.TrimSpace(t.Name)
		t.Slug = strings.TrimSpace(t.Slug)

		v.Required(validate.Field("name", lang), t.Name)
		v.MaxLen(validate.Field("name", lang), t.Name, validate.MaxNameLen)
		if t.Slug == "" {
			t.Slug = slug.Generate(t.Name)
		}
		if t.Name != "" {
			v.Slug(validate.Field("slug", lang), t.Slug)
		}
		v.MaxLen(validate.Field("seo_title", lang), t.SEOTitle, validate.MaxSEOTitleLen)
		v.MaxLen(validate.Field("seo_description", lang), t.SEODescription, validate.MaxMetaDescLen)
		out[lang] = t
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func containsID(categories []models.Category, id uuid.UUID) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
