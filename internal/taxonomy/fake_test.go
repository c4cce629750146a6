// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/store"
)

// memoryRepo is an in-memory Repository that records every call.
type memoryRepo struct {
	mu         sync.Mutex
	categories []models.Category
	calls      []string
	listErr    error
	createErr  error
	// listHook runs after List has taken its snapshot, outside the lock.
	listHook func()
}

func (r *memoryRepo) record(name string) {
	r.calls = append(r.calls, name)
}

func (r *memoryRepo) List(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	r.record("List")
	if r.listErr != nil {
		r.mu.Unlock()
		return nil, r.listErr
	}
	out := make([]models.Category, len(r.categories))
	copy(out, r.categories)
	hook := r.listHook
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("FindByID")
	for _, c := range r.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	out := *c
	out.ID = uuid.New()
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	r.categories = append(r.categories, out)
	return &out, nil
}

func (r *memoryRepo) Update(ctx context.Context, c *models.Category, expected *time.Time) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Update")
	for i := range r.categories {
		if r.categories[i].ID != c.ID {
			continue
		}
		if expected != nil && !expected.Equal(r.categories[i].UpdatedAt) {
			return nil, store.ErrConflict
		}
		r.categories[i].Translations = c.Translations
		r.categories[i].UpdatedAt = time.Now()
		out := r.categories[i]
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Delete")
	for i, c := range r.categories {
		if c.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *memoryRepo) Move(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Move")
	if parentID != nil && r.reaches(*parentID, id) {
		return store.ErrCycle
	}
	for i := range r.categories {
		if r.categories[i].ID == id {
			r.categories[i].ParentID = parentID
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *memoryRepo) Reorder(ctx context.Context, items []store.ReorderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("Reorder")
	for _, item := range items {
		for i := range r.categories {
			if r.categories[i].ID == item.ID {
				r.categories[i].SortOrder = item.Order
			}
		}
	}
	return nil
}

// reaches walks the ancestors of from, itself included, looking for target.
// Callers hold r.mu.
func (r *memoryRepo) reaches(from, target uuid.UUID) bool {
	parents := make(map[uuid.UUID]*uuid.UUID, len(r.categories))
	for _, c := range r.categories {
		parents[c.ID] = c.ParentID
	}
	seen := map[uuid.UUID]bool{}
	for cur := &from; cur != nil && !seen[*cur]; cur = parents[*cur] {
		if *cur == target {
			return true
		}
		seen[*cur] = true
	}
	return false
}

func (r *memoryRepo) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		switch c {
		case "Create", "Update", "Delete", "Move", "Reorder":
			out = append(out, c)
		}
	}
	return out
}

// memoryCache is an in-memory Cache with the same generation rule as the
// Valkey one.
type memoryCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	generations map[string]int64
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, generations: map[string]int64{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok
}

func (c *memoryCache) Generation(ctx context.Context, key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key], true
}

func (c *memoryCache) Set(ctx context.Context, key string, gen int64, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] == gen {
		c.data[key] = data
	}
}

func (c *memoryCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.generations[key]++
	c.invalidated = append(c.invalidated, key)
}

type logEntry struct {
	entity string
	id     uuid.UUID
	action string
}

type memoryLog struct {
	entries []logEntry
}

func (l *memoryLog) Log(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	l.entries = append(l.entries, logEntry{entityType, entityID, action})
}

func cat(id uuid.UUID, parent *uuid.UUID, name string) models.Category {
	return models.Category{
		ID:       id,
		ParentID: parent,
		Translations: models.Translations[models.CategoryTranslation]{
			models.LangKA: {Language: models.LangKA, Name: name},
		},
	}
}

func names(name string) models.Translations[models.CategoryTranslation] {
	return models.Translations[models.CategoryTranslation]{
		models.LangKA: {Name: name + " ka"},
		models.LangEN: {Name: name + " en"},
		models.LangRU: {Name: name + " ru"},
	}
}
