// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/store"
)

type memoryPosts struct {
	rows  map[uuid.UUID]*models.Post
	calls []string
	clock time.Time
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{
		rows:  map[uuid.UUID]*models.Post{},
		clock: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryPosts) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memoryPosts) List(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryPosts) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *p
	out.Translations = make(models.Translations[models.PostTranslation], len(p.Translations))
	for k, v := range p.Translations {
		out.Translations[k] = v
	}
	return &out, nil
}

func (r *memoryPosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	r.calls = append(r.calls, "Create")
	out := *p
	out.ID = uuid.New()
	out.CreatedAt = r.tick()
	out.UpdatedAt = out.CreatedAt
	r.rows[out.ID] = &out
	ret := out
	return &ret, nil
}

func (r *memoryPosts) Update(ctx context.Context, p *models.Post, expected *time.Time) (*models.Post, error) {
	r.calls = append(r.calls, "Update")
	cur, ok := r.rows[p.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if expected != nil && !expected.Equal(cur.UpdatedAt) {
		return nil, store.ErrConflict
	}
	cur.AuthorID, cur.BodyFormat, cur.Translations = p.AuthorID, p.BodyFormat, p.Translations
	cur.UpdatedAt = r.tick()
	out := *cur
	return &out, nil
}

func (r *memoryPosts) SetStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	r.calls = append(r.calls, "SetStatus")
	p, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = r.tick()
	return nil
}

func (r *memoryPosts) SetImage(ctx context.Context, id uuid.UUID, column store.PostImageColumn, url *string) error {
	r.calls = append(r.calls, "SetImage")
	p, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	if column == store.ColumnSocialImage {
		p.SocialImageURL = url
	} else {
		p.FeaturedImageURL = url
	}
	return nil
}

func (r *memoryPosts) Delete(ctx context.Context, id uuid.UUID) error {
	r.calls = append(r.calls, "Delete")
	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// memoryDrafts stores drafts as JSON, like the Valkey store does.
type memoryDrafts struct {
	data map[string][]byte
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{data: map[string][]byte{}}
}

func (m *memoryDrafts) Load(ctx context.Context, key string, v any) (bool, error) {
	data, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *memoryDrafts) Update(ctx context.Context, key string, v any, fn func(exists bool) error) error {
	exists, err := m.Load(ctx, key, v)
	if err != nil {
		return err
	}
	if err := fn(exists); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *memoryDrafts) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type memoryCategories map[uuid.UUID]bool

func (m memoryCategories) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if !m[id] {
		return nil, store.ErrNotFound
	}
	return &models.Category{ID: id}, nil
}

func postTitles(base string) models.Translations[models.PostTranslation] {
	return models.Translations[models.PostTranslation]{
		models.LangKA: {Title: base + " ka"},
		models.LangEN: {Title: base + " en"},
		models.LangRU: {Title: base + " ru"},
	}
}
