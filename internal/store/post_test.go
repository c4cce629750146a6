// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"legaldir/internal/models"
)

func postTranslations(base string) models.Translations[models.PostTranslation] {
	tr := models.Translations[models.PostTranslation]{}
	for _, lang := range models.Languages {
		tr[lang] = models.PostTranslation{
			Language:           lang,
			Title:              base + " " + string(lang),
			Slug:               base + "-" + string(lang),
			Body:               "<p>body</p>",
			Position:           3,
			ReadingTimeMinutes: 1,
		}
	}
	return tr
}

func TestPostStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Post{
		Status:       models.PostStatusDraft,
		BodyFormat:   models.BodyFormatHTML,
		Translations: postTranslations("post-" + uniq()),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "posts", created.ID) })

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(found.Translations) != 3 {
		t.Fatalf("translations: got %d", len(found.Translations))
	}
	if found.Translations[models.LangEN].Position != 3 {
		t.Errorf("position: %d", found.Translations[models.LangEN].Position)
	}
	if found.PublishedAt != nil {
		t.Error("draft must not have published_at")
	}

	if err := s.SetStatus(ctx, created.ID, models.PostStatusPublished); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	found, _ = s.FindByID(ctx, created.ID)
	if !found.IsPublished() || found.PublishedAt == nil {
		t.Fatalf("expected published post with published_at, got %s %v", found.Status, found.PublishedAt)
	}
	first := *found.PublishedAt

	// Unpublish and publish again; the first publication date is kept.
	s.SetStatus(ctx, created.ID, models.PostStatusDraft)
	s.SetStatus(ctx, created.ID, models.PostStatusPublished)
	found, _ = s.FindByID(ctx, created.ID)
	if !found.PublishedAt.Equal(first) {
		t.Errorf("published_at changed: %v -> %v", first, found.PublishedAt)
	}

	edit := *found
	tr := edit.Translations[models.LangKA]
	tr.Title = "ახალი სათაური"
	edit.Translations = models.Translations[models.PostTranslation]{models.LangKA: tr}
	if _, err := s.Update(ctx, &edit, &found.UpdatedAt); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Update(ctx, &edit, &found.UpdatedAt); !errors.Is(err, ErrConflict) {
		t.Errorf("stale update: got %v, want ErrConflict", err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete: got %v", err)
	}
}

func TestServiceStoreLifecycle(t *testing.T) {
	db := testDB(t)
	profiles := NewProfileStore(db)
	s := NewServiceStore(db)
	ctx := context.Background()

	owner := createProfile(t, profiles, &models.Profile{
		Kind: models.ProfileSpecialist, Status: models.StatusActive,
		Translations: profileTranslations("owner-" + uniq()),
	})

	price := int64(15000)
	base := "svc-" + uniq()
	tr := models.Translations[models.ServiceTranslation]{}
	for _, lang := range models.Languages {
		tr[lang] = models.ServiceTranslation{Language: lang, Name: base, Slug: base + "-" + string(lang)}
	}

	created, err := s.Create(ctx, &models.Service{
		ProfileID: owner.ID, Status: models.StatusActive, Price: &price, Translations: tr,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetStatus(ctx, created.ID, models.StatusInactive); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	url := "https://cdn.example.com/services/a.webp"
	if err := s.SetImage(ctx, created.ID, &url); err != nil {
		t.Fatalf("SetImage: %v", err)
	}

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Status != models.StatusInactive || found.Price == nil || *found.Price != price {
		t.Errorf("unexpected service: %+v", found)
	}
	if found.ImageURL == nil || *found.ImageURL != url {
		t.Errorf("image: %v", found.ImageURL)
	}

	// Deleting the owner removes its services.
	if err := profiles.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("Delete owner: %v", err)
	}
	if _, err := s.FindByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("service survived owner delete: %v", err)
	}
}
