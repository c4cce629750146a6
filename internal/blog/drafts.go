// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/store"
	"legaldir/internal/translation"
	"legaldir/internal/validate"
)

// ErrNoDraft is returned when committing a draft that does not exist.
var ErrNoDraft = fmt.Errorf("no open draft: %w", store.ErrNotFound)

// DraftView is a draft as returned to the editors.
type DraftView struct {
	PostID  uuid.UUID          `json:"post_id"`
	Draft   *translation.Draft `json:"draft"`
	Missing []translation.Gap  `json:"missing"`
	// Stale is set when the post changed after the draft was opened; a
	// commit would then be refused.
	Stale bool `json:"stale"`
}

// DraftPatch is one round of editor changes.
type DraftPatch struct {
	Edits     []translation.Edit                       `json:"edits"`
	SlugModes map[models.Language]translation.SlugMode `json:"slug_modes"`
}

func (s *Posts) view(d *translation.Draft, p *models.Post) *DraftView {
	return &DraftView{
		PostID:  p.ID,
		Draft:   d,
		Missing: d.Missing(requiredFields...),
		Stale:   !d.BaseUpdatedAt().Equal(p.UpdatedAt),
	}
}

// OpenDraft returns the user's draft of a post, starting one from the
// stored post when none exists.
func (s *Posts) OpenDraft(ctx context.Context, id, userID uuid.UUID) (*DraftView, error) {
	return s.EditDraft(ctx, id, userID, DraftPatch{})
}

// EditDraft applies a patch to the user's draft. Either every edit is
// applied or none is.
func (s *Posts) EditDraft(ctx context.Context, id, userID uuid.UUID, patch DraftPatch) (*DraftView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEdits(ctx, patch.Edits); err != nil {
		return nil, err
	}

	d := translation.NewDraft(translation.PostSchema, p.ID, p.UpdatedAt)
	err = s.drafts.Update(ctx, translation.DraftKey(entityPost, id, userID), d, func(exists bool) error {
		if !exists {
			d.Reset(p.ID, p.UpdatedAt)
			seedDraft(d, p)
		}
		if err := d.Apply(patch.Edits); err != nil {
			return &validate.Error{Fields: map[string]string{"edits": err.Error()}}
		}
		for lang, mode := range patch.SlugModes {
			if err := d.SetSlugMode(lang, mode); err != nil {
				return &validate.Error{Fields: map[string]string{"slug_modes": err.Error()}}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(d, p), nil
}

// checkEdits validates the values of language-independent fields before
// anything is stored.
func (s *Posts) checkEdits(ctx context.Context, edits []translation.Edit) error {
	for _, e := range edits {
		raw := strings.TrimSpace(e.Value)
		switch e.Field {
		case "category_id":
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return &validate.Error{Fields: map[string]string{"category_id": "is not a valid id"}}
			}
			if err := s.checkCategory(ctx, &id); err != nil {
				return err
			}
		case "position":
			if n, err := strconv.Atoi(raw); raw != "" && (err != nil || n < 0) {
				return &validate.Error{Fields: map[string]string{"position": "must be a whole number of at least 0"}}
			}
		}
	}
	return nil
}

// CommitDraft saves the user's draft into the post and discards it. The
// commit is refused with store.ErrConflict when the post changed after the
// draft was opened, and with a validation error while required fields are
// empty in any language.
func (s *Posts) CommitDraft(ctx context.Context, id, userID uuid.UUID) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := translation.DraftKey(entityPost, id, userID)
	d := translation.NewDraft(translation.PostSchema, p.ID, p.UpdatedAt)
	found, err := s.drafts.Load(ctx, key, d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoDraft
	}

	if gaps := d.Missing(requiredFields...); len(gaps) > 0 {
		fields := make(map[string]string, len(gaps))
		for _, g := range gaps {
			fields[validate.Field(g.Field, g.Language)] = "is required"
		}
		return nil, &validate.Error{Fields: fields}
	}

	tr, err := translationsFromDraft(d, p)
	if err != nil {
		return nil, err
	}
	var v validate.Errors
	checkTranslations(&v, tr)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, sharedCategory(tr)); err != nil {
		return nil, err
	}
	if err := withReadingTime(p.BodyFormat, tr); err != nil {
		return nil, err
	}

	base := d.BaseUpdatedAt()
	p.Translations = tr
	updated, err := s.repo.Update(ctx, p, &base)
	if err != nil {
		return nil, err
	}
	s.log(ctx, id, "update")

	if err := s.drafts.Delete(ctx, key); err != nil {
		// The post is saved; a leftover draft only shows as stale.
		slog.Warn("draft cleanup failed", "error", err, "post_id", id)
	}
	return updated, nil
}

// DiscardDraft drops the user's draft of a post.
func (s *Posts) DiscardDraft(ctx context.Context, id, userID uuid.UUID) error {
	return s.drafts.Delete(ctx, translation.DraftKey(entityPost, id, userID))
}
