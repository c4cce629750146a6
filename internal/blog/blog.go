// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog manages posts and the shared multilingual draft their
// content, SEO and social editors work on.
package blog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/markdown"
	"legaldir/internal/media"
	"legaldir/internal/models"
	"legaldir/internal/search"
	"legaldir/internal/slug"
	"legaldir/internal/store"
	"legaldir/internal/translation"
	"legaldir/internal/validate"
)

const entityPost = "post"

// requiredFields must be filled in every language before a draft can be
// committed or a post published.
var requiredFields = []string{"title", "slug"}

// Repository persists posts. *store.PostStore implements it.
type Repository interface {
	List(ctx context.Context) ([]models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post, expected *time.Time) (*models.Post, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error
	SetImage(ctx context.Context, id uuid.UUID, column store.PostImageColumn, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DraftStorage keeps drafts between requests. *cache.DraftStore
// implements it.
type DraftStorage interface {
	Load(ctx context.Context, key string, v any) (bool, error)
	Update(ctx context.Context, key string, v any, fn func(exists bool) error) error
	Delete(ctx context.Context, key string) error
}

// Categories looks up post categories. *taxonomy.Manager implements it.
type Categories interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// Images stores post images. *media.Service implements it.
type Images interface {
	ReplaceImage(ctx context.Context, purpose models.MediaPurpose, f media.File, oldURL *string, commit func(ctx context.Context, url string) error) (string, error)
	RemoveByURL(ctx context.Context, url *string)
}

// ChangeLog records changes public pages must pick up.
type ChangeLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
}

// PostInput is the data needed to create a post.
type PostInput struct {
	AuthorID     *uuid.UUID
	BodyFormat   models.BodyFormat
	Translations models.Translations[models.PostTranslation]
}

// Posts manages blog posts.
type Posts struct {
	repo       Repository
	drafts     DraftStorage
	categories Categories
	images     Images
	changes    ChangeLog
}

// NewPosts creates a post manager. images and changes may be nil.
func NewPosts(repo Repository, drafts DraftStorage, categories Categories, images Images, changes ChangeLog) *Posts {
	return &Posts{repo: repo, drafts: drafts, categories: categories, images: images, changes: changes}
}

func (s *Posts) log(ctx context.Context, id uuid.UUID, action string) {
	if s.changes != nil {
		s.changes.Log(ctx, entityPost, id, action)
	}
}

// List returns every post whose title or slug contains q, in any language.
func (s *Posts) List(ctx context.Context, q string) ([]models.Post, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, search.NewQuery(q), func(p *models.Post) []string {
		var fields []string
		for _, t := range p.Translations {
			fields = append(fields, t.Title, t.Slug)
		}
		return fields
	}), nil
}

// Get returns one post with all translations.
func (s *Posts) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates in and inserts a new draft-status post.
func (s *Posts) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if in.BodyFormat == "" {
		in.BodyFormat = models.BodyFormatHTML
	}
	var v validate.Errors
	if in.BodyFormat != models.BodyFormatHTML && in.BodyFormat != models.BodyFormatMarkdown {
		v.Add("body_format", "must be html or markdown")
	}
	tr := make(models.Translations[models.PostTranslation], len(models.Languages))
	for _, lang := range models.Languages {
		t := in.Translations[lang]
		t.Language = lang
		t.Title = strings.TrimSpace(t.Title)
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" {
			t.Slug = slug.Generate(t.Title)
		}
		tr[lang] = t
	}
	checkTranslations(&v, tr)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, sharedCategory(tr)); err != nil {
		return nil, err
	}
	if err := withReadingTime(in.BodyFormat, tr); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, &models.Post{
		AuthorID:     in.AuthorID,
		Status:       models.PostStatusDraft,
		BodyFormat:   in.BodyFormat,
		Translations: tr,
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx, p.ID, "create")
	return p, nil
}

// checkTranslations validates a full translation set: required text,
// lengths, slugs and the fields that must agree across languages.
func checkTranslations(v *validate.Errors, tr models.Translations[models.PostTranslation]) {
	first := tr[models.Languages[0]]
	for _, lang := range models.Languages {
		t := tr[lang]
		v.Required(validate.Field("title", lang), t.Title)
		v.MaxLen(validate.Field("title", lang), t.Title, validate.MaxTitleLen)
		if t.Title != "" {
			v.Slug(validate.Field("slug", lang), t.Slug)
		}
		v.MaxLen(validate.Field("excerpt", lang), t.Excerpt, validate.MaxExcerptLen)
		v.MaxLen(validate.Field("body", lang), t.Body, validate.MaxBodyLen)
		v.MaxLen(validate.Field("seo_title", lang), t.SEOTitle, validate.MaxSEOTitleLen)
		v.MaxLen(validate.Field("seo_description", lang), t.SEODescription, validate.MaxMetaDescLen)
		v.MaxLen(validate.Field("seo_keywords", lang), t.SEOKeywords, validate.MaxMetaKeywordLen)
		v.MaxLen(validate.Field("social_title", lang), t.SocialTitle, validate.MaxSEOTitleLen)
		v.MaxLen(validate.Field("social_description", lang), t.SocialDescription, validate.MaxMetaDescLen)
		if t.Position < 0 {
			v.Add(validate.Field("position", lang), "must not be negative")
		}
		if !sameID(t.CategoryID, first.CategoryID) {
			v.Add("category_id", "must be the same in every language")
		}
		if t.Position != first.Position {
			v.Add("position", "must be the same in every language")
		}
	}
}

func sharedCategory(tr models.Translations[models.PostTranslation]) *uuid.UUID {
	return tr[models.Languages[0]].CategoryID
}

func (s *Posts) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil || s.categories == nil {
		return nil
	}
	if _, err := s.categories.Get(ctx, *id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &validate.Error{Fields: map[string]string{"category_id": "category does not exist"}}
		}
		return err
	}
	return nil
}

// withReadingTime stores the estimated reading time of each body.
func withReadingTime(format models.BodyFormat, tr models.Translations[models.PostTranslation]) error {
	for lang, t := range tr {
		body, err := markdown.BodyHTML(format, t.Body)
		if err != nil {
			return err
		}
		t.ReadingTimeMinutes = translation.ReadingTime(body, lang)
		tr[lang] = t
	}
	return nil
}

// ToggleStatus publishes a draft post or unpublishes a published one.
// Publishing requires a title and slug in every language.
func (s *Posts) ToggleStatus(ctx context.Context, id uuid.UUID) (models.PostStatus, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	next := models.PostStatusPublished
	if p.IsPublished() {
		next = models.PostStatusDraft
	}
	if next == models.PostStatusPublished {
		var v validate.Errors
		for _, lang := range models.Languages {
			t := p.Translations[lang]
			v.Required(validate.Field("title", lang), t.Title)
			v.Required(validate.Field("slug", lang), t.Slug)
		}
		if err := v.Err(); err != nil {
			return "", err
		}
	}
	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return "", err
	}
	s.log(ctx, id, "status")
	return next, nil
}

// SetCategory links the post to a category, or unlinks it when categoryID
// is nil. The value is written into every language in one update.
func (s *Posts) SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) (*models.Post, error) {
	if err := s.checkCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := draftFromPost(p)
	value := ""
	if categoryID != nil {
		value = categoryID.String()
	}
	if err := d.ApplyAll("category_id", value); err != nil {
		return nil, err
	}
	tr, err := translationsFromDraft(d, p)
	if err != nil {
		return nil, err
	}
	p.Translations = tr

	updated, err := s.repo.Update(ctx, p, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.log(ctx, id, "category")
	return updated, nil
}

// Delete removes a post and, best effort, its images. Open drafts expire
// on their own.
func (s *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil {
		s.images.RemoveByURL(ctx, p.FeaturedImageURL)
		s.images.RemoveByURL(ctx, p.SocialImageURL)
	}
	s.log(ctx, id, "delete")
	return nil
}

// SetImage replaces the featured or social image of a post and returns
// the new URL.
func (s *Posts) SetImage(ctx context.Context, id uuid.UUID, column store.PostImageColumn, f media.File) (string, error) {
	if s.images == nil {
		return "", media.ErrNoStorage
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	old, purpose := p.FeaturedImageURL, models.PurposeFeaturedImage
	switch column {
	case store.ColumnFeaturedImage:
	case store.ColumnSocialImage:
		old, purpose = p.SocialImageURL, models.PurposeSocialImage
	default:
		return "", fmt.Errorf("set post image: unknown column %q", column)
	}

	url, err := s.images.ReplaceImage(ctx, purpose, f, old, func(ctx context.Context, url string) error {
		return s.repo.SetImage(ctx, id, column, &url)
	})
	if err != nil {
		return "", err
	}
	s.log(ctx, id, "image")
	return url, nil
}

// draftFromPost seeds a draft with the stored translations. A stored slug
// that does not follow its title starts in manual mode.
func draftFromPost(p *models.Post) *translation.Draft {
	d := translation.NewDraft(translation.PostSchema, p.ID, p.UpdatedAt)
	seedDraft(d, p)
	return d
}

func seedDraft(d *translation.Draft, p *models.Post) {
	for _, lang := range models.Languages {
		t, ok := p.Translations[lang]
		if !ok {
			continue
		}
		category := ""
		if t.CategoryID != nil {
			category = t.CategoryID.String()
		}
		// Keys are all part of PostSchema.
		_ = d.Load(lang, map[string]string{
			"title":              t.Title,
			"slug":               t.Slug,
			"excerpt":            t.Excerpt,
			"body":               t.Body,
			"category_id":        category,
			"position":           strconv.Itoa(t.Position),
			"seo_title":          t.SEOTitle,
			"seo_description":    t.SEODescription,
			"seo_keywords":       t.SEOKeywords,
			"social_title":       t.SocialTitle,
			"social_description": t.SocialDescription,
		})
		if t.Slug != "" && t.Slug != slug.Generate(t.Title) {
			_ = d.SetSlugMode(lang, translation.SlugManual)
		}
	}
}

// translationsFromDraft converts draft values back into translation rows.
// Reading time is carried over from p and recomputed on commit.
func translationsFromDraft(d *translation.Draft, p *models.Post) (models.Translations[models.PostTranslation], error) {
	var v validate.Errors
	tr := make(models.Translations[models.PostTranslation], len(models.Languages))
	for _, lang := range models.Languages {
		vals := d.Values(lang)
		t := models.PostTranslation{
			Language:           lang,
			Title:              strings.TrimSpace(vals["title"]),
			Slug:               strings.TrimSpace(vals["slug"]),
			Excerpt:            vals["excerpt"],
			Body:               vals["body"],
			ReadingTimeMinutes: p.Translations[lang].ReadingTimeMinutes,
			SEOTitle:           vals["seo_title"],
			SEODescription:     vals["seo_description"],
			SEOKeywords:        vals["seo_keywords"],
			SocialTitle:        vals["social_title"],
			SocialDescription:  vals["social_description"],
		}
		if raw := strings.TrimSpace(vals["category_id"]); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				v.Add("category_id", "is not a valid id")
			} else {
				t.CategoryID = &id
			}
		}
		if raw := strings.TrimSpace(vals["position"]); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				v.Add("position", "must be a whole number")
			}
			t.Position = n
		}
		tr[lang] = t
	}
	return tr, v.Err()
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
