// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// BodyFormat indicates how a post body is stored.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// Post is a blog article. Language-independent fields live here; all text
// lives in Translations.
type Post struct {
	ID               uuid.UUID                     `json:"id"`
	AuthorID         *uuid.UUID                    `json:"author_id,omitempty"`
	Status           PostStatus                    `json:"status"`
	BodyFormat       BodyFormat                    `json:"body_format"`
	FeaturedImageURL *string                       `json:"featured_image_url,omitempty"`
	SocialImageURL   *string                       `json:"social_image_url,omitempty"`
	Translations     Translations[PostTranslation] `json:"translations"`
	PublishedAt      *time.Time                    `json:"published_at,omitempty"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostTranslation holds the localized content, SEO and social fields of a
// post. CategoryID and Position are language-independent by business rule
// but stored per row, so they must always be written to every language at once.
type PostTranslation struct {
	Language           Language   `json:"language"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Excerpt            string     `json:"excerpt"`
	Body               string     `json:"body"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	Position           int        `json:"position"`
	ReadingTimeMinutes int        `json:"reading_time_minutes"`
	SEOTitle           string     `json:"seo_title"`
	SEODescription     string     `json:"seo_description"`
	SEOKeywords        string     `json:"seo_keywords"`
	SocialTitle        string     `json:"social_title"`
	SocialDescription  string     `json:"social_description"`
}
