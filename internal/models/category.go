// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Taxonomy identifies one of the hierarchical category sets.
type Taxonomy string

const (
	// TaxonomyPractice holds the practice areas specialists and services belong to.
	TaxonomyPractice Taxonomy = "practices"
	// TaxonomyPostCategory holds blog post categories.
	TaxonomyPostCategory Taxonomy = "post-categories"
)

// Valid reports whether t names a known taxonomy.
func (t Taxonomy) Valid() bool {
	return t == TaxonomyPractice || t == TaxonomyPostCategory
}

// Category represents a node in a hierarchical taxonomy. All user-facing
// text lives in Translations, one entry per language.
type Category struct {
	ID           uuid.UUID                         `json:"id"`
	ParentID     *uuid.UUID                        `json:"parent_id"`
	SortOrder    int                               `json:"sort_order"`
	Translations Translations[CategoryTranslation] `json:"translations"`
	CreatedAt    time.Time                         `json:"created_at"`
	UpdatedAt    time.Time                         `json:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Name returns the category name in lang, or "" if that translation is missing.
func (c *Category) Name(lang Language) string {
	return c.Translations[lang].Name
}

// CategoryTranslation holds the localized text of a category.
type CategoryTranslation struct {
	Language       Language `json:"language"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
}

// NameEmpty reports whether the translation lacks a usable name.
func NameEmpty(t CategoryTranslation) bool {
	return strings.TrimSpace(t.Name) == ""
}
