// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate collects per-field input errors for directory, taxonomy
// and blog writes.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"legaldir/internal/models"
	"legaldir/internal/slug"
)

// Length limits shared by every translatable entity.
const (
	MaxNameLen        = 200
	MaxTitleLen       = 300
	MaxSlugLen        = 300
	MaxBodyLen        = 100_000
	MaxExcerptLen     = 1_000
	MaxSEOTitleLen    = 300
	MaxMetaDescLen    = 500
	MaxMetaKeywordLen = 500
)

// Error reports every invalid field of one write. Keys are field paths such
// as "name.ka" or "parent_id"; values are human-readable messages.
type Error struct {
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Errors accumulates field errors. The zero value is ready to use.
type Errors struct {
	fields map[string]string
}

// Add records msg for field unless the field already has an error.
func (v *Errors) Add(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, ok := v.fields[field]; !ok {
		v.fields[field] = msg
	}
}

// Required records an error when value is blank.
func (v *Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

// MaxLen records an error when value has more than max runes.
func (v *Errors) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// Slug records an error when s is not a well-formed slug.
func (v *Errors) Slug(field, s string) {
	switch {
	case s == "":
		v.Add(field, "cannot be derived from the name")
	case utf8.RuneCountInString(s) > MaxSlugLen:
		v.Add(field, fmt.Sprintf("must be at most %d characters", MaxSlugLen))
	case !slug.Valid(s):
		v.Add(field, "may contain only a-z, 0-9 and single hyphens")
	}
}

// Field joins a field name with a language into a field path.
func Field(name string, lang models.Language) string {
	return name + "." + string(lang)
}

// Err returns the accumulated *Error, or nil when nothing was recorded.
func (v *Errors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &Error{Fields: v.fields}
}
