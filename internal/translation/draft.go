// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package translation holds the in-flight state of the multilingual
// editors. One Draft carries every language and every editor section of an
// entity, so switching the active language or tab never loses edits.
package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/slug"
)

// Section is one editor tab.
type Section string

const (
	SectionContent Section = "content"
	SectionSEO     Section = "seo"
	SectionSocial  Section = "social"
)

// SlugMode controls whether the slug follows the title.
type SlugMode string

const (
	SlugAuto   SlugMode = "auto"
	SlugManual SlugMode = "manual"
)

// Valid reports whether m is a known mode.
func (m SlugMode) Valid() bool {
	return m == SlugAuto || m == SlugManual
}

var (
	// ErrUnknownField is returned for a field the schema does not define.
	ErrUnknownField = errors.New("unknown field")
	// ErrSharedField is returned when a language-independent field is set
	// for a single language. Such fields only change through ApplyAll.
	ErrSharedField = errors.New("field must be applied to all languages")
	// ErrUnknownLanguage is returned for an unsupported language code.
	ErrUnknownLanguage = errors.New("unknown language")
)

// Schema describes the fields of one kind of entity.
type Schema struct {
	Kind       string
	TitleField string
	SlugField  string
	// Fields maps every field to the section it is edited in.
	Fields map[string]Section
	// Shared fields must hold the same value in every language.
	Shared []string
}

func (s *Schema) isShared(field string) bool {
	for _, f := range s.Shared {
		if f == field {
			return true
		}
	}
	return false
}

// PostSchema is the field layout of blog post translations.
var PostSchema = &Schema{
	Kind:       "post",
	TitleField: "title",
	SlugField:  "slug",
	Fields: map[string]Section{
		"title":              SectionContent,
		"slug":               SectionContent,
		"excerpt":            SectionContent,
		"body":               SectionContent,
		"category_id":        SectionContent,
		"position":           SectionContent,
		"seo_title":          SectionSEO,
		"seo_description":    SectionSEO,
		"seo_keywords":       SectionSEO,
		"social_title":       SectionSocial,
		"social_description": SectionSocial,
	},
	Shared: []string{"category_id", "position"},
}

// Key identifies one field set inside a Draft.
type Key struct {
	Language models.Language
	Section  Section
}

// Edit is one change to a Draft. All applies Value to every language.
type Edit struct {
	Language models.Language `json:"language,omitempty"`
	Field    string          `json:"field"`
	Value    string          `json:"value"`
	All      bool            `json:"all,omitempty"`
}

// Gap is a required field that is still empty.
type Gap struct {
	Language models.Language `json:"language"`
	Field    string          `json:"field"`
}

// Draft is the shared editor state of one entity. It is safe for
// concurrent use.
type Draft struct {
	mu        sync.Mutex
	schema    *Schema
	entityID  uuid.UUID
	baseAt    time.Time
	values    map[Key]map[string]string
	slugModes map[models.Language]SlugMode
}

// NewDraft creates an empty draft for entityID. baseAt is the entity's
// updated_at when the draft was opened and is sent back on commit for the
// stale-write check. Slugs start in auto mode.
func NewDraft(schema *Schema, entityID uuid.UUID, baseAt time.Time) *Draft {
	d := &Draft{schema: schema, entityID: entityID, baseAt: baseAt}
	d.reset()
	return d
}

func (d *Draft) reset() {
	d.values = make(map[Key]map[string]string)
	d.slugModes = make(map[models.Language]SlugMode, len(models.Languages))
	for _, lang := range models.Languages {
		d.slugModes[lang] = SlugAuto
	}
}

// Reset clears every value and slug mode and rebinds the draft to
// entityID at version baseAt.
func (d *Draft) Reset(entityID uuid.UUID, baseAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entityID = entityID
	d.baseAt = baseAt
	d.reset()
}

// EntityID returns the id of the entity being edited.
func (d *Draft) EntityID() uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entityID
}

// BaseUpdatedAt returns the entity version the draft started from.
func (d *Draft) BaseUpdatedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.baseAt
}

func (d *Draft) checkField(lang models.Language, field string) (Section, error) {
	if !lang.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	section, ok := d.schema.Fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return section, nil
}

// set writes one value without any checks. Callers hold d.mu.
func (d *Draft) set(lang models.Language, section Section, field, value string) {
	k := Key{lang, section}
	m := d.values[k]
	if m == nil {
		m = make(map[string]string)
		d.values[k] = m
	}
	m[field] = value
}

func (d *Draft) get(lang models.Language, field string) string {
	return d.values[Key{lang, d.schema.Fields[field]}][field]
}

// apply performs one edit after validation. An All edit follows the same
// title and slug rules in every language. Callers hold d.mu.
func (d *Draft) apply(e Edit) {
	langs := []models.Language{e.Language}
	if e.All {
		langs = models.Languages
	}

	section := d.schema.Fields[e.Field]
	for _, lang := range langs {
		d.set(lang, section, e.Field, e.Value)
		switch e.Field {
		case d.schema.TitleField:
			if d.slugModes[lang] == SlugAuto {
				d.set(lang, d.schema.Fields[d.schema.SlugField], d.schema.SlugField, slug.Generate(e.Value))
			}
		case d.schema.SlugField:
			d.slugModes[lang] = SlugManual
		}
	}
}

func (d *Draft) check(e Edit) error {
	if e.All {
		if _, ok := d.schema.Fields[e.Field]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, e.Field)
		}
		return nil
	}
	if _, err := d.checkField(e.Language, e.Field); err != nil {
		return err
	}
	if d.schema.isShared(e.Field) {
		return fmt.Errorf("%w: %q", ErrSharedField, e.Field)
	}
	return nil
}

// Set changes one field in one language. Setting the title recomputes the
// slug while that language is in auto mode; setting the slug switches the
// language to manual mode.
func (d *Draft) Set(lang models.Language, field, value string) error {
	return d.Apply([]Edit{{Language: lang, Field: field, Value: value}})
}

// ApplyAll writes value into field for every language in one step.
func (d *Draft) ApplyAll(field, value string) error {
	return d.Apply([]Edit{{Field: field, Value: value, All: true}})
}

// Apply performs a batch of edits. Every edit is checked first; if any is
// invalid nothing is changed.
func (d *Draft) Apply(edits []Edit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range edits {
		if err := d.check(e); err != nil {
			return err
		}
	}
	for _, e := range edits {
		d.apply(e)
	}
	return nil
}

// Load seeds one language from stored values without touching slug modes.
func (d *Draft) Load(lang models.Language, values map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for field := range values {
		if _, err := d.checkField(lang, field); err != nil {
			return err
		}
	}
	for field, v := range values {
		d.set(lang, d.schema.Fields[field], field, v)
	}
	return nil
}

// SetSlugMode switches a language between auto and manual slugs. Going back
// to auto recomputes the slug from the current title.
func (d *Draft) SetSlugMode(lang models.Language, mode SlugMode) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid slug mode %q", mode)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.slugModes[lang] = mode
	if mode == SlugAuto {
		title := d.get(lang, d.schema.TitleField)
		d.set(lang, d.schema.Fields[d.schema.SlugField], d.schema.SlugField, slug.Generate(title))
	}
	return nil
}

// SlugMode returns the slug mode of a language.
func (d *Draft) SlugMode(lang models.Language) SlugMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.slugModes[lang]
}

// Get returns one field value, or "" if it was never set.
func (d *Draft) Get(lang models.Language, field string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.get(lang, field)
}

// Values returns a copy of every field of one language.
func (d *Draft) Values(lang models.Language) map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]string, len(d.schema.Fields))
	for field := range d.schema.Fields {
		out[field] = d.get(lang, field)
	}
	return out
}

// Section returns a copy of one section of one language.
func (d *Draft) Section(lang models.Language, section Section) map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]string)
	for field, s := range d.schema.Fields {
		if s == section {
			out[field] = d.get(lang, field)
		}
	}
	return out
}

// Missing lists the required fields that are blank, in language order and
// then field order.
func (d *Draft) Missing(required ...string) []Gap {
	d.mu.Lock()
	defer d.mu.Unlock()

	fields := append([]string(nil), required...)
	sort.Strings(fields)
	gaps := []Gap{}
	for _, lang := range models.Languages {
		for _, f := range fields {
			if strings.TrimSpace(d.get(lang, f)) == "" {
				gaps = append(gaps, Gap{Language: lang, Field: f})
			}
		}
	}
	return gaps
}

// draftJSON is the stored form of a Draft.
type draftJSON struct {
	Kind      string                                            `json:"kind"`
	EntityID  uuid.UUID                                         `json:"entity_id"`
	BaseAt    time.Time                                         `json:"base_updated_at"`
	Languages map[models.Language]map[Section]map[string]string `json:"languages"`
	SlugModes map[models.Language]SlugMode                      `json:"slug_modes"`
}

// MarshalJSON encodes the draft grouped by language and section.
func (d *Draft) MarshalJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := draftJSON{
		Kind:      d.schema.Kind,
		EntityID:  d.entityID,
		BaseAt:    d.baseAt,
		Languages: make(map[models.Language]map[Section]map[string]string, len(models.Languages)),
		SlugModes: d.slugModes,
	}
	for _, lang := range models.Languages {
		sections := make(map[Section]map[string]string)
		for field, s := range d.schema.Fields {
			if sections[s] == nil {
				sections[s] = make(map[string]string)
			}
			sections[s][field] = d.get(lang, field)
		}
		out.Languages[lang] = sections
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the draft's state. The draft must already carry a
// schema (see NewDraft); stored values for fields the schema no longer
// defines are dropped.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var in draftJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.schema == nil {
		return errors.New("translation: draft has no schema")
	}
	if in.Kind != d.schema.Kind {
		return fmt.Errorf("translation: stored draft is a %q, not a %q", in.Kind, d.schema.Kind)
	}

	d.reset()
	d.entityID = in.EntityID
	d.baseAt = in.BaseAt
	for lang, sections := range in.Languages {
		if !lang.Valid() {
			continue
		}
		for _, fields := range sections {
			for field, v := range fields {
				if s, ok := d.schema.Fields[field]; ok {
					d.set(lang, s, field, v)
				}
			}
		}
	}
	for lang, mode := range in.SlugModes {
		if lang.Valid() && mode.Valid() {
			d.slugModes[lang] = mode
		}
	}
	return nil
}

// DraftKey is the storage key of a user's draft for one entity.
func DraftKey(kind string, entityID, userID uuid.UUID) string {
	return kind + ":" + entityID.String() + ":" + userID.String()
}
