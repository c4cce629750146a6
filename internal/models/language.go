// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"fmt"

	"golang.org/x/text/language"
)

// Language is a supported content language code.
type Language string

const (
	LangKA Language = "ka"
	LangEN Language = "en"
	LangRU Language = "ru"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = LangKA

// Languages lists every supported language in display order. Every
// translatable entity is complete only when it has a row for each of them.
var Languages = []Language{LangKA, LangEN, LangRU}

// matcher negotiates Accept-Language headers against the supported set.
// The order must match Languages.
var matcher = language.NewMatcher([]language.Tag{
	language.Georgian,
	language.English,
	language.Russian,
})

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LangKA, LangEN, LangRU:
		return true
	}
	return false
}

// Label returns the English display name of the language.
func (l Language) Label() string {
	switch l {
	case LangKA:
		return "Georgian"
	case LangEN:
		return "English"
	case LangRU:
		return "Russian"
	}
	return string(l)
}

// ParseLanguage validates a raw language code.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// NegotiateLanguage picks the best supported language for an
// Accept-Language header value. Falls back to DefaultLanguage.
func NegotiateLanguage(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	if idx < 0 || idx >= len(Languages) {
		return DefaultLanguage
	}
	return Languages[idx]
}

// Translations holds one value per language for a translatable entity.
type Translations[T any] map[Language]T

// Missing returns the languages whose translation is absent or for which
// empty reports true. The result follows Languages order.
func (t Translations[T]) Missing(empty func(T) bool) []Language {
	var missing []Language
	for _, l := range Languages {
		v, ok := t[l]
		if !ok || (empty != nil && empty(v)) {
			missing = append(missing, l)
		}
	}
	return missing
}

// Complete reports whether every supported language is present and non-empty.
func (t Translations[T]) Complete(empty func(T) bool) bool {
	return len(t.Missing(empty)) == 0
}
