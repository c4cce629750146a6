// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search implements the case-insensitive substring filter used by
// the admin list pages.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Query is a prepared search term.
type Query struct {
	folded string
}

// NewQuery folds q once so it can be matched against many rows.
func NewQuery(q string) Query {
	return Query{folded: fold(strings.TrimSpace(q))}
}

// Empty reports whether the query matches everything.
func (q Query) Empty() bool {
	return q.folded == ""
}

// Match reports whether any field contains the query, ignoring case.
func (q Query) Match(fields ...string) bool {
	if q.folded == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), q.folded) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose fields match q. fields returns the display
// fields of one item.
func Filter[T any](items []T, q Query, fields func(*T) []string) []T {
	if q.Empty() {
		return items
	}
	out := make([]T, 0, len(items))
	for i := range items {
		if q.Match(fields(&items[i])...) {
			out = append(out, items[i])
		}
	}
	return out
}

// fold uses a fresh Caser each time; a Caser is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
