// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"legaldir/internal/render"
	"legaldir/internal/store"
)

const (
	defaultChangesPage = 50
	maxChangesPage     = 500
)

// ChangeFeed lists recorded content changes. *store.CacheLogStore
// implements it.
type ChangeFeed interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Changes serves the change log public pages rebuild from.
type Changes struct {
	feed ChangeFeed
}

// NewChanges creates the change log handler.
func NewChanges(feed ChangeFeed) *Changes {
	return &Changes{feed: feed}
}

// List returns the newest changes, at most ?limit= of them.
func (h *Changes) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultChangesPage)
	if limit <= 0 || limit > maxChangesPage {
		limit = defaultChangesPage
	}
	entries, err := h.feed.RecentEntries(r.Context(), limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	render.JSON(w, http.StatusOK, entries)
}
