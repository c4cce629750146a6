// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"legaldir/internal/render"
	"legaldir/internal/slug"
)

// SlugPreview returns the slug that would be generated from ?text=, so
// editors see it while typing a title.
func SlugPreview(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]string{"slug": slug.Generate(r.URL.Query().Get("text"))})
}
