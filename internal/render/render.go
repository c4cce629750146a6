// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes JSON responses for the admin API and maps domain
// errors to HTTP status codes.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"legaldir/internal/cache"
	"legaldir/internal/directory"
	"legaldir/internal/media"
	"legaldir/internal/store"
	"legaldir/internal/taxonomy"
	"legaldir/internal/validate"
)

// ErrConfirmationRequired is returned for destructive requests sent
// without ?confirm=true.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Committed []string          `json:"committed,omitempty"`
	Failed    string            `json:"failed,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Message writes an error body carrying only msg.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

// Status returns the HTTP status an error maps to.
func Status(err error) int {
	var verr *validate.Error
	var perr *directory.PartialError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.Is(err, taxonomy.ErrCycle):
		return http.StatusUnprocessableEntity
	case errors.As(err, &perr):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, cache.ErrDraftBusy):
		return http.StatusConflict
	case errors.Is(err, ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, media.ErrNoStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes err as JSON. Server-side failures are logged and answered
// with a generic message; client errors echo what went wrong.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	body := ErrorBody{Error: http.StatusText(status)}

	var verr *validate.Error
	var perr *directory.PartialError
	switch {
	case errors.As(err, &verr):
		body.Error = "validation failed"
		body.Fields = verr.Fields
	case errors.As(err, &perr):
		slog.Error("partial write", "method", r.Method, "path", r.URL.Path,
			"committed", perr.Committed, "failed", perr.Failed, "error", perr.Err)
		body.Error = "the change was only partly applied"
		body.Committed = perr.Committed
		body.Failed = perr.Failed
	case status >= http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	default:
		body.Error = err.Error()
	}

	JSON(w, status, body)
}
