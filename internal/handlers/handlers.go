// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON admin API. Handlers decode the
// request, call one domain service and hand the result or error to the
// render package.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"legaldir/internal/media"
	"legaldir/internal/middleware"
	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/session"
	"legaldir/internal/store"
	"legaldir/internal/validate"
)

const (
	// maxJSONBody caps JSON request bodies. Post bodies are the largest.
	maxJSONBody = 2 << 20

	// multipartMemory is how much of a multipart form is kept in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20
)

// decode reads a JSON body into v. It writes a 400 and returns false when
// the body is malformed.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		render.Message(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// decodeString is decode for JSON carried in a multipart form field.
func decodeString(w http.ResponseWriter, data string, v any) bool {
	if err := json.Unmarshal([]byte(data), v); err != nil {
		render.Message(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A malformed id addresses nothing,
// so it is reported as not found.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id %q: %w", raw, store.ErrNotFound)
	}
	return id, nil
}

// confirmed checks the ?confirm=true flag destructive routes require.
func confirmed(r *http.Request) error {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !ok {
		return render.ErrConfirmationRequired
	}
	return nil
}

// currentSession returns the session loaded by the middleware chain.
// Routes behind RequireAuth always have one.
func currentSession(r *http.Request) *session.Data {
	return middleware.SessionFromCtx(r.Context())
}

// readUpload reads the named file of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (media.File, error) {
	f, ok, err := optionalUpload(w, r, field)
	if err != nil {
		return media.File{}, err
	}
	if !ok {
		return media.File{}, &validate.Error{Fields: map[string]string{field: "is required"}}
	}
	return f, nil
}

// optionalUpload is readUpload for forms where the file may be left out.
func optionalUpload(w http.ResponseWriter, r *http.Request, field string) (media.File, bool, error) {
	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return media.File{}, false, &validate.Error{Fields: map[string]string{
					field: fmt.Sprintf("must be at most %d MB", media.MaxUploadSize>>20),
				}}
			}
			return media.File{}, false, &validate.Error{Fields: map[string]string{field: "expected a multipart upload"}}
		}
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return media.File{}, false, nil
	}
	if err != nil {
		return media.File{}, false, fmt.Errorf("read upload %s: %w", field, err)
	}
	defer file.Close()

	// One byte over the limit is enough for DetectType to refuse it.
	data, err := io.ReadAll(io.LimitReader(file, media.MaxUploadSize+1))
	if err != nil {
		return media.File{}, false, fmt.Errorf("read upload %s: %w", field, err)
	}
	return media.File{Name: header.Filename, Data: data}, true, nil
}

// checkLanguages rejects translation keys outside ka/en/ru.
func checkLanguages[T any](tr models.Translations[T]) error {
	var v validate.Errors
	for lang := range tr {
		if !lang.Valid() {
			v.Add("translations."+string(lang), "is not a supported language")
		}
	}
	return v.Err()
}
