// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"legaldir/internal/blog"
	"legaldir/internal/directory"
	"legaldir/internal/media"
	"legaldir/internal/middleware"
	"legaldir/internal/models"
	"legaldir/internal/render"
	"legaldir/internal/session"
	"legaldir/internal/store"
	"legaldir/internal/taxonomy"
)

// --------------------------------------------------------------------------
// Request helpers
// --------------------------------------------------------------------------

func testSession() *session.Data {
	return &session.Data{
		UserID:      uuid.New(),
		Email:       "admin@legaldir.local",
		DisplayName: "Admin",
		Role:        string(models.RoleSuperAdmin),
		TwoFADone:   true,
	}
}

// jsonRequest builds a request with body encoded as JSON. A string body is
// sent verbatim.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a multipart form with the given fields and, when
// fileField is set, one file.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// withSession attaches sess the way LoadSession does.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// withID sets the chi {id} URL parameter.
func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) render.ErrorBody {
	t.Helper()
	return decodeResponse[render.ErrorBody](t, rec)
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

// pngBytes is the signature of a PNG file, enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n0000000000")

// --------------------------------------------------------------------------
// Auth fakes
// --------------------------------------------------------------------------

type fakeUsers struct {
	byEmail  map[string]*models.User
	password string
	enabled  []uuid.UUID
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*models.User{}, password: "correct horse"}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	u, _ := f.FindByID(context.Background(), id)
	u.TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.enabled = append(f.enabled, id)
	u, _ := f.FindByID(context.Background(), id)
	u.TOTPEnabled = true
	return nil
}

func (f *fakeUsers) CheckPassword(_ *models.User, password string) bool {
	return password == f.password
}

type fakeSessions struct {
	created   *session.Data
	updated   *session.Data
	destroyed bool
}

func (f *fakeSessions) Create(_ context.Context, _ http.ResponseWriter, data *session.Data) (string, error) {
	f.created = data
	return "sid", nil
}

func (f *fakeSessions) Update(_ context.Context, _ *http.Request, data *session.Data) error {
	cp := *data
	f.updated = &cp
	return nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed = true
	return nil
}

// --------------------------------------------------------------------------
// Taxonomy fake
// --------------------------------------------------------------------------

type fakeTaxonomy struct {
	categories []models.Category
	err        error
	calls      []string
	input      taxonomy.Input
	moved      *uuid.UUID
	reordered  []uuid.UUID
}

func (f *fakeTaxonomy) Taxonomy() models.Taxonomy { return models.TaxonomyPractice }

func (f *fakeTaxonomy) Load(context.Context) (*taxonomy.Tree, error) {
	f.calls = append(f.calls, "load")
	if f.err != nil {
		return nil, f.err
	}
	return taxonomy.BuildTree(f.categories), nil
}

func (f *fakeTaxonomy) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.calls = append(f.calls, "get")
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTaxonomy) Create(_ context.Context, in taxonomy.Input) (*models.Category, error) {
	f.calls = append(f.calls, "create")
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: uuid.New(), ParentID: in.ParentID, Translations: in.Translations}, nil
}

func (f *fakeTaxonomy) Update(_ context.Context, id uuid.UUID, in taxonomy.Input) (*models.Category, error) {
	f.calls = append(f.calls, "update")
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: id, Translations: in.Translations}, nil
}

func (f *fakeTaxonomy) Delete(context.Context, uuid.UUID) error {
	f.calls = append(f.calls, "delete")
	return f.err
}

func (f *fakeTaxonomy) Move(_ context.Context, _ uuid.UUID, parentID *uuid.UUID) error {
	f.calls = append(f.calls, "move")
	f.moved = parentID
	return f.err
}

func (f *fakeTaxonomy) Reorder(_ context.Context, ids []uuid.UUID) error {
	f.calls = append(f.calls, "reorder")
	f.reordered = ids
	return f.err
}

// --------------------------------------------------------------------------
// Directory fakes
// --------------------------------------------------------------------------

type fakeProfiles struct {
	kind    models.ProfileKind
	err     error
	calls   []string
	query   string
	input   directory.ProfileInput
	company *uuid.UUID
	file    media.File
}

func (f *fakeProfiles) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeProfiles) Kind() models.ProfileKind { return f.kind }

func (f *fakeProfiles) List(_ context.Context, q string) ([]models.Profile, error) {
	f.query = q
	return []models.Profile{{ID: uuid.New(), Kind: f.kind}}, f.record("list")
}

func (f *fakeProfiles) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	return &models.Profile{ID: id, Kind: f.kind}, f.record("get")
}

func (f *fakeProfiles) Create(_ context.Context, in directory.ProfileInput) (*models.Profile, error) {
	f.input = in
	if err := f.record("create"); err != nil {
		return nil, err
	}
	return &models.Profile{ID: uuid.New(), Kind: f.kind, Status: models.StatusInactive, Translations: in.Translations}, nil
}

func (f *fakeProfiles) Update(_ context.Context, id uuid.UUID, in directory.ProfileInput) (*models.Profile, error) {
	f.input = in
	if err := f.record("update"); err != nil {
		return nil, err
	}
	return &models.Profile{ID: id, Kind: f.kind, Translations: in.Translations}, nil
}

func (f *fakeProfiles) ToggleStatus(context.Context, uuid.UUID) (models.Status, error) {
	return models.StatusActive, f.record("status")
}

func (f *fakeProfiles) ToggleBlock(context.Context, uuid.UUID) (bool, error) {
	return true, f.record("block")
}

func (f *fakeProfiles) SetCompany(_ context.Context, _ uuid.UUID, companyID *uuid.UUID) error {
	f.company = companyID
	return f.record("company")
}

func (f *fakeProfiles) Delete(context.Context, uuid.UUID) error {
	return f.record("delete")
}

func (f *fakeProfiles) SetImage(_ context.Context, _ uuid.UUID, file media.File) (string, error) {
	f.file = file
	return "https://cdn.test/logos/" + file.Name, f.record("image")
}

type fakeServices struct {
	err   error
	calls []string
	input directory.ServiceInput
	image *media.File
}

func (f *fakeServices) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeServices) List(context.Context, string) ([]models.Service, error) {
	return nil, f.record("list")
}

func (f *fakeServices) Get(_ context.Context, id uuid.UUID) (*models.Service, error) {
	return &models.Service{ID: id}, f.record("get")
}

func (f *fakeServices) Create(_ context.Context, in directory.ServiceInput, image *media.File) (*models.Service, error) {
	f.input, f.image = in, image
	if err := f.record("create"); err != nil {
		return nil, err
	}
	return &models.Service{ID: uuid.New(), ProfileID: in.ProfileID, Price: in.Price}, nil
}

func (f *fakeServices) Update(_ context.Context, id uuid.UUID, in directory.ServiceInput) (*models.Service, error) {
	f.input = in
	return &models.Service{ID: id}, f.record("update")
}

func (f *fakeServices) ToggleStatus(context.Context, uuid.UUID) (models.Status, error) {
	return models.StatusInactive, f.record("status")
}

func (f *fakeServices) SetImage(_ context.Context, _ uuid.UUID, file media.File) (string, error) {
	f.image = &file
	return "https://cdn.test/services/x.png", f.record("image")
}

func (f *fakeServices) Delete(context.Context, uuid.UUID) error {
	return f.record("delete")
}

// --------------------------------------------------------------------------
// Blog fake
// --------------------------------------------------------------------------

type fakePosts struct {
	err      error
	calls    []string
	input    blog.PostInput
	userID   uuid.UUID
	patch    blog.DraftPatch
	column   store.PostImageColumn
	category *uuid.UUID
}

func (f *fakePosts) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakePosts) List(context.Context, string) ([]models.Post, error) {
	return []models.Post{}, f.record("list")
}

func (f *fakePosts) Get(_ context.Context, id uuid.UUID) (*models.Post, error) {
	return &models.Post{ID: id}, f.record("get")
}

func (f *fakePosts) Create(_ context.Context, in blog.PostInput) (*models.Post, error) {
	f.input = in
	if err := f.record("create"); err != nil {
		return nil, err
	}
	return &models.Post{ID: uuid.New(), AuthorID: in.AuthorID, Status: models.PostStatusDraft}, nil
}

func (f *fakePosts) ToggleStatus(context.Context, uuid.UUID) (models.PostStatus, error) {
	return models.PostStatusPublished, f.record("status")
}

func (f *fakePosts) SetCategory(_ context.Context, id uuid.UUID, categoryID *uuid.UUID) (*models.Post, error) {
	f.category = categoryID
	return &models.Post{ID: id}, f.record("category")
}

func (f *fakePosts) Delete(context.Context, uuid.UUID) error {
	return f.record("delete")
}

func (f *fakePosts) SetImage(_ context.Context, _ uuid.UUID, column store.PostImageColumn, _ media.File) (string, error) {
	f.column = column
	return "https://cdn.test/" + string(column), f.record("image")
}

func (f *fakePosts) OpenDraft(_ context.Context, id, userID uuid.UUID) (*blog.DraftView, error) {
	f.userID = userID
	return &blog.DraftView{PostID: id}, f.record("open")
}

func (f *fakePosts) EditDraft(_ context.Context, id, userID uuid.UUID, patch blog.DraftPatch) (*blog.DraftView, error) {
	f.userID, f.patch = userID, patch
	if err := f.record("edit"); err != nil {
		return nil, err
	}
	return &blog.DraftView{PostID: id}, nil
}

func (f *fakePosts) CommitDraft(_ context.Context, id, userID uuid.UUID) (*models.Post, error) {
	f.userID = userID
	if err := f.record("commit"); err != nil {
		return nil, err
	}
	return &models.Post{ID: id}, nil
}

func (f *fakePosts) DiscardDraft(_ context.Context, _, userID uuid.UUID) error {
	f.userID = userID
	return f.record("discard")
}

// --------------------------------------------------------------------------
// Media fake
// --------------------------------------------------------------------------

type fakeLibrary struct {
	err           error
	limit, offset int
	uploaded      media.File
	altText       string
	uploader      uuid.UUID
	deleted       []uuid.UUID
}

func (f *fakeLibrary) Upload(_ context.Context, file media.File, altText string, uploaderID uuid.UUID) (*media.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded, f.altText, f.uploader = file, altText, uploaderID
	return &media.Item{URL: "https://cdn.test/library/" + file.Name}, nil
}

func (f *fakeLibrary) List(_ context.Context, limit, offset int) ([]media.Item, error) {
	f.limit, f.offset = limit, offset
	return []media.Item{}, f.err
}

func (f *fakeLibrary) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return f.err
}
