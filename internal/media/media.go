// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media uploads files to object storage and keeps the media
// library table in step with it.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/models"
	"legaldir/internal/storage"
	"legaldir/internal/validate"
)

// MaxUploadSize is the largest accepted file.
const MaxUploadSize = 20 << 20

// ErrNoStorage is returned when object storage is not configured.
var ErrNoStorage = errors.New("object storage is not configured")

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// Repository persists media rows. *store.MediaStore implements it.
type Repository interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	List(ctx context.Context, limit, offset int) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Media, error)
}

// File is an uploaded file held in memory.
type File struct {
	Name string
	Data []byte
}

// Item is a media row with its public URLs.
type Item struct {
	models.Media
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
	Size     string `json:"size"`
	IsImage  bool   `json:"is_image"`
}

// Service uploads and removes media. objects may be nil, in which case
// every upload fails with ErrNoStorage.
type Service struct {
	objects storage.ObjectStore
	repo    Repository
	now     func() time.Time
}

// NewService creates a media service.
func NewService(objects storage.ObjectStore, repo Repository) *Service {
	return &Service{objects: objects, repo: repo, now: time.Now}
}

// Enabled reports whether object storage is configured.
func (s *Service) Enabled() bool {
	return s.objects != nil
}

// DetectType sniffs the content type of f and checks it against the
// allowed list. Images only is enforced for entity image fields.
func DetectType(f File, imagesOnly bool) (string, error) {
	if len(f.Data) == 0 {
		return "", &validate.Error{Fields: map[string]string{"file": "is required"}}
	}
	if len(f.Data) > MaxUploadSize {
		return "", &validate.Error{Fields: map[string]string{"file": fmt.Sprintf("must be at most %d MB", MaxUploadSize>>20)}}
	}

	contentType := http.DetectContentType(f.Data)
	// DetectContentType reports SVG as XML or plain text.
	if strings.HasSuffix(strings.ToLower(f.Name), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	if !allowedTypes[contentType] || (imagesOnly && !strings.HasPrefix(contentType, "image/")) {
		return "", &validate.Error{Fields: map[string]string{"file": fmt.Sprintf("type %q is not allowed", contentType)}}
	}
	return contentType, nil
}

func (s *Service) objectKey(purpose models.MediaPurpose, id, ext string) string {
	now := s.now()
	return path.Join(string(purpose), fmt.Sprintf("%d/%02d", now.Year(), now.Month()), id+ext)
}

// Upload stores f in the media library. The thumbnail is best effort. If
// the row cannot be written, the uploaded objects are removed again.
func (s *Service) Upload(ctx context.Context, f File, altText string, uploaderID uuid.UUID) (*Item, error) {
	if s.objects == nil {
		return nil, ErrNoStorage
	}
	contentType, err := DetectType(f, false)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ext := extension(f.Name, contentType)
	key := s.objectKey(models.PurposeLibrary, id, ext)
	if _, err := s.objects.Put(ctx, key, contentType, bytes.NewReader(f.Data), int64(len(f.Data))); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	var thumbKey *string
	if thumbableTypes[contentType] {
		thumb, err := Thumbnail(f.Data, thumbMaxWidth)
		switch {
		case err != nil:
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		case thumb != nil:
			tk := s.objectKey(models.PurposeLibrary, id+"_thumb", ".jpg")
			if _, err := s.objects.Put(ctx, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	m := &models.Media{
		Purpose:      models.PurposeLibrary,
		Filename:     id + ext,
		OriginalName: f.Name,
		ContentType:  contentType,
		SizeBytes:    int64(len(f.Data)),
		S3Key:        key,
		ThumbS3Key:   thumbKey,
		UploaderID:   uploaderID,
	}
	if altText = strings.TrimSpace(altText); altText != "" {
		m.AltText = &altText
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		s.remove(ctx, key)
		if thumbKey != nil {
			s.remove(ctx, *thumbKey)
		}
		return nil, err
	}
	return s.item(created), nil
}

// List returns one page of the library, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Item, error) {
	rows, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(rows))
	for i := range rows {
		items[i] = *s.item(&rows[i])
	}
	return items, nil
}

// Delete removes the row first, then its objects. Object removal is best
// effort; a leftover object is only wasted space.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if s.objects == nil {
		return nil
	}
	s.remove(ctx, deleted.S3Key)
	if deleted.ThumbS3Key != nil {
		s.remove(ctx, *deleted.ThumbS3Key)
	}
	return nil
}

// ReplaceImage uploads f as the new image of an entity field and calls
// commit with its URL. If commit fails the new object is removed. Once
// commit succeeds, the previous object at oldURL is removed.
func (s *Service) ReplaceImage(ctx context.Context, purpose models.MediaPurpose, f File, oldURL *string, commit func(ctx context.Context, url string) error) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("unknown media purpose %q", purpose)
	}
	if s.objects == nil {
		return "", ErrNoStorage
	}
	contentType, err := DetectType(f, true)
	if err != nil {
		return "", err
	}

	key := s.objectKey(purpose, uuid.NewString(), extension(f.Name, contentType))
	url, err := s.objects.Put(ctx, key, contentType, bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", fmt.Errorf("upload %s image: %w", purpose, err)
	}

	if err := commit(ctx, url); err != nil {
		s.remove(ctx, key)
		return "", err
	}

	if oldURL != nil {
		if oldKey, ok := s.objects.KeyFromURL(*oldURL); ok && oldKey != key {
			s.remove(ctx, oldKey)
		}
	}
	return url, nil
}

// RemoveByURL removes the object behind a public URL, if it is ours.
func (s *Service) RemoveByURL(ctx context.Context, url *string) {
	if s.objects == nil || url == nil {
		return
	}
	if key, ok := s.objects.KeyFromURL(*url); ok {
		s.remove(ctx, key)
	}
}

func (s *Service) remove(ctx context.Context, key string) {
	if err := s.objects.Remove(ctx, key); err != nil {
		slog.Warn("object removal failed", "error", err, "key", key)
	}
}

func (s *Service) item(m *models.Media) *Item {
	it := &Item{Media: *m, Size: m.HumanSize(), IsImage: m.IsImage()}
	if s.objects != nil {
		it.URL = s.objects.URL(m.S3Key)
		if m.ThumbS3Key != nil {
			it.ThumbURL = s.objects.URL(*m.ThumbS3Key)
		}
	}
	return it
}

func extension(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
