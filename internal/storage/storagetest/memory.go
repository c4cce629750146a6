// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storagetest provides an in-memory ObjectStore for tests.
package storagetest

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

const baseURL = "https://cdn.test/"

// Memory is an in-memory storage.ObjectStore. PutErr and RemoveErr, when
// set, are returned by every Put or Remove call.
type Memory struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	Removed   []string
	PutErr    error
	RemoveErr error
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}, types: map[string]string{}}
}

// Put stores body under key.
func (m *Memory) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if m.PutErr != nil {
		return "", m.PutErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("storagetest: size mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return m.URL(key), nil
}

// Remove deletes key. Missing keys are not an error.
func (m *Memory) Remove(ctx context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	m.Removed = append(m.Removed, key)
	return nil
}

// URL returns the public URL of key.
func (m *Memory) URL(key string) string {
	return baseURL + key
}

// KeyFromURL reverses URL.
func (m *Memory) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, baseURL) {
		return "", false
	}
	return rawURL[len(baseURL):], true
}

// Keys lists the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContentType returns the type key was stored with.
func (m *Memory) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[key]
}

// Has reports whether key is stored.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
