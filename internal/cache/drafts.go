// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	draftKeyPrefix = "draft:"

	// DefaultDraftTTL is how long an untouched draft survives.
	DefaultDraftTTL = 12 * time.Hour

	draftUpdateAttempts = 5
)

// ErrDraftBusy is returned by Update when the draft kept changing under
// it for every attempt.
var ErrDraftBusy = errors.New("draft is being edited concurrently")

// DraftStore keeps in-progress editor drafts as JSON. Unlike the tree
// cache, errors are returned: losing a draft silently loses user work.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore creates a draft store backed by the given Valkey client.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Load decodes the draft stored under key into v. It reports false when
// there is no such draft.
func (s *DraftStore) Load(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("draft get: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("draft unmarshal: %w", err)
	}
	return true, nil
}

// Delete discards the draft stored under key.
func (s *DraftStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("draft delete: %w", err)
	}
	return nil
}

// Update runs a watched read-modify-write on the draft under key. The
// stored draft, if any, is decoded into v and fn is called with whether it
// existed; v is then written back. If another writer touches the key in
// between, the whole cycle is retried, so fn must be safe to repeat and v
// must replace its state when decoded.
func (s *DraftStore) Update(ctx context.Context, key string, v any, fn func(exists bool) error) error {
	full := draftKeyPrefix + key
	txf := func(tx *redis.Tx) error {
		exists := true
		data, err := tx.Get(ctx, full).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			exists = false
		case err != nil:
			return fmt.Errorf("draft get: %w", err)
		default:
			if err := json.Unmarshal(data, v); err != nil {
				return fmt.Errorf("draft unmarshal: %w", err)
			}
		}

		if err := fn(exists); err != nil {
			return err
		}

		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("draft marshal: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, out, s.ttl)
			return nil
		})
		return err
	}

	for range draftUpdateAttempts {
		err := s.client.Watch(ctx, txf, full)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrDraftBusy
}
