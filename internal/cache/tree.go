// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	treeKeyPrefix       = "tree:"
	treeGenerationInfix = "gen:"

	// DefaultTreeTTL bounds how stale a cached tree can get if an
	// invalidation is ever missed.
	DefaultTreeTTL = 10 * time.Minute
)

var errStaleTree = errors.New("tree generation changed")

// TreeCache stores serialized category trees, one entry per taxonomy.
// Errors are logged and treated as misses; the database stays the source
// of truth.
//
// Each taxonomy also has a generation counter that Invalidate bumps. A
// loader reads the generation before querying the database and passes it
// to Set, which refuses to write once the generation has moved on. A tree
// read before a write committed can therefore never outlive that write's
// invalidation.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl <= 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get returns the cached tree for a taxonomy.
func (c *TreeCache) Get(ctx context.Context, taxonomy string) ([]byte, bool) {
	val, err := c.client.Get(ctx, treeKeyPrefix+taxonomy).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "taxonomy", taxonomy, "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit", "taxonomy", taxonomy)
	return val, true
}

// Generation returns the invalidation counter of a taxonomy. ok is false
// when Valkey cannot be read; callers should then skip Set.
func (c *TreeCache) Generation(ctx context.Context, taxonomy string) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey(taxonomy)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("tree cache generation error", "taxonomy", taxonomy, "error", err)
		return 0, false
	}
	return gen, true
}

// Set stores a serialized tree with the configured TTL, unless the
// taxonomy was invalidated after gen was read.
func (c *TreeCache) Set(ctx context.Context, taxonomy string, gen int64, data []byte) {
	genKey := generationKey(taxonomy)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleTree
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, treeKeyPrefix+taxonomy, data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleTree), errors.Is(err, redis.TxFailedErr):
		slog.Debug("tree cache set skipped, invalidated during load", "taxonomy", taxonomy)
	default:
		slog.Warn("tree cache set error", "taxonomy", taxonomy, "error", err)
	}
}

// Invalidate drops the cached tree of a taxonomy and bumps its generation.
func (c *TreeCache) Invalidate(ctx context.Context, taxonomy string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, treeKeyPrefix+taxonomy)
		pipe.Incr(ctx, generationKey(taxonomy))
		return nil
	})
	if err != nil {
		slog.Warn("tree cache invalidate error", "taxonomy", taxonomy, "error", err)
		return
	}
	slog.Debug("tree cache invalidated", "taxonomy", taxonomy)
}

func generationKey(taxonomy string) string {
	return treeKeyPrefix + treeGenerationInfix + taxonomy
}
