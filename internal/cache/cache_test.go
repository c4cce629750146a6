// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a client on DB 15, or skips if Valkey is down.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{treeKeyPrefix + "*", draftKeyPrefix + "*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	if _, err := ConnectValkey("127.0.0.1", "1", ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestTreeCacheSetGetInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, time.Minute)
	ctx := context.Background()

	if data, ok := tc.Get(ctx, "practices"); ok || data != nil {
		t.Fatal("expected cache miss")
	}

	gen, ok := tc.Generation(ctx, "practices")
	if !ok {
		t.Fatal("Generation: Valkey unreadable")
	}
	tree := []byte(`{"roots":[],"orphans":[]}`)
	tc.Set(ctx, "practices", gen, tree)

	data, ok := tc.Get(ctx, "practices")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(tree) {
		t.Errorf("data mismatch: got %q", data)
	}

	// Taxonomies are cached independently.
	if _, ok := tc.Get(ctx, "post-categories"); ok {
		t.Error("post-categories must not share the practices entry")
	}

	tc.Invalidate(ctx, "practices")
	if _, ok := tc.Get(ctx, "practices"); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestTreeCacheSkipsSetAfterInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, time.Minute)
	ctx := context.Background()

	// A load reads the generation, then a write invalidates before the
	// load gets to store its now outdated tree.
	before, _ := tc.Generation(ctx, "post-categories")
	tc.Invalidate(ctx, "post-categories")
	after, _ := tc.Generation(ctx, "post-categories")
	if after != before+1 {
		t.Fatalf("generation: got %d after %d, want one bump", after, before)
	}

	tc.Set(ctx, "post-categories", before, []byte(`{"roots":[{"id":"stale"}],"orphans":[]}`))
	if _, ok := tc.Get(ctx, "post-categories"); ok {
		t.Error("a tree loaded before the invalidation must not be stored")
	}

	tc.Set(ctx, "post-categories", after, []byte(`{"roots":[],"orphans":[]}`))
	if _, ok := tc.Get(ctx, "post-categories"); !ok {
		t.Error("a tree loaded at the current generation should be stored")
	}
}

func TestDefaultTTLs(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	if tc := NewTreeCache(client, 0); tc.ttl != DefaultTreeTTL {
		t.Errorf("tree ttl: got %v, want %v", tc.ttl, DefaultTreeTTL)
	}
	if ds := NewDraftStore(client, -time.Second); ds.ttl != DefaultDraftTTL {
		t.Errorf("draft ttl: got %v, want %v", ds.ttl, DefaultDraftTTL)
	}
}

func TestDraftStoreRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	ds := NewDraftStore(client, time.Minute)
	ctx := context.Background()

	type draft struct {
		Title map[string]string `json:"title"`
	}

	var got draft
	found, err := ds.Load(ctx, "post:1:2", &got)
	if err != nil || found {
		t.Fatalf("Load missing: found=%v err=%v", found, err)
	}

	var in draft
	err = ds.Update(ctx, "post:1:2", &in, func(exists bool) error {
		if exists {
			t.Error("draft should not exist yet")
		}
		in.Title = map[string]string{"ka": "სათაური", "en": "Title", "ru": "Заголовок"}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err = ds.Load(ctx, "post:1:2", &got)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if got.Title["ka"] != "სათაური" || got.Title["ru"] != "Заголовок" {
		t.Errorf("round trip lost data: %+v", got)
	}

	ttl, err := client.TTL(ctx, draftKeyPrefix+"post:1:2").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected TTL %v (err %v)", ttl, err)
	}

	if err := ds.Delete(ctx, "post:1:2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ = ds.Load(ctx, "post:1:2", &got)
	if found {
		t.Error("expected draft gone after Delete")
	}
}

func TestDraftStoreCorrupt(t *testing.T) {
	client := testValkeyClient(t)
	ds := NewDraftStore(client, time.Minute)
	ctx := context.Background()

	client.Set(ctx, draftKeyPrefix+"bad", "{not json", time.Minute)
	var v map[string]any
	if _, err := ds.Load(ctx, "bad", &v); err == nil {
		t.Error("expected error for corrupt draft")
	}
}

func TestDraftStoreUpdate(t *testing.T) {
	client := testValkeyClient(t)
	ds := NewDraftStore(client, time.Minute)
	ctx := context.Background()

	type counter struct {
		N int `json:"n"`
	}

	var c counter
	err := ds.Update(ctx, "post:counter", &c, func(exists bool) error {
		if exists {
			t.Error("draft should not exist yet")
		}
		c.N = 1
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	c = counter{}
	err = ds.Update(ctx, "post:counter", &c, func(exists bool) error {
		if !exists {
			t.Error("draft should exist")
		}
		c.N++
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got counter
	if _, err := ds.Load(ctx, "post:counter", &got); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.N != 2 {
		t.Errorf("N = %d, want 2", got.N)
	}
}

func TestDraftStoreUpdateAbort(t *testing.T) {
	client := testValkeyClient(t)
	ds := NewDraftStore(client, time.Minute)
	ctx := context.Background()

	var v map[string]string
	boom := errors.New("rejected")
	err := ds.Update(ctx, "post:abort", &v, func(bool) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	found, _ := ds.Load(ctx, "post:abort", &v)
	if found {
		t.Error("aborted update must not write")
	}
}
