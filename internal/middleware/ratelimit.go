// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"legaldir/internal/render"
)

// KeyFunc names the client a request is counted against.
type KeyFunc func(r *http.Request) string

// limiterEntry tracks request timestamps for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter provides per-client rate limiting using a sliding window. It
// guards the login and 2FA endpoints against guessing.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int           // max requests per window
	window  time.Duration // sliding window duration
	key     KeyFunc
	stopCh  chan struct{}
}

// NewRateLimiter creates a rate limiter that allows limit requests per window
// for each key. A nil key counts requests per socket peer (RemoteIP).
// It starts a background goroutine to clean up expired entries.
func NewRateLimiter(limit int, window time.Duration, key KeyFunc) *RateLimiter {
	if key == nil {
		key = RemoteIP
	}
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		key:     key,
		stopCh:  make(chan struct{}),
	}

	// Periodic cleanup of expired entries every 5 minutes.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// entry returns the tracker for key, creating it on first use.
func (rl *RateLimiter) entry(key string) *limiterEntry {
	rl.mu.RLock()
	e, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return e
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if e, ok = rl.clients[key]; !ok {
		e = &limiterEntry{}
		rl.clients[key] = e
	}
	return e
}

// reserve records an attempt at now and returns 0, or returns how long the
// client must wait before the oldest attempt leaves the window.
func (rl *RateLimiter) reserve(key string, now time.Time) time.Duration {
	e := rl.entry(key)
	cutoff := now.Add(-rl.window)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Timestamps are appended in order, so expired ones form a prefix.
	i := 0
	for i < len(e.timestamps) && !e.timestamps[i].After(cutoff) {
		i++
	}
	e.timestamps = e.timestamps[i:]

	if len(e.timestamps) >= rl.limit {
		return e.timestamps[0].Add(rl.window).Sub(now)
	}
	e.timestamps = append(e.timestamps, now)
	return 0
}

// cleanup removes entries with no recent activity.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		entry.mu.Lock()
		n := len(entry.timestamps)
		stale := n == 0 || !entry.timestamps[n-1].After(cutoff)
		entry.mu.Unlock()

		if stale {
			delete(rl.clients, key)
		}
	}
}

// Middleware returns an HTTP middleware that rejects over-limit requests
// with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wait := rl.reserve(rl.key(r), time.Now()); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			render.Message(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RemoteIP keys on the address of the socket peer. Forwarding headers are
// ignored since any client can set them.
func RemoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ForwardedIP keys on the client address reported by trusted reverse
// proxies. X-Forwarded-For is only read when the socket peer is trusted,
// and is walked from the right: the first hop outside the trusted ranges
// is the client. Hops left of it are client-supplied and never used.
func ForwardedIP(trusted []netip.Prefix) KeyFunc {
	isTrusted := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		client := RemoteIP(r)
		peer, err := netip.ParseAddr(client)
		if err != nil || !isTrusted(peer) {
			return client
		}

		hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			client = hop.Unmap().String()
			if !isTrusted(hop) {
				break
			}
		}
		return client
	}
}

// SessionUser keys on the signed-in user, falling back to the socket peer
// for anonymous requests. Mount it after LoadSession.
func SessionUser(r *http.Request) string {
	if sess := SessionFromCtx(r.Context()); sess != nil && sess.UserID != uuid.Nil {
		return "user:" + sess.UserID.String()
	}
	return "ip:" + RemoteIP(r)
}
