package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window counter keyed by caller identity. It guards
// the cron trigger against a misconfigured scheduler hammering the endpoint;
// it is not meant as general API rate limiting.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*callerWindow
}

type callerWindow struct {
	openedAt time.Time
	hits     int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*callerWindow),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.windows[key]
	if w == nil || now.Sub(w.openedAt) > r.window {
		r.prune(now)
		w = &callerWindow{openedAt: now}
		r.windows[key] = w
	}
	if w.hits >= r.limit {
		return false
	}
	w.hits++
	return true
}

// prune drops windows that closed long ago so one-off caller IPs do not
// accumulate. Called with the lock held.
func (r *rateLimiter) prune(now time.Time) {
	for key, w := range r.windows {
		if now.Sub(w.openedAt) > 2*r.window {
			delete(r.windows, key)
		}
	}
}
