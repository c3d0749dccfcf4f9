package httpapi

import (
	"sync"
	"time"
)

// Rate limit defaults for the agent API.
const (
	defaultRateLimit  = 120
	defaultRateWindow = 60 * time.Second
)

type rateBucket struct {
	windowStart time.Time
	count       int
}

// rateLimiter is a fixed-window counter keyed by client. A window starts on
// the first request and admits up to limit requests until it expires; the
// next request after expiry opens a fresh window.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*rateBucket
	now     func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

// allow records a request for key and reports whether it fits in the current
// window.
func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.buckets[key] = &rateBucket{windowStart: now, count: 1}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}
