// Package limiter provides a keyed fixed-window request counter. State is
// process-local and resets on restart; it protects a best-effort proxy, not a
// security boundary.
package limiter

import (
	"sync"
	"time"
)

type bucket struct {
	count int
	reset time.Time
}

// Fixed counts requests per key within a fixed window. A request at or over
// the cap is rejected without incrementing the counter.
type Fixed struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
	now     func() time.Time
}

func NewFixed(limit int, window time.Duration) *Fixed {
	return &Fixed{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether a request for key fits in the current window.
func (f *Fixed) Allow(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	b, ok := f.buckets[key]
	if !ok || now.After(b.reset) {
		f.buckets[key] = &bucket{count: 1, reset: now.Add(f.window)}
		return true
	}

	if b.count >= f.limit {
		return false
	}

	b.count++
	return true
}
