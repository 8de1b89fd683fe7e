package httpapi

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// loginLimiter is a sliding-window counter per key. Idle keys expire from the
// cache after one window.
type loginLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries *cache.Cache
}

func newLoginLimiter() *loginLimiter {
	window := 5 * time.Minute
	return &loginLimiter{
		window:  window,
		max:     10,
		entries: cache.New(window, 2*window),
	}
}

func (l *loginLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	var ts []time.Time
	if v, ok := l.entries.Get(key); ok {
		ts = v.([]time.Time)
	}

	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	ts = kept
	if len(ts) >= l.max {
		l.entries.Set(key, ts, l.window)
		return false
	}

	ts = append(ts, now)
	l.entries.Set(key, ts, l.window)
	return true
}
