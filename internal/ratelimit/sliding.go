package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow bounds the frequency of an operation per key by keeping the
// timestamps of recent requests. State is in-process only; a restart clears
// it, which is acceptable for the low-volume security-sensitive actions it
// guards (password reset requests).
type SlidingWindow struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	hits      map[string][]time.Time
	now       func() time.Time
	lastSweep time.Time
}

func NewSlidingWindow(max int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		max:    max,
		window: window,
		hits:   map[string][]time.Time{},
		now:    time.Now,
	}
}

// Allow reports whether a request for key is permitted now, recording it if
// so. Timestamps older than the window are discarded first.
func (l *SlidingWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Keys the caller never touches again would otherwise pin their slices
	// forever; sweep the whole table at most once per window.
	if now.Sub(l.lastSweep) > l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// sweep drops every key whose newest timestamp predates the cutoff. Slices
// are appended in time order, so the last element is the newest.
func (l *SlidingWindow) sweep(cutoff time.Time) {
	for key, stamps := range l.hits {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}
