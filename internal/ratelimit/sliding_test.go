package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewSlidingWindow(3, 5*time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4|a@x.com"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("1.2.3.4|a@x.com"), "4th request within the window must be rejected")

	// A different key is unaffected.
	assert.True(t, l.Allow("1.2.3.4|b@x.com"))
}

func TestSlidingWindowElapses(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewSlidingWindow(3, 5*time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("k"))
	}
	assert.False(t, l.Allow("k"))

	// Just before the first timestamp leaves the window: still full.
	now = now.Add(5*time.Minute - time.Second)
	assert.False(t, l.Allow("k"))

	// Once the window has elapsed the key is usable again.
	now = now.Add(2 * time.Second)
	assert.True(t, l.Allow("k"))
}

func TestSlidingWindowSlides(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewSlidingWindow(3, 5*time.Minute)
	l.now = func() time.Time { return now }

	// Requests at t+0, t+2m, t+4m fill the window.
	assert.True(t, l.Allow("k"))
	now = base.Add(2 * time.Minute)
	assert.True(t, l.Allow("k"))
	now = base.Add(4 * time.Minute)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	// At t+5m1s the first timestamp has slid out; exactly one slot opens.
	now = base.Add(5*time.Minute + time.Second)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestSlidingWindowSweepsStaleKeys(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewSlidingWindow(3, 5*time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4|a@x.com"))
	assert.True(t, l.Allow("1.2.3.4|b@x.com"))
	assert.Len(t, l.hits, 2)

	// Once a full window has passed, touching any key drops every key whose
	// entries have all aged out, not just the touched one.
	now = base.Add(5*time.Minute + time.Second)
	assert.True(t, l.Allow("5.6.7.8|c@x.com"))
	assert.Len(t, l.hits, 1)
	_, ok := l.hits["5.6.7.8|c@x.com"]
	assert.True(t, ok)
}

func TestSlidingWindowConcurrent(t *testing.T) {
	l := NewSlidingWindow(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
