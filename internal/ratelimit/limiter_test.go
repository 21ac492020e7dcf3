package ratelimit_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/masteryhouse/mastery-house-api/internal/ratelimit"
)

func TestFixedWindow_AllowsUpToMax(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(3, time.Hour)

	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.True(t, limiter.Allow("203.0.113.7"))
	assert.False(t, limiter.Allow("203.0.113.7"), "fourth request in the window must be denied")
	assert.False(t, limiter.Allow("203.0.113.7"), "denied requests must not extend or reopen the window")
}

func TestFixedWindow_IdentifiersAreIndependent(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("203.0.113.7"))
	}
	assert.False(t, limiter.Allow("203.0.113.7"))

	// A different client still has its full budget.
	assert.True(t, limiter.Allow("198.51.100.2"))
}

func TestFixedWindow_FreshWindowAfterExpiry(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(2, 50*time.Millisecond)

	assert.True(t, limiter.Allow("client"))
	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))

	time.Sleep(80 * time.Millisecond)

	assert.True(t, limiter.Allow("client"), "expired window must reset the count")
	assert.True(t, limiter.Allow("client"))
	assert.False(t, limiter.Allow("client"))
}

func TestFixedWindow_DeniedRequestsDoNotCount(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(1, 50*time.Millisecond)

	assert.True(t, limiter.Allow("client"))
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.Allow("client"))
	}

	time.Sleep(80 * time.Millisecond)
	assert.True(t, limiter.Allow("client"))
}

func TestFixedWindow_ConcurrentRequests(t *testing.T) {
	const (
		max     = 3
		workers = 50
	)
	limiter := ratelimit.NewFixedWindow(max, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, max, allowed, "exactly max requests may win under contention")
}

func TestFixedWindow_ManyIdentifiers(t *testing.T) {
	limiter := ratelimit.NewFixedWindow(3, time.Hour)

	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("10.0.0.%d", i)
		assert.True(t, limiter.Allow(id))
	}
}
