// Package ratelimit implements fixed-window admission control for the public
// submission endpoints. The limiter is constructor-injected into the HTTP
// middleware so the in-memory store can be swapped for a shared backend
// without touching handler logic.
package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// sweepInterval bounds memory: the store's janitor deletes records whose
// window has already elapsed. Correctness never depends on the sweep because
// lookups treat expired records as absent.
const sweepInterval = 30 * time.Minute

// Limiter grants or denies one request for a client identifier.
type Limiter interface {
	Allow(identifier string) bool
}

// FixedWindow counts requests per identifier within a rolling window:
// the first request from an identifier (or the first after its window
// expired) opens a fresh window with count 1; further requests increment the
// count until maxRequests, after which they are denied without mutation.
//
// State is process-local and lost on restart; the limiter fails open across
// restarts and across concurrent server instances. That is acceptable for
// its actual guarantee, which is best-effort abuse deterrence.
type FixedWindow struct {
	mu          sync.Mutex
	store       *gocache.Cache
	maxRequests int
	window      time.Duration
}

// NewFixedWindow creates a limiter allowing maxRequests per window for each
// identifier.
func NewFixedWindow(maxRequests int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		store:       gocache.New(window, sweepInterval),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow reports whether the request is admitted. The check-and-increment is
// performed under a single lock so the decision stays atomic under parallel
// handler scheduling.
func (l *FixedWindow) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, found := l.store.Get(identifier)
	if !found {
		l.store.Set(identifier, 1, l.window)
		return true
	}

	if v.(int) >= l.maxRequests {
		return false
	}

	// IncrementInt keeps the record's original expiry, preserving the window
	// opened by the first request. The janitor may reap the record between
	// Get and IncrementInt; that is indistinguishable from a fresh window.
	if _, err := l.store.IncrementInt(identifier, 1); err != nil {
		l.store.Set(identifier, 1, l.window)
	}
	return true
}
