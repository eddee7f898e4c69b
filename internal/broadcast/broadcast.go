// Package broadcast notifies running gateway instances that the product
// catalog changed. Admin writes publish; subscribers refresh their caches.
package broadcast

import (
	"context"
	"sync"
)

// Broadcaster publishes and subscribes to catalog-updated events.
// The event carries no payload: subscribers re-read the catalog instead of
// applying deltas, so a lost message costs only freshness, never
// correctness.
type Broadcaster interface {
	// NotifyCatalogUpdated publishes a catalog-updated event.
	NotifyCatalogUpdated(ctx context.Context) error

	// OnCatalogUpdated registers fn to run on each event. fn must be
	// fast or spawn its own goroutine.
	OnCatalogUpdated(fn func()) error

	// Close releases the underlying connection.
	Close() error
}

// Local is an in-process Broadcaster for single-instance deployments and
// tests. Events never leave the process.
type Local struct {
	mu   sync.RWMutex
	subs []func()
}

// NewLocal returns an in-process broadcaster.
func NewLocal() *Local {
	return &Local{}
}

// NotifyCatalogUpdated implements Broadcaster.
func (l *Local) NotifyCatalogUpdated(ctx context.Context) error {
	l.mu.RLock()
	subs := l.subs
	l.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
	return nil
}

// OnCatalogUpdated implements Broadcaster.
func (l *Local) OnCatalogUpdated(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
	return nil
}

// Close implements Broadcaster.
func (l *Local) Close() error { return nil }

var _ Broadcaster = (*Local)(nil)
