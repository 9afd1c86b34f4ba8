package bus

import (
	"sync"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/measurement"
)

// MessageCache holds the most recently received payload of type T and the
// timestamp it arrived, answering a stale/fresh Measurement query without
// the caller blocking on the transport. Read as Option<Measurement>: the
// zero-value cache has never been updated.
type MessageCache[T any] struct {
	mu      sync.Mutex
	updated bool
	latest  measurement.Measurement[T]
}

// NewMessageCache constructs an empty cache.
func NewMessageCache[T any]() *MessageCache[T] {
	return &MessageCache[T]{}
}

// Update stores value with the current time as its arrival timestamp.
func (c *MessageCache[T]) Update(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = measurement.New(value)
	c.updated = true
}

// Get returns the cached measurement and whether the cache has ever been
// updated. A false second return means "None" — no payload has arrived
// yet and the zero-value T should not be trusted.
func (c *MessageCache[T]) Get() (measurement.Measurement[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.updated
}

// Age returns how long ago the cached value arrived. Meaningless (and
// reports as 0) if the cache has never been updated; check Get's second
// return first.
func (c *MessageCache[T]) Age() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.updated {
		return 0
	}
	return c.latest.Age()
}

// Stale reports whether the cached value is older than maxAge, or has
// never arrived at all (treated as stale by definition).
func (c *MessageCache[T]) Stale(maxAge time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.updated {
		return true
	}
	return c.latest.IsStale(maxAge)
}
