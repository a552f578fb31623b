package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MaxSessions bounds how many sessions keep in-memory state.
const MaxSessions = 10000

// Registry holds one value per session. Values idle for longer than the
// TTL, or pushed out by newer sessions, are released.
type Registry[T any] struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, T]
	newFn func(id string) T
}

// NewRegistry creates a registry. newFn builds a session's value on first
// use; release, if non-nil, is called when a value leaves the registry.
func NewRegistry[T any](size int, ttl time.Duration, newFn func(id string) T, release func(id string, v T)) *Registry[T] {
	if size <= 0 {
		size = MaxSessions
	}
	return &Registry[T]{
		cache: expirable.NewLRU[string, T](size, release, ttl),
		newFn: newFn,
	}
}

// Get returns the session's value, creating it if needed, and restarts its
// idle timer.
func (r *Registry[T]) Get(id string) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.cache.Get(id)
	if !ok {
		v = r.newFn(id)
	}
	r.cache.Add(id, v)
	return v
}

// Peek returns the session's value without creating or refreshing it.
func (r *Registry[T]) Peek(id string) (T, bool) {
	return r.cache.Peek(id)
}

// Set replaces the session's value.
func (r *Registry[T]) Set(id string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(id, v)
}

// Remove releases the session's value.
func (r *Registry[T]) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(id)
}

// Len is the number of live sessions.
func (r *Registry[T]) Len() int { return r.cache.Len() }

// Close releases every value.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Purge()
}
