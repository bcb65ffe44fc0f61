// Package lru provides a generic capacity-bounded memoization cache.
//
// It is a thin wrapper over hashicorp/golang-lru that fixes the eviction
// policy and hides the callback surface the underlying library exposes.
// Instances are NOT safe for concurrent use across generation runs by
// design: every generation run owns its own caches.
package lru

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 256

// Cache is a capacity-bounded LRU cache from K to V.
type Cache[K comparable, V any] struct {
	inner *lru.Cache[K, V]
}

// New creates a cache bounded to the given capacity.
// A non-positive capacity falls back to DefaultCapacity.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for non-positive sizes, which we just excluded.
	inner, err := lru.New[K, V](capacity)
	if err != nil {
		panic(err)
	}
	return &Cache[K, V]{inner: inner}
}

// Get returns the cached value for key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.inner.Get(key)
}

// Add stores value under key, evicting the least recently used entry
// when the cache is at capacity.
func (c *Cache[K, V]) Add(key K, value V) {
	c.inner.Add(key, value)
}

// GetOrCompute returns the cached value for key, computing and storing it
// via fn on a miss.
func (c *Cache[K, V]) GetOrCompute(key K, fn func() V) V {
	if v, ok := c.inner.Get(key); ok {
		return v
	}
	v := fn()
	c.inner.Add(key, v)
	return v
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.inner.Len()
}

// Purge removes all entries.
func (c *Cache[K, V]) Purge() {
	c.inner.Purge()
}
