package utils

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value    T
	cachedAt time.Time
}

// Cache is a small in-process keyed cache with a fixed TTL. It backs the quote
// lookups so repeated requests within the TTL never hit the providers.
type Cache[T any] struct {
	entries map[string]cacheEntry[T]
	ttl     time.Duration
	mutex   sync.RWMutex
}

// NewCache initializes an empty cache whose entries expire after ttl.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
	}
}

// Set stores a value under key, resetting its expiration.
func (c *Cache[T]) Set(key string, value T) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry[T]{value: value, cachedAt: time.Now()}
}

// Get retrieves the cached value for key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.cachedAt) > c.ttl {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Delete removes key from the cache.
func (c *Cache[T]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}
