package oui

import (
	"container/list"
	"sync"

	"github.com/lcalzada-xor/macoui/internal/core/domain"
)

// OUICache implements an LRU (Least Recently Used) cache for record lookups
type OUICache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
	hits     int64
	misses   int64
}

type cacheEntry struct {
	key   string
	value domain.Record
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64
	Misses int64
}

// NewOUICache creates a new LRU cache with the specified capacity
func NewOUICache(capacity int) *OUICache {
	if capacity < 1 {
		capacity = 1
	}
	return &OUICache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get retrieves a value from the cache.
// It takes the write lock because a hit reorders the LRU list.
func (c *OUICache) Get(key string) (domain.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		c.hits++
		return elem.Value.(*cacheEntry).value, true
	}
	c.misses++
	return domain.Record{}, false
}

// Set adds or updates a value in the cache
func (c *OUICache) Set(key string, value domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	entry := &cacheEntry{key, value}
	elem := c.lru.PushFront(entry)
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the current number of items in the cache
func (c *OUICache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns hit and miss counters
func (c *OUICache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses}
}

// Clear removes all items from the cache
func (c *OUICache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lru = list.New()
}
