package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a tagged cache with TTL and size-based eviction.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	tags    map[string]map[string]struct{}
	gens    map[string]uint64
	lru     *list.List
	now     func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	tags      []string
	expiresAt time.Time
}

// NewLRUCache creates a new LRU cache with TTL.
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		tags:    make(map[string]map[string]struct{}),
		gens:    make(map[string]uint64),
		lru:     list.New(),
		now:     time.Now,
	}
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

// Set stores data under key, replacing any previous entry and its tags.
func (c *LRUCache[T]) Set(key string, data T, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, data, tags)
}

// Generation returns the summed invalidation counters of tags.
func (c *LRUCache[T]) Generation(tags ...string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(tags)
}

func (c *LRUCache[T]) SetAt(gen uint64, key string, data T, tags ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation(tags) != gen {
		return false
	}
	c.set(key, data, tags)
	return true
}

func (c *LRUCache[T]) generation(tags []string) uint64 {
	var sum uint64
	for _, tag := range tags {
		sum += c.gens[tag]
	}
	return sum
}

func (c *LRUCache[T]) set(key string, data T, tags []string) {
	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		tags:      append([]string(nil), tags...),
		expiresAt: c.now().Add(c.ttl),
	}
	c.items[key] = c.lru.PushFront(item)
	for _, tag := range item.tags {
		keys, ok := c.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}

	for c.lru.Len() > c.maxSize {
		c.removeElement(c.lru.Back())
	}
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

func (c *LRUCache[T]) InvalidateTag(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[tag]++
	keys := c.tags[tag]
	n := 0
	for key := range keys {
		if elem, ok := c.items[key]; ok {
			c.removeElement(elem)
			n++
		}
	}
	delete(c.tags, tag)
	return n
}

func (c *LRUCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	for _, tag := range item.tags {
		if keys, ok := c.tags[tag]; ok {
			delete(keys, item.key)
			if len(keys) == 0 {
				delete(c.tags, tag)
			}
		}
	}
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries and returns how many were removed.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
