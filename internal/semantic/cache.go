package semantic

import (
	"container/list"
	"strconv"
	"sync"
)

// ResultCache is a bounded LRU cache of semantic search results keyed by the
// literal query string and k. It caches document ids, not documents, so a
// stale snapshot can never leak documents across rebuilds. Invalidate must be
// called whenever the catalog is rebuilt.
type ResultCache struct {
	capacity int
	entries  map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type resultEntry struct {
	key string
	ids []string
}

// NewResultCache creates a result cache holding up to capacity entries.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

func cacheKey(query string, k int) string {
	return query + "\x00" + strconv.Itoa(k)
}

// Get returns the cached result ids for (query, k) if present.
func (c *ResultCache) Get(query string, k int) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[cacheKey(query, k)]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*resultEntry).ids, true
	}
	return nil, false
}

// Set stores the result ids for (query, k), evicting the least recently used
// entry when at capacity.
func (c *ResultCache) Set(query string, k int, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(query, k)
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*resultEntry).ids = ids
		return
	}
	elem := c.lru.PushFront(&resultEntry{key: key, ids: ids})
	c.entries[key] = elem
	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*resultEntry).key)
		}
	}
}

// Invalidate discards all cached results.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
