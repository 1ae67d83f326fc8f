package cache

import (
	"sync"

	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
)

// DefaultQueryCacheSize is the capacity of the bounded query cache.
const DefaultQueryCacheSize = 32

// QueryCache is a thread-safe LRU of raw aggregate rows keyed by filter.
// It lives in memory only.
type QueryCache struct {
	maxEntries int
	metrics    *observability.Metrics
	mu         sync.Mutex
	entries    map[domain.FilterKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   domain.FilterKey
	value []domain.AggregateRow
	prev  *entry
	next  *entry
}

// NewQueryCache creates an LRU holding at most maxEntries filters.
// Non-positive sizes fall back to DefaultQueryCacheSize.
func NewQueryCache(maxEntries int, metrics *observability.Metrics) *QueryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultQueryCacheSize
	}
	return &QueryCache{
		maxEntries: maxEntries,
		metrics:    metrics,
		entries:    make(map[domain.FilterKey]*entry),
	}
}

// Get returns the rows cached for key and marks it most recently used.
func (c *QueryCache) Get(key domain.FilterKey) ([]domain.AggregateRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.metrics.CacheLookups.WithLabelValues("query", "miss").Inc()
		return nil, false
	}
	c.moveToFront(e)
	c.metrics.CacheLookups.WithLabelValues("query", "hit").Inc()
	return e.value, true
}

// Put stores rows under key as most recently used, evicting the least
// recently used key when over capacity.
func (c *QueryCache) Put(key domain.FilterKey, value []domain.AggregateRow) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of cached filters.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QueryCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *QueryCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *QueryCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *QueryCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
	c.metrics.CacheEvictions.Inc()
}
