// Package cache holds hot session records in a bounded in-memory map
// so the reconcile loop and views don't hammer the store. Eviction is
// by access frequency, not recency: the rarely-read entry goes first,
// oldest insertion breaking ties. The cache is never a source of truth
// for concurrency decisions.
package cache

import (
	"sync"

	"github.com/arisanov/pomo/internal/models"
)

// DefaultCapacity is used when no capacity is configured.
const DefaultCapacity = 100

type entry struct {
	session     models.Session
	accessCount uint64
	insertedAt  uint64 // monotonic insertion sequence, tie-breaker
}

// Cache is a bounded sessionId → record map, safe for concurrent use.
// Lookups never block on anything but the mutex.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*entry

	seq    uint64
	hits   uint64
	misses uint64

	// generation bumps on every mutation; views memoize against it
	gen      uint64
	stats    *Stats
	statsGen uint64
}

// New returns a cache bounded to capacity entries. capacity <= 0 uses
// DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*entry),
	}
}

// Get returns a copy of the cached record and bumps its access count.
// A miss is counted; the caller is expected to fall through to the
// store and Put the result back.
func (c *Cache) Get(id string) (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		c.misses++
		return models.Session{}, false
	}
	c.hits++
	e.accessCount++
	return e.session, true
}

// Put upserts a record. Freshness and popularity are independent: an
// upsert of an existing id replaces the record but leaves its access
// count and insertion order untouched. Inserting past capacity evicts
// the least-accessed entry first.
func (c *Cache) Put(sess models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if e, ok := c.entries[sess.ID]; ok {
		e.session = sess
		return
	}

	c.seq++
	c.entries[sess.ID] = &entry{session: sess, insertedAt: c.seq}
	if len(c.entries) > c.capacity {
		c.evictLocked()
	}
}

// evictLocked removes the entry with the lowest access count, oldest
// insertion winning ties. Caller holds the mutex.
func (c *Cache) evictLocked() {
	var victim string
	var found bool
	var minCount, minSeq uint64
	for id, e := range c.entries {
		if !found || e.accessCount < minCount ||
			(e.accessCount == minCount && e.insertedAt < minSeq) {
			victim, found = id, true
			minCount, minSeq = e.accessCount, e.insertedAt
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

// Remove drops a single entry, if present.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		delete(c.entries, id)
		c.gen++
	}
}

// Clear resets the cache contents and the hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.hits = 0
	c.misses = 0
	c.gen++
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits and Misses expose the lookup counters since the last Clear.
func (c *Cache) Hits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

func (c *Cache) Misses() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}
