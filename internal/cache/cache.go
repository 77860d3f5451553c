// Package cache is the Response Cache: a bounded LRU keyed by request
// fingerprint, with a soft per-kind TTL, a pinned-entry floor decided by a
// caller-supplied predicate, and in-flight deduplication so concurrent
// callers sharing a fingerprint collapse to one LLM call. The cache itself
// knows nothing about rooms: cmd/server passes a nil predicate, so no entry
// is pinned there and visited rooms can be evicted like any other entry.
//
// Built on container/list + map rather than a third-party LRU library:
// container/list is the standard idiom for a doubly-linked LRU in Go, and
// no dedicated LRU library is worth the dependency for a single bounded
// map.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
)

type entry struct {
	fingerprint string
	kind        llm.RequestKind
	value       string
	insertedAt  time.Time
	tags        map[string]bool
}

// Cache is safe for concurrent use — reads and writes both take the same
// mutex here since LRU touch-on-read mutates list order.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	ttl      map[llm.RequestKind]time.Duration
	isPinned func(fingerprint string) bool
	group    inflightGroup
}

// DefaultTTL is the soft TTL applied to any kind not named in the ttl map
// passed to New. A kind mapped to a TTL of zero or less never expires; such
// entries leave the cache only through LRU eviction or InvalidateTag.
const DefaultTTL = 10 * time.Minute

// New constructs a Cache with the given bounded capacity (entries, not
// bytes), a soft TTL per request kind, and a pin predicate consulted during
// eviction: a pinned fingerprint is skipped over rather than evicted, even
// if it is the least-recently-used entry.
func New(capacity int, ttlPerKind map[llm.RequestKind]time.Duration, isPinned func(fingerprint string) bool) *Cache {
	if isPinned == nil {
		isPinned = func(string) bool { return false }
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		ttl:      ttlPerKind,
		isPinned: isPinned,
	}
}

// Get returns the cached value for fingerprint, promoting it to
// most-recently-used. A soft-TTL-expired entry is reported as a miss but is
// not removed and not returned — Set will overwrite it on the next
// successful generation; if nothing calls Set again, the entry simply ages
// out of the LRU eventually.
func (c *Cache) Get(fingerprint string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[fingerprint]
	if !ok {
		return "", false
	}
	e := el.Value.(*entry)
	if c.expired(e) {
		return "", false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

func (c *Cache) expired(e *entry) bool {
	ttl, ok := c.ttl[e.kind]
	if !ok {
		ttl = DefaultTTL
	}
	if ttl <= 0 {
		return false
	}
	return time.Since(e.insertedAt) > ttl
}

// Set inserts or refreshes the cached value for fingerprint, evicting the
// least-recently-used unpinned entry if the cache is at capacity.
func (c *Cache) Set(fingerprint string, kind llm.RequestKind, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[fingerprint]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.insertedAt = time.Now()
		c.ll.MoveToFront(el)
		return
	}

	e := &entry{fingerprint: fingerprint, kind: kind, value: value, insertedAt: time.Now()}
	el := c.ll.PushFront(e)
	c.items[fingerprint] = el
	c.evictIfNeeded()
}

func (c *Cache) evictIfNeeded() {
	for c.capacity > 0 && len(c.items) > c.capacity {
		if !c.evictOneUnpinned() {
			return // everything remaining is pinned; exceed capacity rather than evict live state
		}
	}
}

// evictOneUnpinned walks from the LRU end forward looking for the first
// unpinned entry to evict, since the strict back-of-list entry may be a
// pinned room the World State Store still considers visited.
func (c *Cache) evictOneUnpinned() bool {
	for el := c.ll.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry)
		if c.isPinned(e.fingerprint) {
			continue
		}
		c.ll.Remove(el)
		delete(c.items, e.fingerprint)
		return true
	}
	return false
}

// Tag attaches an invalidation tag to an already-cached entry. Used by the
// session layer to mark NPC_DIALOGUE responses with the NPC's id so a later
// relationship-bucket or goal change can invalidate every cached line for
// that NPC in one call.
func (c *Cache) Tag(fingerprint, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[fingerprint]
	if !ok {
		return
	}
	e := el.Value.(*entry)
	if e.tags == nil {
		e.tags = make(map[string]bool)
	}
	e.tags[tag] = true
}

// InvalidateTag evicts every entry carrying tag, regardless of pin status —
// an explicit state-change invalidation overrides the pin floor, since the
// pin floor exists to protect against premature LRU churn, not to protect
// against known-stale content.
func (c *Cache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for el := c.ll.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if e.tags[tag] {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		e := el.Value.(*entry)
		c.ll.Remove(el)
		delete(c.items, e.fingerprint)
	}
}

// Len reports the current entry count, for tests and metrics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
