// Package memo is a small, bounded, concurrency-safe cache-aside memoizer for pure functions of strings.
//
// Keys are 64-bit xxhash digests of the inputs (see Key). Values are evicted least-recently-used once the cache holds Capacity entries. A zero or negative capacity
// disables caching: every call computes.
//
// Collisions: two different inputs share a key with probability ~2^-64 per pair. Callers that cannot tolerate that should not memoize.
package memo

import (
	"container/list"
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key hashes parts into a cache key. Parts are length-prefixed, so Key("ab", "c") != Key("a", "bc").
func Key(parts ...string) uint64 {
	d := xxhash.New()
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		_, _ = d.Write(lenBuf[:])
		_, _ = d.WriteString(p)
	}
	return d.Sum64()
}

// Cache memoizes values of type V by key. The zero value is not usable; use New.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List               // Front is most recently used.
	items    map[uint64]*list.Element // Element values are *entry[V].
	hits     uint64
	misses   uint64
}

type entry[V any] struct {
	key   uint64
	value V
}

// New returns a cache holding at most capacity values.
func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint64]*list.Element),
	}
}

// Get returns the value for key, if present, and marks it recently used.
func (c *Cache[V]) Get(key uint64) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

// Put stores value under key, evicting the least recently used value if the cache is full.
func (c *Cache[V]) Put(key uint64, value V) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[V]).value = value
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&entry[V]{key: key, value: value})
	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[V]).key)
	}
}

// GetOrCompute returns the cached value for key, or calls compute, stores its result, and returns it. compute runs without the cache lock held, so concurrent
// misses on the same key may each call compute; the last one stored wins. compute must be pure.
func (c *Cache[V]) GetOrCompute(key uint64, compute func() V) V {
	if v, ok := c.Get(key); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return v
	}
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	v := compute()
	c.Put(key, v)
	return v
}

// Len returns the number of cached values.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats returns the number of GetOrCompute hits and misses so far.
func (c *Cache[V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
