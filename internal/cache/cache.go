package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"checkmkmcp/pkg/logging"
)

// Stats reports cumulative cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Cache is a size-bounded LRU with per-entry TTL, glob invalidation, and
// single-flight deduplication of concurrent misses for the same key.
type Cache struct {
	maxSize    int
	defaultTTL time.Duration

	mu       sync.Mutex
	ll       *list.List // front = most recently used
	elements map[string]*list.Element

	group singleflight.Group

	hits      int64
	misses    int64
	evictions int64

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// New constructs a Cache and starts its background TTL sweeper, ticking
// every sweepInterval until Close is called.
func New(maxSize int, defaultTTL, sweepInterval time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 300 * time.Second
	}
	c := &Cache{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		ll:         list.New(),
		elements:   make(map[string]*list.Element),
		sweepStop:  make(chan struct{}),
		sweepDone:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.sweepLoop(sweepInterval)
	} else {
		close(c.sweepDone)
	}
	return c
}

// Close stops the background sweeper. Safe to call once.
func (c *Cache) Close() {
	close(c.sweepStop)
	<-c.sweepDone
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer close(c.sweepDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.sweepStop:
			return
		case <-ticker.C:
			c.sweepExpired()
		}
	}
}

func (c *Cache) sweepExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.ll.Back(); e != nil; {
		prev := e.Prev()
		ent := e.Value.(*entry)
		if ent.expired(now) {
			c.removeElement(e)
			c.evictions++
		}
		e = prev
	}
}

// Get returns the cached value for key, reporting whether it was present
// and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache) getLocked(key string) (interface{}, bool) {
	el, ok := c.elements[key]
	if !ok {
		c.misses++
		return nil, false
	}
	ent := el.Value.(*entry)
	if ent.expired(time.Now()) {
		c.removeElement(el)
		c.evictions++
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return ent.value, true
}

// Set stores value under key with ttl (0 uses the cache's default TTL),
// evicting the least-recently-used entry if the cache is at capacity.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if el, ok := c.elements[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.elements[key] = el

	if c.ll.Len() > c.maxSize {
		c.evictOldest()
	}
}

func (c *Cache) evictOldest() {
	oldest := c.ll.Back()
	if oldest == nil {
		return
	}
	c.removeElement(oldest)
	c.evictions++
}

func (c *Cache) removeElement(el *list.Element) {
	ent := el.Value.(*entry)
	c.ll.Remove(el)
	delete(c.elements, ent.key)
}

// Invalidate removes one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.elements[key]; ok {
		c.removeElement(el)
	}
}

// InvalidatePattern removes every key matching a glob where "*" matches any
// run of characters, used after mutating writes — e.g. "hosts:*srv1*". Keys
// are opaque strings, not paths: "*" crosses "/" too, so folder-valued keys
// like "hosts:list::/network/:false" invalidate like any other.
func (c *Cache) InvalidatePattern(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, el := range c.elements {
		if matchKey(pattern, key) {
			toRemove = append(toRemove, el)
		}
	}
	for _, el := range toRemove {
		c.removeElement(el)
	}
	return len(toRemove)
}

// matchKey reports whether key matches pattern. "*" matches any run of
// characters, with no separator special-casing; everything else is literal.
func matchKey(pattern, key string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == key
	}

	if !strings.HasPrefix(key, parts[0]) {
		return false
	}
	key = key[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(key, part)
		if idx < 0 {
			return false
		}
		key = key[idx+len(part):]
	}
	return strings.HasSuffix(key, last)
}

// Stats returns a snapshot of cumulative counters plus current size.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.ll.Len(),
	}
}

// GetOrLoad returns the cached value for key, or invokes load to populate it
// on a miss. Concurrent callers for the same key during a miss share a
// single in-flight load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})
	if shared {
		logging.DebugCtx(ctx, "Cache", "shared in-flight load for key %s", key)
	}
	return v, err
}
