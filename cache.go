package sazito

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Cache stores SDK-shaped GET results. Implementations must be safe for
// concurrent use and must never fail a request: backend errors read as a
// miss.
type Cache interface {
	// Get returns the value stored under key. With ttl > 0 an entry older
	// than ttl is removed and reported absent. ttl <= 0 never expires.
	Get(key string, ttl time.Duration) (any, bool)
	Set(key string, value any)
	Delete(key string)
	// DeleteMatching removes every key matching pattern, a regular
	// expression. An invalid expression is matched as a plain substring.
	DeleteMatching(pattern string) int
	Clear()
	Len() int
}

// CacheEntry is one stored value and its write time.
type CacheEntry struct {
	Value     any
	WrittenAt time.Time
}

func (e *CacheEntry) expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(e.WrittenAt) > ttl
}

// CacheKey builds the key for a request: method, full URL and the params
// serialized as JSON with sorted keys. A call without params ends in ":".
func CacheKey(method, url string, params Params) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(':')
	b.WriteString(url)
	b.WriteByte(':')
	if len(params) > 0 {
		// encoding/json sorts map keys.
		if raw, err := json.Marshal(map[string]any(params)); err == nil {
			b.Write(raw)
		}
	}
	return b.String()
}

type matcher func(string) bool

func compilePattern(pattern string) matcher {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return func(key string) bool { return strings.Contains(key, pattern) }
	}
	return re.MatchString
}

// InMemoryCache is a sharded map with lazy expiry. There is no background
// sweep: entries are dropped when read after their TTL or on invalidation.
type InMemoryCache struct {
	shards    []*cacheShard
	numShards int
	now       func() time.Time
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
}

// NewInMemoryCache returns an empty cache using the wall clock.
func NewInMemoryCache() *InMemoryCache {
	return NewInMemoryCacheWithClock(time.Now)
}

// NewInMemoryCacheWithClock returns an empty cache reading time from now.
func NewInMemoryCacheWithClock(now func() time.Time) *InMemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]*CacheEntry),
		}
	}
	if now == nil {
		now = time.Now
	}
	return &InMemoryCache{
		shards:    shards,
		numShards: numShards,
		now:       now,
	}
}

func (c *InMemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

func (c *InMemoryCache) Get(key string, ttl time.Duration) (any, bool) {
	shard := c.getShard(key)
	now := c.now()

	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if entry.expired(now, ttl) {
		shard.mu.Lock()
		// A concurrent Set may have replaced the entry.
		if current, ok := shard.store[key]; ok && current == entry {
			delete(shard.store, key)
		}
		shard.mu.Unlock()
		return nil, false
	}

	return entry.Value, true
}

func (c *InMemoryCache) Set(key string, value any) {
	shard := c.getShard(key)
	entry := &CacheEntry{Value: value, WrittenAt: c.now()}

	shard.mu.Lock()
	shard.store[key] = entry
	shard.mu.Unlock()
}

func (c *InMemoryCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.store, key)
}

func (c *InMemoryCache) DeleteMatching(pattern string) int {
	match := compilePattern(pattern)
	removed := 0
	for _, shard := range c.shards {
		shard.mu.Lock()
		for key := range shard.store {
			if match(key) {
				delete(shard.store, key)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}

func (c *InMemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]*CacheEntry)
		shard.mu.Unlock()
	}
}

func (c *InMemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}

// Keys returns a snapshot of the stored keys in no particular order.
func (c *InMemoryCache) Keys() []string {
	var keys []string
	for _, shard := range c.shards {
		shard.mu.RLock()
		for key := range shard.store {
			keys = append(keys, key)
		}
		shard.mu.RUnlock()
	}
	return keys
}

// WithContextCacheEnabled lets GETs under ctx use the cache, subject to the
// family policy.
func WithContextCacheEnabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, CacheControlKey, &CacheControl{Enabled: true})
}

// WithContextCacheDisabled makes GETs under ctx skip the cache entirely.
func WithContextCacheDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, CacheControlKey, &CacheControl{Enabled: false})
}

func cacheAllowedByContext(ctx context.Context) bool {
	if cc, ok := ctx.Value(CacheControlKey).(*CacheControl); ok {
		return cc.Enabled
	}
	return true
}

var _ Cache = (*InMemoryCache)(nil)
