package sazito

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

const (
	testCacheKey       = "GET:http://api/api/v1/products:"
	expectedHitMsg     = "Expected cache hit for %s"
	expectedMissMsg    = "Expected cache miss for %s"
	expectedCacheLenMs = "Expected %d entries, got %d"
)

func TestInMemoryCacheGetSet(t *testing.T) {
	cache := NewInMemoryCache()

	if _, ok := cache.Get(testCacheKey, time.Minute); ok {
		t.Errorf(expectedMissMsg, testCacheKey)
	}

	cache.Set(testCacheKey, map[string]any{"id": float64(1)})

	value, ok := cache.Get(testCacheKey, time.Minute)
	if !ok {
		t.Fatalf(expectedHitMsg, testCacheKey)
	}
	if value.(map[string]any)["id"] != float64(1) {
		t.Errorf("Unexpected cached value %v", value)
	}
	if cache.Len() != 1 {
		t.Errorf(expectedCacheLenMs, 1, cache.Len())
	}

	cache.Delete(testCacheKey)
	if _, ok := cache.Get(testCacheKey, time.Minute); ok {
		t.Errorf(expectedMissMsg, testCacheKey)
	}
}

func TestInMemoryCacheLazyExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cache := NewInMemoryCacheWithClock(func() time.Time { return now })

	cache.Set(testCacheKey, "v")

	now = now.Add(time.Minute)
	if _, ok := cache.Get(testCacheKey, time.Minute); !ok {
		t.Error("Entry exactly at TTL should still be served")
	}
	if cache.Len() != 1 {
		t.Errorf(expectedCacheLenMs, 1, cache.Len())
	}

	now = now.Add(time.Millisecond)
	if _, ok := cache.Get(testCacheKey, time.Minute); ok {
		t.Error("Entry past TTL should be a miss")
	}
	if cache.Len() != 0 {
		t.Errorf("Expired entry should be removed on read, %d left", cache.Len())
	}
}

func TestInMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(0, 0)
	cache := NewInMemoryCacheWithClock(func() time.Time { return now })

	cache.Set(testCacheKey, "v")
	now = now.Add(24 * time.Hour)

	if _, ok := cache.Get(testCacheKey, 0); !ok {
		t.Errorf(expectedHitMsg, testCacheKey)
	}
}

func TestInMemoryCacheDeleteMatching(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		removed int
	}{
		{"family pattern", FamilyProducts.InvalidationPattern(), 2},
		{"categories only", FamilyCategories.InvalidationPattern(), 1},
		{"invalid regex falls back to substring", "tags[", 1},
		{"no match", "^POST:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewInMemoryCache()
			cache.Set("GET:http://api/api/v1/products:", 1)
			cache.Set("GET:http://api/api/v1/products/5:", 2)
			cache.Set("GET:http://api/api/v1/product_categories:", 3)
			cache.Set("GET:http://api/api/v1/x?q=tags[:", 4)

			removed := cache.DeleteMatching(tt.pattern)

			if removed != tt.removed {
				t.Errorf("Expected %d removed, got %d", tt.removed, removed)
			}
			if cache.Len() != 4-tt.removed {
				t.Errorf(expectedCacheLenMs, 4-tt.removed, cache.Len())
			}
		})
	}
}

func TestInMemoryCacheClear(t *testing.T) {
	cache := NewInMemoryCache()
	for i := 0; i < 50; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), i)
	}
	if len(cache.Keys()) != 50 {
		t.Fatalf("Expected 50 keys, got %d", len(cache.Keys()))
	}

	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf(expectedCacheLenMs, 0, cache.Len())
	}
}

func TestInMemoryCacheConcurrentAccess(t *testing.T) {
	cache := NewInMemoryCache()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("GET:http://api/api/v1/products/%d:", i)
			cache.Set(key, i)
			cache.Get(key, time.Minute)
			cache.DeleteMatching("tags")
		}(i)
	}
	wg.Wait()

	if cache.Len() != 20 {
		t.Errorf(expectedCacheLenMs, 20, cache.Len())
	}
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"no params", nil, "GET:http://api/x:"},
		{"empty params", Params{}, "GET:http://api/x:"},
		{"sorted params", Params{"b": 2, "a": "1"}, `GET:http://api/x:{"a":"1","b":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CacheKey("GET", "http://api/x", tt.params); got != tt.want {
				t.Errorf("CacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextCacheControl(t *testing.T) {
	ctx := context.Background()
	if !cacheAllowedByContext(ctx) {
		t.Error("Plain context should allow the cache")
	}
	if cacheAllowedByContext(WithContextCacheDisabled(ctx)) {
		t.Error("Disabled context should skip the cache")
	}
	if !cacheAllowedByContext(WithContextCacheEnabled(WithContextCacheDisabled(ctx))) {
		t.Error("Innermost setting should win")
	}
}
