package sazito

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheOptions configures a RedisCache.
type RedisCacheOptions struct {
	// Prefix namespaces every key. Defaults to "sazito:cache:".
	Prefix string
	// MaxAge is a server-side expiry applied on write so that entries no
	// request ever reads again do not live forever. Zero keeps them.
	MaxAge time.Duration
	// OpTimeout bounds every Redis command. Defaults to 2s.
	OpTimeout time.Duration
	Logger    Logger
	Now       func() time.Time
}

// RedisCache shares cached results between processes. Failures are logged
// and treated as misses.
type RedisCache struct {
	client redis.UniversalClient
	opts   RedisCacheOptions
}

type redisEntry struct {
	Value     json.RawMessage `json:"value"`
	WrittenAt int64           `json:"written_at"`
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient, opts RedisCacheOptions) *RedisCache {
	if opts.Prefix == "" {
		opts.Prefix = "sazito:cache:"
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = NopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RedisCache{client: client, opts: opts}
}

func (r *RedisCache) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opts.OpTimeout)
}

func (r *RedisCache) Get(key string, ttl time.Duration) (any, bool) {
	ctx, cancel := r.ctx()
	defer cancel()

	raw, err := r.client.Get(ctx, r.opts.Prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.opts.Logger.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.opts.Logger.Warn("redis cache entry corrupted", "key", key, "error", err)
		r.Delete(key)
		return nil, false
	}

	e := CacheEntry{WrittenAt: time.UnixMilli(entry.WrittenAt)}
	if e.expired(r.opts.Now(), ttl) {
		r.Delete(key)
		return nil, false
	}

	var value any
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		r.opts.Logger.Warn("redis cache value corrupted", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

func (r *RedisCache) Set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.opts.Logger.Warn("redis cache value not encodable", "key", key, "error", err)
		return
	}
	b, err := json.Marshal(redisEntry{Value: raw, WrittenAt: r.opts.Now().UnixMilli()})
	if err != nil {
		return
	}

	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Set(ctx, r.opts.Prefix+key, b, r.opts.MaxAge).Err(); err != nil {
		r.opts.Logger.Warn("redis cache set failed", "key", key, "error", err)
	}
}

func (r *RedisCache) Delete(key string) {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Del(ctx, r.opts.Prefix+key).Err(); err != nil {
		r.opts.Logger.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

// scan walks every key under the prefix, passing keys without the prefix.
func (r *RedisCache) scan(ctx context.Context, fn func(key string)) error {
	iter := r.client.Scan(ctx, 0, r.opts.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fn(strings.TrimPrefix(iter.Val(), r.opts.Prefix))
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning %s*: %w", r.opts.Prefix, err)
	}
	return nil
}

func (r *RedisCache) deleteWhere(match matcher) int {
	ctx, cancel := r.ctx()
	defer cancel()

	var keys []string
	err := r.scan(ctx, func(key string) {
		if match(key) {
			keys = append(keys, r.opts.Prefix+key)
		}
	})
	if err != nil {
		r.opts.Logger.Warn("redis cache scan failed", "error", err)
	}
	if len(keys) == 0 {
		return 0
	}

	// One DEL per key: a multi-key DEL spanning hash slots fails with
	// CROSSSLOT on a cluster.
	cmds, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, key := range keys {
			p.Del(ctx, key)
		}
		return nil
	})
	if err != nil {
		r.opts.Logger.Warn("redis cache delete failed", "keys", len(keys), "error", err)
	}
	removed := 0
	for _, cmd := range cmds {
		if del, ok := cmd.(*redis.IntCmd); ok && del.Err() == nil {
			removed += int(del.Val())
		}
	}
	return removed
}

func (r *RedisCache) DeleteMatching(pattern string) int {
	return r.deleteWhere(compilePattern(pattern))
}

func (r *RedisCache) Clear() {
	r.deleteWhere(func(string) bool { return true })
}

func (r *RedisCache) Len() int {
	ctx, cancel := r.ctx()
	defer cancel()

	n := 0
	if err := r.scan(ctx, func(string) { n++ }); err != nil {
		r.opts.Logger.Warn("redis cache scan failed", "error", err)
	}
	return n
}

var _ Cache = (*RedisCache)(nil)
