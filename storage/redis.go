package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed storage.
type RedisOptions struct {
	// Prefix is prepended to every key, e.g. "sazito:session:42:".
	Prefix string
	// TTL expires values after the given duration. Zero keeps them forever.
	TTL time.Duration
	// OpTimeout bounds each Redis command. Defaults to two seconds.
	OpTimeout time.Duration
}

// Redis stores values in Redis, letting several SDK processes share one guest
// session.
type Redis struct {
	client redis.UniversalClient
	opts   RedisOptions
}

// NewRedis wraps an existing go-redis client.
func NewRedis(client redis.UniversalClient, opts RedisOptions) *Redis {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 2 * time.Second
	}
	return &Redis{client: client, opts: opts}
}

func (r *Redis) key(key string) string {
	return r.opts.Prefix + key
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opts.OpTimeout)
}

func (r *Redis) Get(key string) (string, bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, wrap("get", key, err)
	}
	return val, true, nil
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return wrap("set", key, r.client.Set(ctx, r.key(key), value, r.opts.TTL).Err())
}

func (r *Redis) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return wrap("remove", key, r.client.Del(ctx, r.key(key)).Err())
}

var _ Storage = (*Redis)(nil)
