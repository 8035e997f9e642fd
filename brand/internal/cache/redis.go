package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces lookup entries in a shared Redis.
const keyPrefix = "brandfetch:logo:"

// Redis is the external shared cache tier. Every Redis failure is a
// logged warning and a cache miss, never an error to the caller.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis wraps an existing client as a cache tier.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		r.logger.Warn("redis cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &e, true
}

func (r *Redis) Set(ctx context.Context, key string, e *Entry) {
	if e == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		r.logger.Warn("redis cache marshal failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis cache set failed", "key", key, "error", err)
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error { return r.client.Close() }
