// Package cache is the two-tier lookup cache for logo resolution:
// an in-process bounded TTL map, optionally fronted by a shared Redis
// store. Cache failures are never fatal — a broken or absent external
// tier degrades to memory-only with a logged warning.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is one cached lookup outcome. Negative outcomes (empty URL,
// source "none") are cached like hits so repeated misses do not re-probe
// within the TTL.
type Entry struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Cache is the capability interface implemented by every tier.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, e *Entry)
}

// FromConfig builds the cache for the given configuration: tiered when
// redisURL is set and reachable, memory-only otherwise.
func FromConfig(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.Default()
	}
	local := NewMemory(ttl, DefaultMaxEntries)
	if redisURL == "" {
		return local
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-memory cache only", "error", err)
		return local
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory cache only", "error", err)
		client.Close()
		return local
	}

	logger.Info("redis cache enabled")
	return NewTiered(NewRedis(client, ttl, logger), local)
}
