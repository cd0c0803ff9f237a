// Package cache is a thin read-through layer over redis. Every call is
// best-effort: a nil client or a redis failure degrades to a miss, never
// to an error the storefront surfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sipwell/storefront-api/pkg/log"
)

type Client struct {
	rdb *redis.Client
}

// New connects to redis, or returns nil when addr is empty so callers can
// run without a cache at all.
func New(addr, password string) *Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.L.Warn("redis unreachable, running without cache", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	return &Client{rdb: rdb}
}

// GetJSON loads key into dest. Returns false on miss, redis error, or nil client.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.L.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.L.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores value under key with a TTL, best effort.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.L.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops keys after a write, best effort.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.L.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
