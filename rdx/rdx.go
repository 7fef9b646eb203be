package rdx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"gatherly/logger"
)

var Conn *redis.Client

func Init(addr string) {
	Conn = redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

// EventSlugKey is the cache key for an event served by slug. Shared by the
// read-through cache and the invalidating consumers.
func EventSlugKey(slug string) string {
	return "event:slug:" + slug
}

// CacheGetJSON loads key into dest; false on miss, error, or nil client.
// Cache trouble is never a request failure.
func CacheGetJSON(ctx context.Context, key string, dest interface{}) bool {
	if Conn == nil {
		return false
	}
	raw, err := Conn.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Sugar.Debugw("cache get failed", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Sugar.Warnw("cache entry corrupt, dropping", "key", key, "err", err)
		Conn.Del(ctx, key)
		return false
	}
	return true
}

func CacheSetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if Conn == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := Conn.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Sugar.Debugw("cache set failed", "key", key, "err", err)
	}
}

func CacheDel(ctx context.Context, keys ...string) {
	if Conn == nil || len(keys) == 0 {
		return
	}
	if err := Conn.Del(ctx, keys...).Err(); err != nil {
		logger.Sugar.Debugw("cache del failed", "keys", keys, "err", err)
	}
}
