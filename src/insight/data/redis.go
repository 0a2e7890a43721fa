package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// CacheGet returns the cached payload for key, or "" on miss or error.
// Caching here is pure memoization; callers always know how to recompute.
func CacheGet(ctx context.Context, rdb *redis.Client, key string) string {
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

func CacheSet(ctx context.Context, rdb *redis.Client, key, val string, ttl time.Duration) {
	if err := rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}
