package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/melodia-music/melodia-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached catalog lists
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL keeps hot list endpoints fresh enough for the admin UI
	DefaultCacheTTL = 10 * time.Minute
)

// CacheService provides Redis-backed caching for hot catalog reads.
// Cache misses and Redis failures are not errors; callers fall back to Mongo.
type CacheService struct{}

// Get retrieves a value from cache
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if database.RedisClient == nil {
		return false, nil
	}

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with the default TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	if database.RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, data, DefaultCacheTTL).Err()
}

// Invalidate drops a cached key after a write
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if database.RedisClient == nil {
		return
	}
	for _, key := range keys {
		database.RedisClient.Del(ctx, CacheKeyPrefix+key)
	}
}
