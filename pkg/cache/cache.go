// Package cache is a thin JSON cache over Redis.
//
// When Redis is not connected every call degrades to a miss, so callers can
// always fall through to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/metrics"
)

// RDB is the shared client. It is also handed to the Redis queue driver.
var RDB *redis.Client

const prefix = "storefront:"

// Connect initialises the Redis client and verifies the connection with a ping.
func Connect(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals the value at key into dest. Returns true on a hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	val, err := RDB.Get(ctx, prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value as JSON under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, prefix+key, data, ttl).Err()
}

// Forget removes keys.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = prefix + k
	}
	return RDB.Del(ctx, full...).Err()
}

// Remember returns the cached value at key, or calls load, caches its result
// for ttl and returns it. A failed cache write never fails the call.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if Get(ctx, key, &out) {
		metrics.CacheHits.WithLabelValues(key).Inc()
		return out, nil
	}
	metrics.CacheMisses.WithLabelValues(key).Inc()

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if err := Set(ctx, key, out, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return out, nil
}
