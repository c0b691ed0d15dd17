// Package cache provides the Redis-backed response cache
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON values under namespaced keys with a default TTL.
// A cache miss is (nil, false, nil); only transport failures are errors.
type Cache struct {
	client     *redis.Client
	namespace  string
	defaultTTL time.Duration
}

// New connects to Redis and returns the cache
func New(redisURL, namespace string, defaultTTL time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client, namespace, defaultTTL), nil
}

// NewWithClient wraps an existing Redis client
func NewWithClient(client *redis.Client, namespace string, defaultTTL time.Duration) *Cache {
	return &Cache{client: client, namespace: namespace, defaultTTL: defaultTTL}
}

func (c *Cache) key(section, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, section, key)
}

// GetJSON reads a cached value into out, reporting whether it was present
func (c *Cache) GetJSON(ctx context.Context, section, key string, out any) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(section, key)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

// SetJSON stores a value under the default TTL
func (c *Cache) SetJSON(ctx context.Context, section, key string, value any) error {
	return c.SetJSONTTL(ctx, section, key, value, c.defaultTTL)
}

// SetJSONTTL stores a value under an explicit TTL
func (c *Cache) SetJSONTTL(ctx context.Context, section, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(section, key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a stored value. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, section, key string) error {
	if err := c.client.Del(ctx, c.key(section, key)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

// IncrementWithTTL increments a counter, starting its expiry window on the
// first increment. Used for rate accounting.
func (c *Cache) IncrementWithTTL(ctx context.Context, section, key string, ttl time.Duration) (int64, error) {
	namespaced := c.key(section, key)
	count, err := c.client.Incr(ctx, namespaced).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, namespaced, ttl).Err(); err != nil {
			return count, fmt.Errorf("cache expire: %w", err)
		}
	}
	return count, nil
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (c *Cache) Close() error {
	return c.client.Close()
}
