package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// notFoundSentinel marks a cached negative lookup in Redis. A dedicated
// marker value keeps negative entries distinguishable from absent keys.
const notFoundSentinel = "NOT_FOUND"

// redisCache is a Redis-backed Cache for multi-instance deployments where
// every instance should share positive and negative lookup results.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a tenant cache on top of an established Redis client.
// The client's lifecycle is owned by the caller; Close is a no-op.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		// Treat transport errors the same as a miss; the middleware falls
		// back to the provider.
		return nil, false
	}

	if val == notFoundSentinel {
		return nil, true
	}

	var t Tenant
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	if tenant == nil {
		c.client.Set(ctx, key, notFoundSentinel, ttl)
		return
	}

	data, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	c.client.Del(ctx, key)
}

func (c *redisCache) Close() error {
	return nil
}
