package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Identity kinds stored in the cache.
const (
	KindTable = "table"
	KindMenu  = "menu"
)

const keyPrefix = "identity:"

// NewRedisClient parses redisURL and checks that the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// IdentityCache maps natural keys (table code, menu name) to their numeric
// IDs. Identities never change once created, so entries only expire by TTL.
type IdentityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdentityCache(client redis.Cmdable, ttl time.Duration) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl}
}

func identityKey(kind, key string) string {
	return keyPrefix + kind + ":" + key
}

// Get returns the cached ID and whether it was present.
func (c *IdentityCache) Get(ctx context.Context, kind, key string) (int64, bool, error) {
	val, err := c.client.Get(ctx, identityKey(kind, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt identity cache entry %s: %w", identityKey(kind, key), err)
	}
	return id, true, nil
}

func (c *IdentityCache) Set(ctx context.Context, kind, key string, id int64) error {
	return c.client.Set(ctx, identityKey(kind, key), strconv.FormatInt(id, 10), c.ttl).Err()
}
