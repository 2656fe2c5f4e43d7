package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLContent  = 5 * time.Minute  // single content records
	TTLContents = 30 * time.Second // content list pages (refreshed often)
)

// Cache key prefixes
const (
	PrefixContent  = "content:"
	PrefixContents = "contents:"
)

// ContentKey builds the cache key for a single content record.
func ContentKey(userID, contentID string) string {
	return PrefixContent + userID + ":" + contentID
}

// ContentsKey builds the cache key for a content list page.
func ContentsKey(userID, kind string, page, limit int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", PrefixContents, userID, kind, page, limit)
}

// ContentsPrefix is the invalidation prefix covering every cached list
// page of the user.
func ContentsPrefix(userID string) string {
	return PrefixContents + userID + ":"
}

// Service Redis cache operations. All implementations degrade to no-ops
// when Redis is unavailable so the API keeps serving from the database.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service on top of a Redis client. A nil
// client yields a disabled cache.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
