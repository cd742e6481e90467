package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "numina/pkg/domain"
	"numina/pkg/platform/sentinel"
)

// ContentCache stores generated sections keyed by calculation and content type.
type ContentCache interface {
	Get(ctx context.Context, calculationID id.CalculationID, contentType ContentType) (string, error)
	Set(ctx context.Context, calculationID id.CalculationID, contentType ContentType, text string) error
}

const contentTTL = 30 * 24 * time.Hour

// RedisContentCache is the Redis-backed ContentCache.
type RedisContentCache struct {
	client *redis.Client
}

// NewRedisContentCache creates a cache on the given Redis client.
func NewRedisContentCache(client *redis.Client) *RedisContentCache {
	return &RedisContentCache{client: client}
}

func contentKey(calculationID id.CalculationID, contentType ContentType) string {
	return fmt.Sprintf("numina:generation:%s:%s", calculationID, contentType)
}

// Get returns the cached text, or sentinel.ErrNotFound when nothing is cached.
func (c *RedisContentCache) Get(ctx context.Context, calculationID id.CalculationID, contentType ContentType) (string, error) {
	text, err := c.client.Get(ctx, contentKey(calculationID, contentType)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get cached content: %w", err)
	}
	return text, nil
}

// Set stores the generated text with a TTL so stale reports age out.
func (c *RedisContentCache) Set(ctx context.Context, calculationID id.CalculationID, contentType ContentType, text string) error {
	if err := c.client.Set(ctx, contentKey(calculationID, contentType), text, contentTTL).Err(); err != nil {
		return fmt.Errorf("cache generated content: %w", err)
	}
	return nil
}
