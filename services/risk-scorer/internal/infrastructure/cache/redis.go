package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

const keyPrefix = "fraudguard:assessment:"

// RedisCache is a port.AssessmentCache backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache. Entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached assessment, or nil on a miss.
func (c *RedisCache) Get(ctx context.Context, transactionID string) (*model.Assessment, error) {
	data, err := c.client.Get(ctx, keyPrefix+transactionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", transactionID, err)
	}
	return decode(data)
}

// Set stores the assessment unless one is already cached for its transaction.
func (c *RedisCache) Set(ctx context.Context, a *model.Assessment) error {
	data, err := encode(a)
	if err != nil {
		return err
	}
	if err := c.client.SetNX(ctx, keyPrefix+a.TransactionID(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", a.TransactionID(), err)
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
