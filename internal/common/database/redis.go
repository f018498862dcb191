// internal/common/database/redis.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docverify-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// TextCache stores recognized document text keyed by image digest.
type TextCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewTextCache(client redis.Cmdable, ttl time.Duration) *TextCache {
	return &TextCache{client: client, prefix: "ocr:text:", ttl: ttl}
}

// Get returns the cached text and whether it was present.
func (c *TextCache) Get(ctx context.Context, digest string) (string, bool, error) {
	text, err := c.client.Get(ctx, c.prefix+digest).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ocr cache get: %w", err)
	}
	return text, true, nil
}

func (c *TextCache) Set(ctx context.Context, digest, text string) error {
	if err := c.client.Set(ctx, c.prefix+digest, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("ocr cache set: %w", err)
	}
	return nil
}
