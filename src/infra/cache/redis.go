// Package cache holds the ResultsCache adapters: Redis when configured,
// a no-op otherwise.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"thethird/src/core/ports"
	"thethird/src/infra/config"
)

const keyPrefix = "results:"

// RedisCache stores JSON encoded results with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

var _ ports.ResultsCache = (*RedisCache)(nil)

// NewRedis connects to Redis and pings it.
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info("redis connection established", "addr", cfg.Addr, "db", cfg.DB)
	return &RedisCache{client: client, ttl: cfg.TTL, log: log.With("component", "results_cache")}, nil
}

func key(sessionID uuid.UUID) string {
	return keyPrefix + sessionID.String()
}

func (c *RedisCache) Get(ctx context.Context, sessionID uuid.UUID, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached results: %w", err)
	}
	c.log.Debug("results cache hit", "session_id", sessionID)
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, sessionID uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := c.client.Set(ctx, key(sessionID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
