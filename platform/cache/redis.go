// Package cache provides Redis connection infrastructure.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"time"

	"vacation_planner_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewClient parses REDIS_URL, applies connection settings and verifies the server answers.
func NewClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// PingAdapter exposes a Redis client as a health checker.
type PingAdapter struct {
	client *redis.Client
}

// NewPingAdapter wraps client. A nil client always reports healthy.
func NewPingAdapter(client *redis.Client) *PingAdapter {
	return &PingAdapter{client: client}
}

// Ping checks the Redis connection.
func (a *PingAdapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Ping(ctx).Err()
}
