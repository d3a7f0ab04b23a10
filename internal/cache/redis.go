// Package cache connects to Redis.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/nixbug/entebus-server/internal/config"
)

// NewRedisClient connects to the configured Redis server and verifies it responds.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	slog.Info("Connecting to redis...")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Env.Redis.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.PingTimeout.Duration)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr(), err)
	}

	slog.Info("Connected to redis.", "addr", cfg.RedisAddr())
	return client, nil
}
