package redisclient

import (
	"context"
	"log/slog"
	"time"

	"youbuddy/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Connect returns a client only when redis is configured and answers a ping.
// A nil client means caching is disabled.
func Connect(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		slog.Info("redis: no address configured, cache disabled")
		return nil
	}
	rdb := New(cfg)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis: unreachable, cache disabled", "addr", cfg.Addr, "err", err)
		_ = rdb.Close()
		return nil
	}
	slog.Info("redis: connected", "addr", cfg.Addr, "db", cfg.DB)
	return rdb
}
