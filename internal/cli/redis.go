package cli

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/aura/internal/config"
	"github.com/redis/go-redis/v9"
)

// newRedisClient connects to cfg.Addr. A nil client means publishing is off.
func newRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
