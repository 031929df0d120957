package cache

import (
	"context"
	"fmt"

	"github.com/tientruong05/todo-talk-quynhon/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient 建立连接并ping确认可用
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
