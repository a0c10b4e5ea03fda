package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds all configuration for the Redis client
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient wraps go-redis with the stream operations used for audit delivery
type RedisClient struct {
	client *redis.Client
	config *Config
}

// NewClient connects to Redis and verifies the connection with PING
func NewClient(cfg *Config) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisClient{client: rdb, config: cfg}, nil
}

// Close gracefully closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}

// PublishAuditEvent appends data to streamName with XADD and an auto-generated ID
func (c *RedisClient) PublishAuditEvent(ctx context.Context, streamName string, data map[string]interface{}) (string, error) {
	msgID, err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: data,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to XADD to stream %s: %w", streamName, err)
	}
	return msgID, nil
}

// GetStreamLength returns the current stream length
func (c *RedisClient) GetStreamLength(ctx context.Context, streamName string) (int64, error) {
	return c.client.XLen(ctx, streamName).Result()
}

// HealthCheck verifies Redis connectivity
func (c *RedisClient) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
