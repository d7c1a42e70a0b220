package utils

import (
	"context"
	"fmt"
	"time"

	"salonbook/config"

	"github.com/go-redis/redis/v8"
)

// LockClient is the Redis client that holds per-booking locks.
var LockClient *redis.Client

// InitLockCache connects the lock client using REDIS_LOCK_DB.
func InitLockCache() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (locks): %w", err)
	}
	LockClient = client
	return client, nil
}
