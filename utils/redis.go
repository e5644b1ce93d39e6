package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the shared Redis client used for counters and short-lived tokens
func InitRedis() error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := RedisClient.Ping(redisCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Println("✅ Redis connected:", addr)
	return nil
}

// ======================
// Short-lived tokens (payment order handles, device registration nonces)
// ======================

func SetToken(key string, value string, ttl time.Duration) error {
	return RedisClient.Set(redisCtx, key, value, ttl).Err()
}

func GetToken(key string) (string, error) {
	return RedisClient.Get(redisCtx, key).Result()
}

func DeleteToken(key string) error {
	return RedisClient.Del(redisCtx, key).Err()
}

// ======================
// Counters (feed like counts)
// ======================

// IncrCounter increments a counter key and returns the new value
func IncrCounter(ctx context.Context, key string) (int64, error) {
	return RedisClient.Incr(ctx, key).Result()
}

// DecrCounter decrements a counter key, clamped at zero
func DecrCounter(ctx context.Context, key string) (int64, error) {
	val, err := RedisClient.Decr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val < 0 {
		_ = RedisClient.Set(ctx, key, 0, 0).Err()
		return 0, nil
	}
	return val, nil
}

// GetCounter reads a counter; missing keys read as 0, not an error
func GetCounter(ctx context.Context, key string) (int64, error) {
	val, err := RedisClient.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// SetCounter seeds a counter value (used when warming from the database)
func SetCounter(ctx context.Context, key string, value int64) error {
	return RedisClient.Set(ctx, key, value, 0).Err()
}
