package redis

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Connect opens the Redis client that caches per-session frame snapshots for
// reconnect resync.
func Connect(redisURL string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	log.Printf("[REDIS] Connected to Redis (pool %d)", opt.PoolSize)
	return client, nil
}
