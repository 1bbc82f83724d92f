package config

import (
	"context"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects to Redis when REDIS_ADDR (or a redis:// URL in
// REDIS_URL) is set. Redis only backs the report and question-bank caches,
// so an unset address is not an error; callers fall back to the no-op cache.
// Returns whether a client was configured.
func InitRedis() (bool, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = os.Getenv("REDIS_URL")
	}
	if addr == "" {
		return false, nil
	}

	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return false, err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := RedisClient.Ping(context.Background()).Err(); err != nil {
		return false, err
	}
	return true, nil
}
