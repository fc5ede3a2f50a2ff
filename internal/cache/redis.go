// Package cache provides a best-effort Redis cache for comment threads.
// All helpers degrade to no-ops when the client is unavailable.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client. Nil when Redis is unreachable.
var Client *redis.Client

// InitRedis connects the shared client. A failed ping leaves the cache
// disabled rather than failing startup.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache", slog.String("error", err.Error()))
		Client = nil
	}
}

// GetClient returns the shared Redis client, or nil when disabled.
func GetClient() *redis.Client {
	return Client
}
