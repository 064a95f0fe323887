package db

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates and returns a new Redis client. An empty addr falls
// back to the REDIS_CONNSTRING environment variable, then to localhost:6379.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		addr = os.Getenv("REDIS_CONNSTRING")
	}
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	// Ping the server to ensure the connection is established.
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
