// Package kv stores releases in Redis.
package kv

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "kompoxwl"

// OpenFromURL connects to the Redis server named by a redis:// or rediss://
// URL and checks the connection with PING.
func OpenFromURL(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}
	return client, nil
}
