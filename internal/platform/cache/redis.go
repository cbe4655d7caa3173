package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tunes the client created by New. ClientName shows up in CLIENT
// LIST so web and worker connections can be told apart.
type Options struct {
	Addr        string
	ClientName  string
	PoolSize    int
	PingTimeout time.Duration
}

// New creates a Redis client for sessions and datasheet locks and pings it.
// The client is returned even when the ping fails: the site keeps serving
// with degraded sessions until Redis recovers.
func New(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		ClientName:   opts.ClientName,
		PoolSize:     opts.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return client, fmt.Errorf("platform/cache: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}
