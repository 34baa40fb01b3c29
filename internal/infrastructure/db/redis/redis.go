// Package redis keeps revoked bearer tokens in Redis so every API instance
// sharing the server sees a logout.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces denylist keys when Config.KeyPrefix is empty.
	DefaultKeyPrefix = "hbnb:revoked:"

	defaultPingTimeout = 5 * time.Second
)

// Config describes the Redis instance holding the token denylist.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// PingTimeout bounds the connectivity check in Open.
	PingTimeout time.Duration
}

// Open dials Redis, checks it answers and returns a denylist that owns the
// connection. Close releases it.
func Open(ctx context.Context, cfg Config) (*TokenDenylist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	d := NewTokenDenylist(client, cfg.KeyPrefix)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("token denylist at %s: %w", cfg.Addr, err)
	}
	return d, nil
}

// Ping reports whether the denylist store is reachable. It backs the
// readiness probe.
func (d *TokenDenylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *TokenDenylist) Close() error {
	return d.client.Close()
}
