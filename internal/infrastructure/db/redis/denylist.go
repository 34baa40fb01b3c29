package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked bearer tokens in Redis.
// Key format: <prefix><token_id>, expiring with the token itself.
type TokenDenylist struct {
	client *redis.Client
	prefix string
}

// NewTokenDenylist wraps client. An empty prefix means DefaultKeyPrefix.
func NewTokenDenylist(client *redis.Client, prefix string) *TokenDenylist {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &TokenDenylist{client: client, prefix: prefix}
}

// Revoke marks tokenID as revoked for ttl. A token that has already expired
// needs no entry.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenylist) key(tokenID string) string {
	return d.prefix + tokenID
}
