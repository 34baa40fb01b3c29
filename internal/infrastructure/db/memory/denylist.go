package memory

import (
	"context"
	"sync"
	"time"
)

// TokenDenylist keeps revoked token ids in process memory until they expire.
// It is used when no Redis address is configured.
type TokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.revoked[tokenID] = d.now().Add(ttl)
	d.sweep()
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// sweep drops expired entries. Callers hold mu.
func (d *TokenDenylist) sweep() {
	now := d.now()
	for id, exp := range d.revoked {
		if !now.Before(exp) {
			delete(d.revoked, id)
		}
	}
}
