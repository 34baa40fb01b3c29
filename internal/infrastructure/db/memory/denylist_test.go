package memory

import (
	"context"
	"testing"
	"time"
)

func TestTokenDenylist(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewTokenDenylist()
	d.now = func() time.Time { return clock }

	if err := d.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := d.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 revoked, got %v %v", revoked, err)
	}
	if revoked, _ := d.IsRevoked(ctx, "jti-2"); revoked {
		t.Error("jti-2 was never revoked")
	}

	clock = clock.Add(2 * time.Minute)
	if revoked, _ := d.IsRevoked(ctx, "jti-1"); revoked {
		t.Error("revocation must lapse once the token would have expired")
	}
}

func TestTokenDenylist_NonPositiveTTL(t *testing.T) {
	d := NewTokenDenylist()
	if err := d.Revoke(context.Background(), "jti", 0); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked, _ := d.IsRevoked(context.Background(), "jti"); revoked {
		t.Error("an already expired token needs no entry")
	}
}
