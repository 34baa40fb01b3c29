package ports

import (
	"context"
	"time"

	"github.com/hbnb/rental-api/internal/core/domain"
)

// TokenClaims is what a bearer credential resolves to.
type TokenClaims struct {
	TokenID   string
	UserID    string
	IsAdmin   bool
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
	IssueToken(userID string, isAdmin bool) (string, error)
	ParseToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenDenylist remembers revoked token ids until the token would have
// expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
