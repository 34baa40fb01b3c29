package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
	"github.com/hbnb/rental-api/internal/infrastructure/db/memory"
)

func newAuthFixture(t *testing.T) (*AuthService, *Facade, *domain.User) {
	t.Helper()
	f := NewFacade(memory.NewRepositories(), zerolog.Nop())
	user, err := f.CreateUser(context.Background(), ports.UserInput{
		FirstName: "Carol",
		LastName:  "King",
		Email:     "carol@example.com",
		Password:  "s3cretpass",
		IsAdmin:   true,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	return NewAuthService(f, memory.NewTokenDenylist(), "secret", time.Hour), f, user
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, carol := newAuthFixture(t)

	token, user, err := svc.Login(context.Background(), "Carol@Example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != carol.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != carol.ID {
		t.Fatalf("expected subject %s, got %v", carol.ID, claims["sub"])
	}
	if claims["is_admin"] != true {
		t.Fatalf("expected is_admin claim, got %v", claims["is_admin"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "carol@example.com", "badpass1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestAuthService_ParseToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	token, err := svc.IssueToken("user-1", false)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := svc.ParseToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.IsAdmin || claims.TokenID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseToken(context.Background(), token+"x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for tampered token, got %v", err)
	}

	other := NewAuthService(nil, nil, "another-secret", time.Hour)
	if _, err := other.ParseToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for foreign signature, got %v", err)
	}
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueToken("user-1", false)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	svc.now = time.Now
	if _, err := svc.ParseToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ParseToken(ctx, token); err != domain.ErrTokenRevoked {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	fresh, _, err := svc.Login(ctx, "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if _, err := svc.ParseToken(ctx, fresh); err != nil {
		t.Fatalf("a new token must not be affected by the old logout: %v", err)
	}
}
