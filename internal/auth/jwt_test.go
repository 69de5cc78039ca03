package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/badsession/badsession/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", 24*time.Hour)
	user := &models.User{ID: 42, Username: "alice", Role: models.RolePlayer}

	t.Run("Generate and Validate round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != 42 || claims.Username != "alice" || claims.Role != models.RolePlayer {
			t.Errorf("unexpected claims: %+v", claims)
		}
		if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
			t.Errorf("token validity = %v, want 24h", got)
		}
	})

	t.Run("Rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		token, _ := other.Generate(user)

		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Rejects expired token", func(t *testing.T) {
		past := NewJWTManager("test-secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _ := past.Generate(user)

		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Rejects unknown role", func(t *testing.T) {
		token, err := manager.Generate(&models.User{ID: 7, Username: "coach", Role: models.Role("Coach")})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for unknown role, got %v", err)
		}
	})

	t.Run("Sets issuer and subject", func(t *testing.T) {
		token, _ := manager.Generate(user)
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Issuer != TokenIssuer || claims.Subject != "42" {
			t.Errorf("unexpected registered claims: iss=%q sub=%q", claims.Issuer, claims.Subject)
		}
	})
}
