package service

import (
	"context"
	"strings"
	"testing"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/models"
)

func TestEnsureAdmin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin, err := env.store.GetUserByID(ctx, models.OriginalAdminID)
	if err != nil || admin == nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if admin.Role != models.RoleAdmin || admin.Username != "admin" {
		t.Errorf("seeded admin = %+v", admin)
	}

	created, err := env.auth.EnsureAdmin(ctx, "other", "password", "Other")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("EnsureAdmin should not seed when users exist")
	}
}

func TestRegister(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		fullName string
		wantKind apperr.Kind
	}{
		{"missing full name", "carol", "secret123", "", apperr.KindValidation},
		{"short username", "ab", "secret123", "Ab", apperr.KindValidation},
		{"long username", strings.Repeat("x", 51), "secret123", "X", apperr.KindValidation},
		{"short password", "carol", "12345", "Carol", apperr.KindValidation},
		{"taken username", "admin", "secret123", "Imposter", apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.username, tt.password, tt.fullName)
			wantKind(t, err, tt.wantKind)
		})
	}

	t.Run("new users are players", func(t *testing.T) {
		user, err := env.auth.Register(ctx, "alice", "secret123", "Alice")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.Role != models.RolePlayer {
			t.Errorf("role = %s, want Player", user.Role)
		}
	})
}

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("valid credentials return a token", func(t *testing.T) {
		result, err := env.auth.Login(ctx, "admin", "admin123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.Token == "" || result.User.ID != models.OriginalAdminID {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "admin", "wrong-password")
		wantKind(t, err, apperr.KindAuthentication)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "nobody", "whatever")
		wantKind(t, err, apperr.KindAuthentication)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "", "")
		wantKind(t, err, apperr.KindValidation)
	})
}
