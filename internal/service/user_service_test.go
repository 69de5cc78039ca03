package service

import (
	"context"
	"testing"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/models"
)

func TestDeleteUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	secondAdmin, err := env.users.Create(ctx, "boss", "secret123", "Second Admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	boss := Actor{UserID: secondAdmin.ID, Role: models.RoleAdmin}

	t.Run("original admin cannot be deleted", func(t *testing.T) {
		wantKind(t, env.users.Delete(ctx, boss, models.OriginalAdminID), apperr.KindValidation)
	})

	t.Run("self cannot be deleted", func(t *testing.T) {
		wantKind(t, env.users.Delete(ctx, boss, boss.UserID), apperr.KindValidation)
	})

	t.Run("missing user", func(t *testing.T) {
		wantKind(t, env.users.Delete(ctx, boss, 999), apperr.KindNotFound)
	})

	t.Run("other user is deleted", func(t *testing.T) {
		alice := env.player(t, "alice", "Alice")
		if err := env.users.Delete(ctx, boss, alice.UserID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})
}

func TestCreateUserRoleFallback(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.users.Create(context.Background(), "dave", "secret123", "Dave", models.Role("Coach"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.Role != models.RolePlayer {
		t.Errorf("role = %s, want Player", user.Role)
	}
}

func TestChangePassword(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.player(t, "alice", "Alice")
	bob := env.player(t, "bob", "Bob")

	t.Run("wrong old password", func(t *testing.T) {
		err := env.users.ChangePassword(ctx, alice, alice.UserID, "not-it", "newsecret")
		wantKind(t, err, apperr.KindAuthentication)
	})

	t.Run("someone else's password", func(t *testing.T) {
		err := env.users.ChangePassword(ctx, alice, bob.UserID, "secret123", "newsecret")
		wantKind(t, err, apperr.KindAuthorization)
	})

	t.Run("own password with old password", func(t *testing.T) {
		if err := env.users.ChangePassword(ctx, alice, alice.UserID, "secret123", "newsecret"); err != nil {
			t.Fatalf("ChangePassword failed: %v", err)
		}
		if _, err := env.auth.Login(ctx, "alice", "newsecret"); err != nil {
			t.Errorf("login with new password failed: %v", err)
		}
	})

	t.Run("admin resets without old password", func(t *testing.T) {
		if err := env.users.ChangePassword(ctx, env.admin, bob.UserID, "", "resetpass"); err != nil {
			t.Fatalf("ChangePassword failed: %v", err)
		}
		if _, err := env.auth.Login(ctx, "bob", "resetpass"); err != nil {
			t.Errorf("login with reset password failed: %v", err)
		}
	})
}

func TestRoleConversion(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.player(t, "alice", "Alice")

	wantKind(t, env.users.GuestToPlayer(ctx, alice.UserID), apperr.KindValidation)

	if err := env.users.PlayerToGuest(ctx, alice.UserID); err != nil {
		t.Fatalf("PlayerToGuest failed: %v", err)
	}
	user, _ := env.users.Profile(ctx, alice)
	if user.Role != models.RoleGuest {
		t.Errorf("role = %s, want Guest", user.Role)
	}

	if err := env.users.GuestToPlayer(ctx, alice.UserID); err != nil {
		t.Fatalf("GuestToPlayer failed: %v", err)
	}

	wantKind(t, env.users.ChangeRole(ctx, alice.UserID, "Owner"), apperr.KindValidation)
	wantKind(t, env.users.ChangeRole(ctx, 999, models.RoleGuest), apperr.KindNotFound)
}
