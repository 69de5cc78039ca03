package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/badsession/badsession/internal/models"
)

// memoryUsers is an in-memory UserStorage for tests.
type memoryUsers struct {
	byName map[string]*models.User
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byName: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(ctx context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	m.byName[user.Username] = user
	return nil
}

func (m *memoryUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.byName[username], nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers()).WithCost(bcrypt.MinCost)

	t.Run("Register hashes password", func(t *testing.T) {
		user, err := a.Register(ctx, "alice", "Alice A", "pw123456", models.RolePlayer)
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == 0 {
			t.Error("expected ID to be assigned")
		}
		if user.PasswordHash == "pw123456" || user.PasswordHash == "" {
			t.Error("expected password to be hashed")
		}
		if user.Role != models.RolePlayer {
			t.Errorf("role = %s, want Player", user.Role)
		}
	})

	t.Run("Register rejects duplicate username", func(t *testing.T) {
		_, err := a.Register(ctx, "alice", "Other", "pw123456", models.RolePlayer)
		if !errors.Is(err, ErrUsernameExists) {
			t.Errorf("expected ErrUsernameExists, got %v", err)
		}
	})

	t.Run("Register rejects short password", func(t *testing.T) {
		_, err := a.Register(ctx, "bob", "Bob", "123", models.RolePlayer)
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
			wantErr  error
		}{
			{"valid credentials", "alice", "pw123456", nil},
			{"wrong password", "alice", "wrong-password", ErrInvalidCredentials},
			{"unknown user", "nobody", "pw123456", ErrInvalidCredentials},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user, err := a.Authenticate(ctx, tt.username, tt.password)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if tt.wantErr == nil && user.Username != tt.username {
					t.Errorf("username = %s, want %s", user.Username, tt.username)
				}
			})
		}
	})
}
