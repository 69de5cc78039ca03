package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/badsession/badsession/internal/models"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = fmt.Errorf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	ErrUsernameExists     = errors.New("username already exists")
)

// UserStorage defines the user persistence operations the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost returns a copy using the given bcrypt cost. Tests use bcrypt.MinCost.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: a.storage, cost: cost}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength || len(credential) > MaxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Hash returns the bcrypt hash of the password.
func (a *PasswordAuthenticator) Hash(credential string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, username, fullName, credential string, role models.Role) (*models.User, error) {
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existingUser, err := a.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := a.Hash(credential)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, fullName, hashedPassword, role)
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies the username and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		// Hash anyway so unknown usernames take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(credential))
		return nil, ErrInvalidCredentials
	}

	if err := a.Verify(user, credential); err != nil {
		return nil, err
	}

	return user, nil
}

// Verify compares the password with the user's stored hash.
func (a *PasswordAuthenticator) Verify(user *models.User, credential string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("badsession-dummy"), bcrypt.DefaultCost)
