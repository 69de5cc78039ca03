package auth

import (
	"context"

	"github.com/badsession/badsession/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// The services only see this interface, so the credential scheme can change
// without touching them.
type Authenticator interface {
	// Register creates a new account with the given username and credential.
	Register(ctx context.Context, username, fullName, credential string, role models.Role) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// Verify checks a credential against an existing user without a lookup.
	Verify(user *models.User, credential string) error

	// Hash derives the stored form of a credential.
	Hash(credential string) (string, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
