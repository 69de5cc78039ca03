// Package service implements the club's use cases on top of storage.Store.
// Every exported method returns *apperr.Error values for expected failures.
package service

import (
	"errors"
	"strings"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// Actor is the authenticated caller, taken from the verified token.
type Actor struct {
	UserID   int64
	Username string
	Role     models.Role
}

// IsAdmin reports whether the caller holds the Admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// storeError classifies a store failure for the named resource.
func storeError(err error, resource, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, storage.ErrConflict):
		return apperr.Conflict(resource + " already exists")
	case errors.Is(err, storage.ErrTeamFull):
		return apperr.Validation("team is full for this match type")
	default:
		return apperr.Internal("failed to "+action, err)
	}
}

// optionalText trims s and returns nil when nothing is left.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
