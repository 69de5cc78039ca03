package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// UserService manages accounts on behalf of administrators.
type UserService struct {
	users         storage.UserStore
	accounts      *AuthService
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewUserService creates a user service. Account creation goes through
// accounts so the same validation applies as for self-registration.
func NewUserService(users storage.UserStore, accounts *AuthService, authenticator auth.Authenticator, logger *slog.Logger) *UserService {
	return &UserService{
		users:         users,
		accounts:      accounts,
		authenticator: authenticator,
		logger:        logger,
	}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("ListUsers failed", "error", err)
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	return s.get(ctx, actor.UserID)
}

func (s *UserService) get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

// Create adds an account with the given role. Unknown or empty roles
// fall back to Player.
func (s *UserService) Create(ctx context.Context, username, password, fullName string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		role = models.RolePlayer
	}
	return s.accounts.createAccount(ctx, username, password, fullName, role)
}

// ChangeRole sets a user's role.
func (s *UserService) ChangeRole(ctx context.Context, id int64, role models.Role) error {
	if !role.Valid() {
		return apperr.Validation("role must be one of Admin, Player, Guest")
	}
	if err := s.users.UpdateUserRole(ctx, id, role); err != nil {
		return storeError(err, "user", "update role")
	}
	s.logger.Info("User role changed", "user_id", id, "role", role)
	return nil
}

// ChangePassword replaces a user's password. Admins may change anyone's
// password without the old one; everyone else only their own, and only
// with the correct old password.
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, id int64, oldPassword, newPassword string) error {
	if !actor.IsAdmin() && actor.UserID != id {
		return apperr.Authorization("you can only change your own password")
	}
	if newPassword == "" {
		return apperr.Validation("new password is required")
	}
	if err := s.authenticator.ValidateCredential(newPassword); err != nil {
		return apperr.Validation("%s", err.Error())
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if oldPassword == "" {
			return apperr.Validation("current password is required")
		}
		if err := s.authenticator.Verify(user, oldPassword); err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return apperr.Authentication("current password is incorrect")
			}
			return apperr.Internal("failed to verify password", err)
		}
	}

	hash, err := s.authenticator.Hash(newPassword)
	if err != nil {
		return apperr.Internal("failed to change password", err)
	}
	if err := s.users.UpdateUserPassword(ctx, id, hash); err != nil {
		return storeError(err, "user", "change password")
	}

	s.logger.Info("Password changed", "user_id", id, "by", actor.UserID)
	return nil
}

// Delete removes a user. The original administrator and the caller's own
// account can never be deleted.
func (s *UserService) Delete(ctx context.Context, actor Actor, id int64) error {
	if id == models.OriginalAdminID {
		return apperr.Validation("the original administrator cannot be deleted")
	}
	if id == actor.UserID {
		return apperr.Validation("you cannot delete your own account")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return storeError(err, "user", "delete user")
	}
	s.logger.Info("User deleted", "user_id", id, "by", actor.UserID)
	return nil
}

// PlayerToGuest demotes a Player to Guest.
func (s *UserService) PlayerToGuest(ctx context.Context, id int64) error {
	return s.convert(ctx, id, models.RolePlayer, models.RoleGuest)
}

// GuestToPlayer promotes a Guest to Player.
func (s *UserService) GuestToPlayer(ctx context.Context, id int64) error {
	return s.convert(ctx, id, models.RoleGuest, models.RolePlayer)
}

func (s *UserService) convert(ctx context.Context, id int64, from, to models.Role) error {
	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != from {
		return apperr.Validation("user is not a %s", from)
	}
	return s.ChangeRole(ctx, id, to)
}
