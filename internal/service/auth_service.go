package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// AuthService handles login, registration and admin seeding.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// LoginResult is a freshly issued token with the user it belongs to.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a Player account.
func (s *AuthService) Register(ctx context.Context, username, password, fullName string) (*models.User, error) {
	s.logger.Info("Register request", "username", username)
	return s.createAccount(ctx, username, password, fullName, models.RolePlayer)
}

// createAccount validates the input and registers a user with role.
func (s *AuthService) createAccount(ctx context.Context, username, password, fullName string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if username == "" || password == "" || fullName == "" {
		return nil, apperr.Validation("username, password and full name are required")
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, apperr.Validation("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if err := s.authenticator.ValidateCredential(password); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	user, err := s.authenticator.Register(ctx, username, fullName, password, role)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameExists) || errors.Is(err, storage.ErrConflict) {
			s.logger.Warn("Registration rejected", "username", username, "reason", "username taken")
			return nil, apperr.Conflict(auth.ErrUsernameExists.Error())
		}
		s.logger.Error("Registration failed", "username", username, "error", err)
		return nil, apperr.Internal("failed to create user", err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	s.logger.Info("Login request", "username", username)

	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "username", username)
			return nil, apperr.Authentication("invalid credentials")
		}
		s.logger.Error("Login failed", "username", username, "error", err)
		return nil, apperr.Internal("login failed", err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, apperr.Internal("login failed", err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return &LoginResult{Token: token, User: user}, nil
}

// Me returns the caller's stored account.
func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user")
	}
	return user, nil
}

// EnsureAdmin creates the original administrator when no users exist yet.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, fullName string) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, apperr.Internal("failed to count users", err)
	}
	if n > 0 {
		return false, nil
	}

	user, err := s.createAccount(ctx, username, password, fullName, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	s.logger.Info("Seeded administrator", "user_id", user.ID, "username", user.Username)
	return true, nil
}
