package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const userColumns = `id, username, full_name, role, password_hash, created_at`

// CreateUser inserts a new user and sets its ID.
// Returns storage.ErrConflict if the username is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, full_name, role, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Username, user.FullName, user.Role, user.PasswordHash, user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("username %q: %w", user.Username, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByUsername retrieves a user by their username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// ListUsers returns every user ordered by full name.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY full_name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// CountUsersByRole returns the number of users holding role.
func (s *SQLiteStore) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = ?`, role); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return n, nil
}

// UpdateUserRole changes a user's role.
func (s *SQLiteStore) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return checkAffected(res, "user")
}

// UpdateUserPassword replaces a user's password hash.
func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return checkAffected(res, "user")
}

// DeleteUser removes a user. Their attendance and match slots cascade;
// ledger rows keep their amounts with the reference cleared.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res, "user")
}

// SearchUsers finds users whose full name or username contains query.
func (s *SQLiteStore) SearchUsers(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	pattern := "%" + escapeLike(query) + "%"
	results := []models.SearchResult{}
	err := s.db.SelectContext(ctx, &results,
		`SELECT id, full_name, username, role FROM users
		 WHERE full_name LIKE ? ESCAPE '\' OR username LIKE ? ESCAPE '\'
		 ORDER BY full_name COLLATE NOCASE
		 LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return results, nil
}
