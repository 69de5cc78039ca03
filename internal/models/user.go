package models

import "time"

// Role is the access level embedded in every token.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RolePlayer Role = "Player"
	RoleGuest  Role = "Guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePlayer, RoleGuest:
		return true
	}
	return false
}

// OriginalAdminID is the seeded administrator, which can never be deleted.
const OriginalAdminID int64 = 1

// User represents a registered club member.
type User struct {
	// ID is the rowid assigned by the store.
	ID int64 `json:"id" db:"id"`

	// Username is the unique login name.
	Username string `json:"username" db:"username"`

	// FullName is the display name used across attendance and finance views.
	FullName string `json:"full_name" db:"full_name"`

	// Role gates access to admin-only endpoints.
	Role Role `json:"role" db:"role"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at" db:"created_at"`
}

// NewUser creates a user with the given credentials and the current timestamp.
func NewUser(username, fullName, passwordHash string, role Role) *User {
	return &User{
		Username:     username,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
