// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/badsession/badsession/internal/models"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("conflict")

	// ErrUnknownUser is returned when a write references a user that no
	// longer exists. It matches ErrNotFound as well.
	ErrUnknownUser = fmt.Errorf("user %w", ErrNotFound)

	// ErrTeamFull is returned when a match team is already at capacity.
	ErrTeamFull = errors.New("team is full")
)

// UserStore persists user accounts.
// Lookups return (nil, nil) when the user does not exist.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role models.Role) (int64, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// SessionStore persists sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id int64) (*models.Session, error)

	// ListSessions returns sessions newest first with attendance counts.
	// A limit of zero returns every session.
	ListSessions(ctx context.Context, limit int) ([]models.Session, error)
	DeleteSession(ctx context.Context, id int64) error
}

// AttendanceStore persists check-ins.
type AttendanceStore interface {
	// CheckIn records the attendance in one transaction. For guest rows it
	// also inserts the guest daily fee as a donation when the configured
	// rate is positive, and returns that donation. Returns ErrNotFound if
	// the session does not exist and ErrConflict on a duplicate self check-in.
	CheckIn(ctx context.Context, attendance *models.Attendance) (*models.Donation, error)

	GetAttendance(ctx context.Context, id int64) (*models.Attendance, error)
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	ListSessionAttendance(ctx context.Context, sessionID int64) ([]models.AttendanceRecord, error)
	UpdateGuestName(ctx context.Context, id int64, guestName string) error
	DeleteAttendance(ctx context.Context, id int64) error
	PlayerHistory(ctx context.Context, userID int64) ([]models.AttendanceHistory, error)
	GuestHistory(ctx context.Context, guestName string) ([]models.AttendanceHistory, error)
	CountDistinctGuests(ctx context.Context) (int64, error)
	SearchGuests(ctx context.Context, query string, limit int) ([]string, error)
}

// FinanceStore persists the ledger and the finance settings.
type FinanceStore interface {
	CreateDonation(ctx context.Context, donation *models.Donation) error
	UpdateDonation(ctx context.Context, donation *models.Donation) error
	DeleteDonation(ctx context.Context, id int64) error
	ListDonations(ctx context.Context, limit int) ([]models.Donation, error)
	SetDonationPaid(ctx context.Context, id int64) error
	ToggleDonationPaid(ctx context.Context, id int64) (bool, error)

	CreateExpense(ctx context.Context, expense *models.Expense) error
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, limit int) ([]models.Expense, error)
	ToggleExpensePaid(ctx context.Context, id int64) (bool, error)

	// Summary sums paid donations and expenses, overall and since the given
	// Unix timestamp.
	Summary(ctx context.Context, since int64) (*models.FinanceSummary, error)
	TopContributors(ctx context.Context, limit int) ([]models.Contributor, error)

	GetFinanceSettings(ctx context.Context) (*models.FinanceSettings, error)

	// UpdateFinanceSettings saves the settings and, when they name a monthly
	// target, applies the dues to every Player in the same transaction.
	// Returns the number of donations created.
	UpdateFinanceSettings(ctx context.Context, settings *models.FinanceSettings) (int, error)

	// ApplyMonthlyIncome inserts one dues donation per listed player unless
	// any of them already has one for the same month and amount.
	// Returns the number of donations created.
	ApplyMonthlyIncome(ctx context.Context, income models.MonthlyIncome) (int, error)
}

// MatchStore persists matches, their players and results.
type MatchStore interface {
	// CreateMatch assigns the next match number in the session and creates
	// a zero-score result in one transaction.
	CreateMatch(ctx context.Context, match *models.Match) error
	GetMatch(ctx context.Context, id int64) (*models.Match, error)
	ListMatchesBySession(ctx context.Context, sessionID int64) ([]models.Match, error)

	// AddMatchPlayer returns ErrTeamFull when the team is at capacity for
	// the match type and ErrConflict when the player is already in the match.
	AddMatchPlayer(ctx context.Context, player *models.MatchPlayer) error
	RemoveMatchPlayer(ctx context.Context, id int64) error
	UpdateMatchResult(ctx context.Context, matchID int64, result models.MatchResult) error
	UpdateMatch(ctx context.Context, matchID int64, patch models.MatchPatch) error
	DeleteMatch(ctx context.Context, id int64) error
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	SessionStore
	AttendanceStore
	FinanceStore
	MatchStore

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
