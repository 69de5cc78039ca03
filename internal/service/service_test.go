package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/metrics"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage/sqlite"
)

// testEnv wires every service to a fresh SQLite database.
type testEnv struct {
	store      *sqlite.SQLiteStore
	auth       *AuthService
	users      *UserService
	sessions   *SessionService
	attendance *AttendanceService
	finance    *FinanceService
	matches    *MatchService
	dashboard  *DashboardService

	admin Actor
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"), sqlite.Options{MaxOpenConns: 4})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	authSvc := NewAuthService(authenticator, jwtManager, store, logger)
	env := &testEnv{
		store:      store,
		auth:       authSvc,
		users:      NewUserService(store, authSvc, authenticator, logger),
		sessions:   NewSessionService(store, logger),
		attendance: NewAttendanceService(store, m, logger),
		finance:    NewFinanceService(store, m, logger),
		matches:    NewMatchService(store, logger),
		dashboard:  NewDashboardService(store, logger),
	}

	if _, err := authSvc.EnsureAdmin(context.Background(), "admin", "admin123", "Administrator"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	env.admin = Actor{UserID: models.OriginalAdminID, Username: "admin", Role: models.RoleAdmin}
	return env
}

// player registers a Player and returns it as an actor.
func (e *testEnv) player(t *testing.T, username, fullName string) Actor {
	t.Helper()

	user, err := e.auth.Register(context.Background(), username, "secret123", fullName)
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return Actor{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func (e *testEnv) session(t *testing.T, date string) *models.Session {
	t.Helper()

	session, err := e.sessions.Create(context.Background(), e.admin, date, "19:00", "Court 1")
	if err != nil {
		t.Fatalf("Create session failed: %v", err)
	}
	return session
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
