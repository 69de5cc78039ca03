package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/models"
)

// newTestApp maps apperr kinds to statuses the same way the server does.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return c.Status(appErr.Kind.Status()).JSON(fiber.Map{"error": appErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
		},
	})
}

func TestRequireAuthAndRole(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	expired := auth.NewJWTManager("test-secret", -time.Minute)
	otherKey := auth.NewJWTManager("other-secret", time.Hour)

	app := newTestApp()
	app.Get("/me", RequireAuth(jwtManager), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	app.Get("/admin", RequireAuth(jwtManager), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	player := &models.User{ID: 2, Username: "alice", Role: models.RolePlayer}
	admin := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}

	token := func(m *auth.JWTManager, u *models.User) string {
		tok, err := m.Generate(u)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return "Bearer " + tok
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", fiber.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "/me", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"expired token", "/me", token(expired, player), fiber.StatusUnauthorized},
		{"wrong key", "/me", token(otherKey, player), fiber.StatusUnauthorized},
		{"valid token", "/me", token(jwtManager, player), fiber.StatusOK},
		{"player on admin route", "/admin", token(jwtManager, player), fiber.StatusForbidden},
		{"admin on admin route", "/admin", token(jwtManager, admin), fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	app := newTestApp()
	app.Get("/", Timeout(time.Second), func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); !ok {
			return apperr.Internal("no deadline", context.DeadlineExceeded)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
