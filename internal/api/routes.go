package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/middleware"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/service"
)

const registerRateLimit = 5

func (s *Server) registerRoutes(api fiber.Router) {
	requireAuth := middleware.RequireAuth(s.jwtManager)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	registerLimit := s.opts.RegisterRateLimit
	if registerLimit <= 0 {
		registerLimit = registerRateLimit
	}

	api.Get("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", rateLimit(registerLimit, "too many registration attempts, try again later"), s.register)
	authGroup.Post("/login", rateLimit(s.opts.LoginRateLimit, "too many login attempts, try again later"), s.login)
	authGroup.Get("/me", requireAuth, s.me)

	users := api.Group("/users", requireAuth)
	users.Get("/", adminOnly, s.listUsers)
	users.Post("/", adminOnly, s.createUser)
	users.Get("/profile/me", s.profile)
	users.Put("/:id/role", adminOnly, s.changeRole)
	users.Put("/:id/password", s.changePassword)
	users.Delete("/:id", adminOnly, s.deleteUser)
	users.Post("/:id/player-to-guest", adminOnly, s.playerToGuest)
	users.Post("/:id/guest-to-player", adminOnly, s.guestToPlayer)

	sessions := api.Group("/sessions", requireAuth)
	sessions.Get("/", s.listSessions)
	sessions.Post("/", adminOnly, s.createSession)
	sessions.Get("/:id", s.getSession)
	sessions.Delete("/:id", adminOnly, s.deleteSession)

	attendance := api.Group("/attendance", requireAuth)
	attendance.Get("/", s.listAttendance)
	attendance.Post("/check-in", s.checkIn)
	attendance.Get("/player/:player_id/history", s.playerHistory)
	attendance.Get("/guest/:guest_name/history", s.guestHistory)
	attendance.Put("/:id", s.updateAttendance)
	attendance.Delete("/:id", s.deleteAttendance)

	finance := api.Group("/finance", requireAuth)
	finance.Get("/donations", s.listDonations)
	finance.Post("/donations", adminOnly, s.recordDonation)
	finance.Get("/donations/top/contributors", s.topContributors)
	finance.Get("/income", s.listDonations)
	finance.Post("/income", adminOnly, s.recordDonation)
	finance.Put("/income/:id", adminOnly, s.updateDonation)
	finance.Delete("/income/:id", adminOnly, s.deleteDonation)
	finance.Post("/income/:id/paid", adminOnly, s.markDonationPaid)
	finance.Post("/income/:id/toggle-paid", adminOnly, s.toggleDonationPaid)
	finance.Get("/expenses", s.listExpenses)
	finance.Post("/expenses", adminOnly, s.recordExpense)
	finance.Put("/expenses/:id", adminOnly, s.updateExpense)
	finance.Delete("/expenses/:id", adminOnly, s.deleteExpense)
	finance.Post("/expenses/:id/toggle-paid", adminOnly, s.toggleExpensePaid)
	finance.Get("/summary", s.financeSummary)
	finance.Get("/search", s.search)
	finance.Get("/settings", s.getSettings)
	finance.Post("/settings", adminOnly, s.updateSettings)
	finance.Post("/apply-player-income", adminOnly, s.applyPlayerIncome)

	matches := api.Group("/matches", requireAuth)
	matches.Get("/session/:sessionId", s.listMatches)
	matches.Post("/", s.createMatch)
	matches.Delete("/player/:playerId", s.removeMatchPlayer)
	matches.Get("/:matchId", s.getMatch)
	matches.Put("/:matchId", s.updateMatch)
	matches.Delete("/:matchId", s.deleteMatch)
	matches.Post("/:matchId/player", s.addMatchPlayer)
	matches.Put("/:matchId/result", s.updateMatchResult)
	matches.Put("/:matchId/status", s.updateMatchStatus)

	api.Get("/dashboard", requireAuth, s.dashboard)

	api.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("endpoint")
	})
}

// actor builds the service caller from the verified token.
func actor(c *fiber.Ctx) service.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.store.Ping(c.UserContext()); err != nil {
		s.logger.Error("Health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
