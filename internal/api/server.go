// Package api exposes the services over a JSON REST API built on fiber.
package api

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/metrics"
	"github.com/badsession/badsession/internal/middleware"
	"github.com/badsession/badsession/internal/service"
	"github.com/badsession/badsession/internal/storage"
)

// Options tunes the HTTP layer.
type Options struct {
	CORSOrigins       string
	RequestTimeout    time.Duration
	LoginRateLimit    int
	RegisterRateLimit int
	StaticPath        string
}

// Services bundles everything the handlers call.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Sessions   *service.SessionService
	Attendance *service.AttendanceService
	Finance    *service.FinanceService
	Matches    *service.MatchService
	Dashboard  *service.DashboardService
}

// NewServices builds every service on top of one store.
func NewServices(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) *Services {
	authSvc := service.NewAuthService(authenticator, jwtManager, store, logger)
	return &Services{
		Auth:       authSvc,
		Users:      service.NewUserService(store, authSvc, authenticator, logger),
		Sessions:   service.NewSessionService(store, logger),
		Attendance: service.NewAttendanceService(store, m, logger),
		Finance:    service.NewFinanceService(store, m, logger),
		Matches:    service.NewMatchService(store, logger),
		Dashboard:  service.NewDashboardService(store, logger),
	}
}

// Server holds the handler dependencies.
type Server struct {
	services   *Services
	store      storage.Store
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
	logger     *slog.Logger
	opts       Options
}

// New builds the fiber app with middleware, API routes, metrics and the
// static frontend.
func New(services *Services, store storage.Store, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger, opts Options) *fiber.App {
	s := &Server{
		services:   services,
		store:      store,
		jwtManager: jwtManager,
		metrics:    m,
		logger:     logger,
		opts:       opts,
	}

	app := fiber.New(fiber.Config{
		AppName:               "badsession",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.Metrics(m))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.Timeout(opts.RequestTimeout))

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	s.registerRoutes(app.Group("/api"))
	s.serveStatic(app)

	return app
}

// handleError renders every error as {"error": message}. Internal causes
// are logged and never sent to the client.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		status = appErr.Kind.Status()
		msg = appErr.Message
		if appErr.Kind == apperr.KindInternal {
			s.logger.Error("Internal error",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		msg = fiberErr.Message
	default:
		s.logger.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// rateLimit allows limit requests per minute per client IP.
func rateLimit(limit int, msg string) fiber.Handler {
	if limit <= 0 {
		limit = 10
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": msg})
		},
	})
}

// serveStatic serves the built frontend with index.html as the fallback
// for client-side routes. Unknown /api paths get a JSON 404 instead.
func (s *Server) serveStatic(app *fiber.App) {
	if s.opts.StaticPath == "" {
		return
	}
	staticDir, err := filepath.Abs(s.opts.StaticPath)
	if err != nil {
		s.logger.Warn("Failed to resolve static path", "path", s.opts.StaticPath, "error", err)
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		s.logger.Warn("Static directory not found, frontend disabled", "path", staticDir)
		return
	}
	s.logger.Info("Serving static files", "path", staticDir)

	app.Static("/", staticDir)
	index := filepath.Join(staticDir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Next()
		}
		return c.SendFile(index)
	})
}
