package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/badsession/badsession/internal/api"
	"github.com/badsession/badsession/internal/auth"
	"github.com/badsession/badsession/internal/config"
	"github.com/badsession/badsession/internal/metrics"
	"github.com/badsession/badsession/internal/storage/sqlite"
	"github.com/badsession/badsession/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	store, err := sqlite.New(cfg.DBPath, sqlite.Options{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath, "max_open_conns", cfg.DBMaxOpenConns)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	m := metrics.New()

	services := api.NewServices(store, authenticator, jwtManager, m, logger)

	seeded, err := services.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName)
	if err != nil {
		logger.Error("Failed to seed administrator", "error", err)
		os.Exit(1)
	}
	if seeded {
		logger.Warn("Seeded default administrator, change its password", "username", cfg.AdminUsername)
	}

	app := api.New(services, store, jwtManager, m, logger, api.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		LoginRateLimit: cfg.LoginRateLimit,
		StaticPath:     cfg.StaticPath,
	})

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		sig := <-stop

		logger.Info("Shutting down", "signal", sig.String())
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info("Server starting", "address", cfg.Addr())
	if err := app.Listen(cfg.Addr()); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
