package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/acquisitions/acquisitions-api/internal/config"
	"github.com/acquisitions/acquisitions-api/internal/crypto"
	"github.com/acquisitions/acquisitions-api/internal/handler"
	"github.com/acquisitions/acquisitions-api/internal/middleware"
	"github.com/acquisitions/acquisitions-api/internal/repository"
	"github.com/acquisitions/acquisitions-api/internal/service"
	"github.com/acquisitions/acquisitions-api/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	conn, err := repository.Open(startCtx, cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.MongoDatabase)
	cancel()
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("token service", "error", err)
		os.Exit(1)
	}
	carrier := session.NewCarrier(cfg.SecureCookies(), tokens.TTL())

	users := service.NewUserService(conn.Users, crypto.NewHasher(crypto.DefaultCost, 0))

	router := handler.NewRouter(handler.RouterConfig{
		Auth:          handler.NewAuthHandler(users, tokens, carrier),
		Users:         handler.NewUserHandler(users),
		Health:        handler.NewHealthHandler(),
		Authenticator: middleware.NewAuthenticator(tokens, carrier),
		AuthRateLimit: middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSOrigin:    cfg.CORSAllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := conn.Close(shutdownCtx); err != nil {
		slog.Error("database close", "error", err)
	}

	slog.Info("server stopped")
}

// newLogger writes text logs locally and JSON logs everywhere else.
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsLocal() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("service", "acquisitions-api")
}
