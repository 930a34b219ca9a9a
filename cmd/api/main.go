// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

// Command api is the entry point for the Vendora storefront API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Load the identity provider's public key for token verification.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vendora/storefront/internal/api"
	"github.com/vendora/storefront/internal/authflow"
	"github.com/vendora/storefront/internal/order"
	"github.com/vendora/storefront/internal/platform/config"
	"github.com/vendora/storefront/internal/platform/constants"
	"github.com/vendora/storefront/internal/platform/migration"
	pgstore "github.com/vendora/storefront/internal/platform/postgres"
	redisstore "github.com/vendora/storefront/internal/platform/redis"
	"github.com/vendora/storefront/internal/platform/sec"
	"github.com/vendora/storefront/internal/product"
	"github.com/vendora/storefront/internal/productclient"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Vendora] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Application-lifetime context, cancelled on SIGTERM/SIGINT. Background
	// work that must outlive startup (rate limiter cleanup) ties to this.
	appCtx, appStop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer appStop()

	// Startup context for dialing and migrations. Use a 30s deadline so
	// misconfiguration is caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Verification ─────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath)
	must(log, err, "load token verification key")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	flowStore := authflow.NewRedisStore(rdb)
	flowService := authflow.NewService(authflow.Options{
		Authority:             cfg.OIDCAuthority,
		ClientID:              cfg.OIDCClientID,
		RedirectURI:           cfg.OIDCRedirectURI,
		Scopes:                strings.Fields(cfg.OIDCScopes),
		PostLogoutRedirectURI: cfg.OIDCPostLogoutRedirectURI,
	}, flowStore, flowStore)
	flowService.Subscribe(func(state authflow.AuthState) {
		if state.IsAuthenticated {
			log.Info("session established", "subject", state.User.Subject)
			return
		}
		log.Info("session ended")
	})
	authHandler := authflow.NewHandler(flowService, cfg.OIDCPostLoginRedirectURI, cfg.IsProduction())

	productRepository := product.NewPostgresRepository(pool)
	productService := product.NewService(productRepository, log)
	productHandler := product.NewHandler(productService)

	catalog := productclient.New(cfg.ProductServiceURL, nil)
	orderRepository := order.NewPostgresRepository(pool)
	orderService := order.NewService(orderRepository, catalog, log)
	orderHandler := order.NewHandler(orderService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Product:   productHandler,
		Order:     orderHandler,
	}

	server := api.NewServer(appCtx, cfg, log, verifier, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-appCtx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
