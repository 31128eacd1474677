package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/account"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/feed"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/session"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/waste"
	"github.com/brewmetric/brewmetric-backend/internal/auth"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/service/activity"
	"github.com/brewmetric/brewmetric-backend/internal/service/credential"
	"github.com/brewmetric/brewmetric-backend/internal/service/export"
	"github.com/brewmetric/brewmetric-backend/internal/service/inventory"
	"github.com/brewmetric/brewmetric-backend/internal/service/report"
	wastesvc "github.com/brewmetric/brewmetric-backend/internal/service/waste"
	"github.com/brewmetric/brewmetric-backend/internal/transport/middleware"
	"github.com/brewmetric/brewmetric-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects
// to the database, runs migrations, wires the services, ensures the
// bootstrap admin exists, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.Database.DSN); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	accounts := account.New(pool)
	sessions := session.New(pool)
	items := item.New(pool)
	wastes := waste.New(pool)
	auditTrail := audit.New(pool)
	feedRepo := feed.New(pool)

	txManager := postgres.NewTxManager(pool, cfg.Database.QueryTimeout)
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	credentialSvc := credential.NewService(logger, accounts, sessions, auditTrail, txManager, tokens, cfg.Auth)
	inventorySvc := inventory.NewService(logger, items, auditTrail, feedRepo, txManager, cfg.Inventory)
	wasteSvc := wastesvc.NewService(logger, items, wastes, auditTrail, feedRepo, txManager, cfg.Inventory)
	activitySvc := activity.NewService(logger, feedRepo, auditTrail, txManager, cfg.Inventory)
	reportSvc := report.NewService(logger, items, wastes, auditTrail, txManager, cfg.Inventory)
	exportSvc := export.NewService(logger, items, wastes, auditTrail, auditTrail, cfg.Inventory)

	if err := credentialSvc.EnsureBootstrapAdmin(ctx); err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterConfig{
		Logger:             logger,
		CORS:               cfg.CORS,
		Auth:               middleware.Auth(tokens, credentialSvc),
		Limiter:            limiter,
		LoginRatePerMinute: cfg.Server.LoginRatePerMinute,
		Health:             rest.NewHealthHandler(pool, BuildVersion()),
		AuthH:              rest.NewAuthHandler(credentialSvc, logger),
		Accounts:           rest.NewAccountsHandler(credentialSvc, logger),
		Inventory:          rest.NewInventoryHandler(inventorySvc, logger),
		Waste:              rest.NewWasteHandler(wasteSvc, logger),
		Activity:           rest.NewActivityHandler(activitySvc, logger),
		Reports:            rest.NewReportsHandler(reportSvc, logger),
		Exports:            rest.NewExportsHandler(exportSvc, logger),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("http server listening", slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
