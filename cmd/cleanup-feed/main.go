// Command cleanup-feed trims activity feed rows older than the configured
// retention period. The feed is a cache over the audit trail, so trimmed
// rows remain queryable through audit reports. Intended to be invoked by
// an external cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/feed"
	"github.com/brewmetric/brewmetric-backend/internal/app"
	"github.com/brewmetric/brewmetric-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	feedRepo := feed.New(pool)

	threshold := time.Now().AddDate(0, 0, -cfg.Inventory.FeedRetentionDays)

	deleted, err := feedRepo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		logger.Error("trim feed failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("trim feed completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
