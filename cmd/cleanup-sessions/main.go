// Command cleanup-sessions deletes expired and revoked sessions.
//
// Usage:
//
//	cleanup-sessions
//
// Requires DATABASE_DSN environment variable to be set. Intended to run
// from cron; live sessions are never touched.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		log.Fatal("DATABASE_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	tag, err := pool.Exec(ctx,
		"DELETE FROM sessions WHERE expires_at < now() OR revoked_at IS NOT NULL",
	)
	if err != nil {
		log.Fatalf("cleanup sessions: %v", err)
	}

	fmt.Printf("Deleted %d expired/revoked sessions.\n", tag.RowsAffected())
}
