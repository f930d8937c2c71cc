// Command cleanup-tokens deletes expired and revoked refresh tokens. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// With DATABASE_DSN set it cleans the PostgreSQL store; otherwise it cleans
// the embedded local store at LOCAL_STORE_PATH.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/momsflavor/backend/internal/adapter/postgres"
	"github.com/momsflavor/backend/internal/adapter/postgres/token"
	"github.com/momsflavor/backend/internal/adapter/sqlite"
	"github.com/momsflavor/backend/internal/config"
)

type tokenCleaner interface {
	DeleteExpired(ctx context.Context) (int, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var tokens tokenCleaner
	if cfg.UsePostgres() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("connect to database: %v", err)
		}
		defer pool.Close()
		tokens = token.New(pool)
	} else {
		local, err := sqlite.Open(cfg.Local.Path)
		if err != nil {
			log.Fatalf("open local store: %v", err)
		}
		defer local.Close()
		tokens = local.Tokens()
	}

	count, err := tokens.DeleteExpired(ctx)
	if err != nil {
		log.Fatalf("cleanup tokens: %v", err)
	}

	fmt.Printf("Deleted %d expired/revoked refresh tokens.\n", count)
}
