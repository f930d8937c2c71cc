// Command seeder inserts the built-in sample recipes for a user. It is a
// development utility, not part of the main server.
//
// Flags:
//
//	--user  UUID of the recipe owner (required; use a device ID for guests)
//
// With DATABASE_DSN set it writes to PostgreSQL; otherwise to the embedded
// local store at LOCAL_STORE_PATH.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/adapter/postgres"
	pgrecipe "github.com/momsflavor/backend/internal/adapter/postgres/recipe"
	"github.com/momsflavor/backend/internal/adapter/provider/ai"
	"github.com/momsflavor/backend/internal/adapter/sqlite"
	"github.com/momsflavor/backend/internal/app"
	"github.com/momsflavor/backend/internal/config"
	"github.com/momsflavor/backend/internal/seed"
	"github.com/momsflavor/backend/internal/service/recipe"
	"github.com/momsflavor/backend/pkg/ctxutil"
)

func main() {
	userFlag := flag.String("user", "", "UUID of the recipe owner")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil || userID == uuid.Nil {
		log.Fatal("--user must be a valid UUID")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	svc, cleanup, err := buildRecipeService(ctx, cfg, logger)
	if err != nil {
		logger.Error("seeder setup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	count, err := seed.Run(ctxutil.WithUserID(ctx, userID), svc)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete",
		slog.Int("recipes", count),
		slog.String("user_id", userID.String()))
}

func buildRecipeService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*recipe.Service, func(), error) {
	aiClient := ai.New(cfg.AI, logger)

	if cfg.UsePostgres() {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return recipe.NewService(logger, pgrecipe.New(pool), aiClient), pool.Close, nil
	}

	local, err := sqlite.Open(cfg.Local.Path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { local.Close() } //nolint:errcheck
	return recipe.NewService(logger, local.Recipes(), aiClient), cleanup, nil
}
