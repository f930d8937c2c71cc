// Package app assembles and runs the backend: configuration, stores,
// vendors, services, HTTP transport and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/momsflavor/backend/internal/adapter/objectstore"
	"github.com/momsflavor/backend/internal/adapter/postgres"
	pgdiary "github.com/momsflavor/backend/internal/adapter/postgres/diary"
	pgrecipe "github.com/momsflavor/backend/internal/adapter/postgres/recipe"
	pgsession "github.com/momsflavor/backend/internal/adapter/postgres/session"
	pgtoken "github.com/momsflavor/backend/internal/adapter/postgres/token"
	pguser "github.com/momsflavor/backend/internal/adapter/postgres/user"
	"github.com/momsflavor/backend/internal/adapter/provider/ai"
	"github.com/momsflavor/backend/internal/adapter/provider/recommend"
	"github.com/momsflavor/backend/internal/adapter/provider/speech"
	"github.com/momsflavor/backend/internal/adapter/sqlite"
	internalauth "github.com/momsflavor/backend/internal/auth"
	"github.com/momsflavor/backend/internal/config"
	"github.com/momsflavor/backend/internal/service/auth"
	"github.com/momsflavor/backend/internal/service/cooking"
	"github.com/momsflavor/backend/internal/service/diary"
	"github.com/momsflavor/backend/internal/service/recipe"
	"github.com/momsflavor/backend/internal/transport/middleware"
	"github.com/momsflavor/backend/internal/transport/rest"
)

// Run is the application entry point. It assembles the whole dependency
// graph, starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("postgres", cfg.UsePostgres()),
	)

	// The local store is always open: it is the session mirror when
	// PostgreSQL is configured and the only store when it is not.
	local, err := sqlite.Open(cfg.Local.Path)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer local.Close()

	deps, err := buildStores(ctx, cfg, local)
	if err != nil {
		return err
	}
	defer deps.close()

	store, err := objectstore.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}

	aiClient := ai.New(cfg.AI, logger)
	speechProvider := speech.New(cfg.Speech, logger)
	recommendClient := recommend.New(cfg.Recommend, logger)

	jwtManager := internalauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authSvc := auth.NewService(logger, deps.users, deps.tokens, deps.tx, jwtManager, cfg.Auth)
	recipeSvc := recipe.NewService(logger, deps.recipes, aiClient)
	diarySvc := diary.NewService(logger, deps.diary, store, recommendClient)

	hub := cooking.NewHub()
	cookingSvc := cooking.NewService(logger, deps.sessions, deps.sessionMirror, deps.recipes, hub, cfg.Cooking.TickInterval)
	go cookingSvc.RunTicker(ctx)

	mux := rest.NewRouter(rest.Handlers{
		Auth:    rest.NewAuthHandler(authSvc, logger),
		Recipes: rest.NewRecipeHandler(recipeSvc, logger),
		Session: rest.NewSessionHandler(cookingSvc, logger),
		Diary:   rest.NewDiaryHandler(diarySvc, logger, cfg.Storage.MaxUploadSize),
		Upload:  rest.NewUploadHandler(store, logger, cfg.Storage.MaxUploadSize),
		AI:      rest.NewAIHandler(aiClient, speechProvider, store, logger, cfg.Storage.MaxUploadSize, !cfg.IsProduction()),
		Seed:    rest.NewSeedHandler(recipeSvc, logger, cfg.Seed.RouteEnabled),
		Health:  rest.NewHealthHandler(deps.pinger, BuildVersion()),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(authSvc),
		middleware.DeviceIdentity(),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// stores is the persistence wiring chosen once at startup.
type stores struct {
	recipes  recipeStore
	sessions sessionStore
	// sessionMirror is the local store when PostgreSQL is primary, nil when
	// the local store is already primary.
	sessionMirror sessionStore
	diary         diaryStore
	users         userStore
	tokens        tokenStore
	tx            txManager
	pinger        pinger

	pool interface{ Close() }
}

func (d *stores) close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

func buildStores(ctx context.Context, cfg *config.Config, local *sqlite.Store) (*stores, error) {
	if !cfg.UsePostgres() {
		return &stores{
			recipes:  local.Recipes(),
			sessions: local.Sessions(),
			diary:    local.Diary(),
			users:    local.Users(),
			tokens:   local.Tokens(),
			tx:       local,
			pinger:   local,
		}, nil
	}

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &stores{
		recipes:       pgrecipe.New(pool),
		sessions:      pgsession.New(pool),
		sessionMirror: local.Sessions(),
		diary:         pgdiary.New(pool),
		users:         pguser.New(pool),
		tokens:        pgtoken.New(pool),
		tx:            postgres.NewTxManager(pool),
		pinger:        pool,
		pool:          pool,
	}, nil
}
