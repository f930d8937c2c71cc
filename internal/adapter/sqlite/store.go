// Package sqlite implements the local persistence leg on an embedded SQLite
// database. It mirrors the method sets of the postgres repositories so the
// services can run against either backend, or mirror writes to both.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/momsflavor/backend/internal/domain"
)

// Store wraps the embedded database and hands out per-entity views.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the local database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Ping verifies the database file is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunInTx executes fn directly. SQLite serializes writers, so the service
// layer's transactional callbacks run without an explicit transaction here.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Recipes returns the recipe view of the store.
func (s *Store) Recipes() *RecipeStore { return &RecipeStore{db: s.db} }

// Sessions returns the cooking-session view of the store.
func (s *Store) Sessions() *SessionStore { return &SessionStore{db: s.db} }

// Diary returns the diary view of the store.
func (s *Store) Diary() *DiaryStore { return &DiaryStore{db: s.db} }

// Users returns the user view of the store.
func (s *Store) Users() *UserStore { return &UserStore{db: s.db} }

// Tokens returns the refresh-token view of the store.
func (s *Store) Tokens() *TokenStore { return &TokenStore{db: s.db} }

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_users",
		sql: `CREATE TABLE users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
	},
	{
		version: "002_refresh_tokens",
		sql: `CREATE TABLE refresh_tokens (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at TEXT NOT NULL,
			created_at TEXT NOT NULL,
			revoked_at TEXT
		)`,
	},
	{
		version: "003_recipes",
		sql: `CREATE TABLE recipes (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			dish_name      TEXT NOT NULL,
			recipe_name    TEXT NOT NULL,
			difficulty     TEXT NOT NULL,
			cooking_time   TEXT NOT NULL,
			ingredients    TEXT NOT NULL,
			instructions   TEXT NOT NULL,
			tips           TEXT,
			cover_image    TEXT,
			gallery_images TEXT NOT NULL,
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
	},
	{
		version: "004_cooking_sessions",
		sql: `CREATE TABLE cooking_sessions (
			user_id         TEXT NOT NULL,
			recipe_id       TEXT NOT NULL,
			completed_steps TEXT NOT NULL,
			active_timers   TEXT NOT NULL,
			updated_at      TEXT NOT NULL,
			PRIMARY KEY (user_id, recipe_id)
		)`,
	},
	{
		version: "005_diary_entries",
		sql: `CREATE TABLE diary_entries (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			recipe_id    TEXT NOT NULL,
			dish_name    TEXT NOT NULL,
			cook_date    TEXT NOT NULL,
			mistakes     TEXT,
			improvements TEXT,
			photo_urls   TEXT NOT NULL,
			rating       INTEGER,
			created_at   TEXT NOT NULL
		)`,
	},
}

func (s *Store) applyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrations: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// mapError translates driver errors into domain sentinels.
func mapError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", entity, domain.ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
