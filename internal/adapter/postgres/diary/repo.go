// Package diary implements the cooking-diary repository using PostgreSQL.
// Entries are append-only: there is no update operation by design.
package diary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/adapter/postgres"
	"github.com/momsflavor/backend/internal/domain"
)

// Repo provides diary-entry persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new diary repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

const entryColumns = `id, user_id, recipe_id, dish_name, cook_date, mistakes, improvements, photo_urls, rating, created_at`

const createSQL = `
INSERT INTO diary_entries (id, user_id, recipe_id, dish_name, cook_date, mistakes, improvements, photo_urls, rating)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + entryColumns

const getByIDSQL = `
SELECT ` + entryColumns + `
FROM diary_entries
WHERE id = $1 AND user_id = $2`

const listSQL = `
SELECT ` + entryColumns + `
FROM diary_entries
WHERE user_id = $1
ORDER BY cook_date DESC, created_at DESC`

// Create inserts a diary entry and returns the stored row.
func (r *Repo) Create(ctx context.Context, entry *domain.DiaryEntry) (*domain.DiaryEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	if entry.PhotoURLs == nil {
		entry.PhotoURLs = []string{}
	}
	photos, err := json.Marshal(entry.PhotoURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal photo urls: %w", err)
	}

	row := q.QueryRow(ctx, createSQL,
		id, entry.UserID, entry.RecipeID, entry.DishName, entry.CookDate,
		entry.Mistakes, entry.Improvements, photos, entry.Rating,
	)

	created, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "diary_entry", id)
	}
	return created, nil
}

// GetByID returns a diary entry scoped to its owner.
func (r *Repo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.DiaryEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	entry, err := scanEntry(q.QueryRow(ctx, getByIDSQL, entryID, userID))
	if err != nil {
		return nil, postgres.MapError(err, "diary_entry", entryID)
	}
	return entry, nil
}

// List returns the user's diary entries, most recent cook date first.
// Returns an empty slice (not nil) when the diary is empty.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]*domain.DiaryEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	rows, err := q.Query(ctx, listSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.DiaryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list diary entries: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.DiaryEntry, error) {
	var (
		entry     domain.DiaryEntry
		photosDoc []byte
	)

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.RecipeID, &entry.DishName, &entry.CookDate,
		&entry.Mistakes, &entry.Improvements, &photosDoc, &entry.Rating, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(photosDoc, &entry.PhotoURLs); err != nil {
		return nil, fmt.Errorf("decode photo urls: %w", err)
	}

	return &entry, nil
}
