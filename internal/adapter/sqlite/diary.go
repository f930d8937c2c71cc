package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// DiaryStore persists diary entries in the local database. Append-only.
type DiaryStore struct {
	db *sql.DB
}

const diaryColumns = `id, user_id, recipe_id, dish_name, cook_date, mistakes, improvements, photo_urls, rating, created_at`

// Create inserts a diary entry and returns the stored row.
func (s *DiaryStore) Create(ctx context.Context, entry *domain.DiaryEntry) (*domain.DiaryEntry, error) {
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diary_entries (`+diaryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, entry.UserID, entry.RecipeID, entry.DishName, formatTime(entry.CookDate),
		entry.Mistakes, entry.Improvements, string(photos), entry.Rating,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return nil, mapError(err, "diary_entry")
	}

	return s.GetByID(ctx, entry.UserID, id)
}

// GetByID returns a diary entry scoped to its owner.
func (s *DiaryStore) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.DiaryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+diaryColumns+` FROM diary_entries WHERE id = ? AND user_id = ?`,
		entryID, userID,
	)
	entry, err := scanDiaryEntry(row)
	if err != nil {
		return nil, mapError(err, "diary_entry")
	}
	return entry, nil
}

// List returns the user's diary entries, most recent cook date first.
func (s *DiaryStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+diaryColumns+` FROM diary_entries
		WHERE user_id = ?
		ORDER BY cook_date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.DiaryEntry{}
	for rows.Next() {
		entry, err := scanDiaryEntry(rows)
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

func scanDiaryEntry(scanner interface{ Scan(dest ...any) error }) (*domain.DiaryEntry, error) {
	var (
		entry      domain.DiaryEntry
		cookRaw    string
		photosDoc  string
		createdRaw string
	)

	err := scanner.Scan(
		&entry.ID, &entry.UserID, &entry.RecipeID, &entry.DishName, &cookRaw,
		&entry.Mistakes, &entry.Improvements, &photosDoc, &entry.Rating, &createdRaw,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(photosDoc), &entry.PhotoURLs); err != nil {
		return nil, fmt.Errorf("decode photo urls: %w", err)
	}
	if entry.CookDate, err = parseTimeString(cookRaw); err != nil {
		return nil, fmt.Errorf("parse cook_date: %w", err)
	}
	if entry.CreatedAt, err = parseTimeString(createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &entry, nil
}
