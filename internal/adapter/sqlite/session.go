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

// SessionStore persists cooking sessions in the local database.
// One row per (user, recipe); last write wins.
type SessionStore struct {
	db *sql.DB
}

// Load returns the session for (user, recipe).
// Returns domain.ErrNotFound when no attempt has been recorded yet.
func (s *SessionStore) Load(ctx context.Context, userID, recipeID uuid.UUID) (*domain.CookingSession, error) {
	session := domain.NewCookingSession(userID, recipeID)
	var stepsDoc, timersDoc, updatedRaw string

	err := s.db.QueryRowContext(ctx,
		`SELECT completed_steps, active_timers, updated_at
		FROM cooking_sessions
		WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID,
	).Scan(&stepsDoc, &timersDoc, &updatedRaw)
	if err != nil {
		return nil, mapError(err, "cooking_session")
	}

	if err := json.Unmarshal([]byte(stepsDoc), &session.CompletedSteps); err != nil {
		return nil, fmt.Errorf("decode completed steps: %w", err)
	}
	if err := json.Unmarshal([]byte(timersDoc), &session.ActiveTimers); err != nil {
		return nil, fmt.Errorf("decode active timers: %w", err)
	}
	if session.UpdatedAt, err = parseTimeString(updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return session, nil
}

// SaveSteps upserts the completed-step set.
func (s *SessionStore) SaveSteps(ctx context.Context, userID, recipeID uuid.UUID, steps []int) error {
	if steps == nil {
		steps = []int{}
	}
	doc, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal completed steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cooking_sessions (user_id, recipe_id, completed_steps, active_timers, updated_at)
		VALUES (?, ?, ?, '{}', ?)
		ON CONFLICT (user_id, recipe_id)
		DO UPDATE SET completed_steps = excluded.completed_steps, updated_at = excluded.updated_at`,
		userID, recipeID, string(doc), formatTime(time.Now().UTC()),
	)
	if err != nil {
		return mapError(err, "cooking_session")
	}
	return nil
}

// SaveTimers upserts the active-timer map.
func (s *SessionStore) SaveTimers(ctx context.Context, userID, recipeID uuid.UUID, timers map[int]domain.StepTimer) error {
	if timers == nil {
		timers = map[int]domain.StepTimer{}
	}
	doc, err := json.Marshal(timers)
	if err != nil {
		return fmt.Errorf("marshal active timers: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cooking_sessions (user_id, recipe_id, completed_steps, active_timers, updated_at)
		VALUES (?, ?, '[]', ?, ?)
		ON CONFLICT (user_id, recipe_id)
		DO UPDATE SET active_timers = excluded.active_timers, updated_at = excluded.updated_at`,
		userID, recipeID, string(doc), formatTime(time.Now().UTC()),
	)
	if err != nil {
		return mapError(err, "cooking_session")
	}
	return nil
}

// Clear removes the session row so a fresh cooking attempt starts empty.
// Clearing an absent session is not an error.
func (s *SessionStore) Clear(ctx context.Context, userID, recipeID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cooking_sessions WHERE user_id = ? AND recipe_id = ?`,
		userID, recipeID,
	)
	if err != nil {
		return mapError(err, "cooking_session")
	}
	return nil
}
