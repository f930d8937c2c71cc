// Package session implements the CookingSession store using PostgreSQL.
// One row per (user, recipe); completed steps and active timers are JSONB
// documents updated with last-write-wins upserts.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/adapter/postgres"
	"github.com/momsflavor/backend/internal/domain"
)

// Repo provides cooking-session persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new cooking-session repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

const loadSQL = `
SELECT completed_steps, active_timers, updated_at
FROM cooking_sessions
WHERE user_id = $1 AND recipe_id = $2`

const saveStepsSQL = `
INSERT INTO cooking_sessions (user_id, recipe_id, completed_steps, active_timers, updated_at)
VALUES ($1, $2, $3, '{}', now())
ON CONFLICT (user_id, recipe_id)
DO UPDATE SET completed_steps = EXCLUDED.completed_steps, updated_at = now()`

const saveTimersSQL = `
INSERT INTO cooking_sessions (user_id, recipe_id, completed_steps, active_timers, updated_at)
VALUES ($1, $2, '[]', $3, now())
ON CONFLICT (user_id, recipe_id)
DO UPDATE SET active_timers = EXCLUDED.active_timers, updated_at = now()`

const clearSQL = `
DELETE FROM cooking_sessions
WHERE user_id = $1 AND recipe_id = $2`

// Load returns the session for (user, recipe).
// Returns domain.ErrNotFound when no attempt has been recorded yet.
func (r *Repo) Load(ctx context.Context, userID, recipeID uuid.UUID) (*domain.CookingSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	session := domain.NewCookingSession(userID, recipeID)
	var stepsDoc, timersDoc []byte

	err := q.QueryRow(ctx, loadSQL, userID, recipeID).
		Scan(&stepsDoc, &timersDoc, &session.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "cooking_session", recipeID)
	}

	if err := json.Unmarshal(stepsDoc, &session.CompletedSteps); err != nil {
		return nil, fmt.Errorf("decode completed steps: %w", err)
	}
	if err := json.Unmarshal(timersDoc, &session.ActiveTimers); err != nil {
		return nil, fmt.Errorf("decode active timers: %w", err)
	}

	return session, nil
}

// SaveSteps upserts the completed-step set. Last write wins.
func (r *Repo) SaveSteps(ctx context.Context, userID, recipeID uuid.UUID, steps []int) error {
	q := postgres.QuerierFromCtx(ctx, r.q)

	if steps == nil {
		steps = []int{}
	}
	doc, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal completed steps: %w", err)
	}

	if _, err := q.Exec(ctx, saveStepsSQL, userID, recipeID, doc); err != nil {
		return postgres.MapError(err, "cooking_session", recipeID)
	}
	return nil
}

// SaveTimers upserts the active-timer map. Last write wins.
func (r *Repo) SaveTimers(ctx context.Context, userID, recipeID uuid.UUID, timers map[int]domain.StepTimer) error {
	q := postgres.QuerierFromCtx(ctx, r.q)

	if timers == nil {
		timers = map[int]domain.StepTimer{}
	}
	doc, err := json.Marshal(timers)
	if err != nil {
		return fmt.Errorf("marshal active timers: %w", err)
	}

	if _, err := q.Exec(ctx, saveTimersSQL, userID, recipeID, doc); err != nil {
		return postgres.MapError(err, "cooking_session", recipeID)
	}
	return nil
}

// Clear removes the session row so a fresh cooking attempt starts empty.
// Clearing an absent session is not an error.
func (r *Repo) Clear(ctx context.Context, userID, recipeID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.q)

	if _, err := q.Exec(ctx, clearSQL, userID, recipeID); err != nil {
		return postgres.MapError(err, "cooking_session", recipeID)
	}
	return nil
}
