// Package cooking implements cooking-session progress: completed steps,
// wall-clock step timers and live updates for open views.
package cooking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sessionStore interface {
	Load(ctx context.Context, userID, recipeID uuid.UUID) (*domain.CookingSession, error)
	SaveSteps(ctx context.Context, userID, recipeID uuid.UUID, steps []int) error
	SaveTimers(ctx context.Context, userID, recipeID uuid.UUID, timers map[int]domain.StepTimer) error
	Clear(ctx context.Context, userID, recipeID uuid.UUID) error
}

type recipeStore interface {
	GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error)
}

// Service manages per-user cooking sessions. Writes go to the primary store
// and are mirrored to the local store; a primary failure is logged and
// swallowed so a flaky backend never interrupts someone mid-recipe.
type Service struct {
	log     *slog.Logger
	primary sessionStore
	mirror  sessionStore // nil when the local store is already the primary
	recipes recipeStore
	hub     *Hub
	tick    time.Duration
	now     func() time.Time
}

// NewService creates a new cooking-session service. mirror may be nil.
func NewService(logger *slog.Logger, primary, mirror sessionStore, recipes recipeStore, hub *Hub, tick time.Duration) *Service {
	return &Service{
		log:     logger.With("service", "cooking"),
		primary: primary,
		mirror:  mirror,
		recipes: recipes,
		hub:     hub,
		tick:    tick,
		now:     time.Now,
	}
}

// Get returns the session snapshot for a recipe. A recipe never cooked before
// yields an empty session, not an error.
func (s *Service) Get(ctx context.Context, recipeID uuid.UUID) (*Snapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	session := s.load(ctx, userID, recipeID)
	snap := newSnapshot(session, s.now())
	return &snap, nil
}

// SetCompletedSteps replaces the completed-step set. Last write wins.
func (s *Service) SetCompletedSteps(ctx context.Context, recipeID uuid.UUID, steps []int) (*Snapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("cooking.SetCompletedSteps: %w", err)
	}
	normalized, err := normalizeSteps(steps, recipe.StepCount())
	if err != nil {
		return nil, err
	}

	session := s.load(ctx, userID, recipeID)
	session.CompletedSteps = normalized
	// A completed step's timer is done with.
	for _, step := range normalized {
		session.StopTimer(step)
	}
	session.UpdatedAt = s.now()

	s.persist(ctx, "save steps", userID, recipeID, func(store sessionStore) error {
		if err := store.SaveSteps(ctx, userID, recipeID, session.CompletedSteps); err != nil {
			return err
		}
		return store.SaveTimers(ctx, userID, recipeID, session.ActiveTimers)
	})

	snap := newSnapshot(session, s.now())
	s.hub.Publish(userID, recipeID, snap)
	return &snap, nil
}

// SetTimers replaces the active-timer map. Last write wins.
func (s *Service) SetTimers(ctx context.Context, recipeID uuid.UUID, timers map[int]domain.StepTimer) (*Snapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("cooking.SetTimers: %w", err)
	}
	for step := range timers {
		if recipe.InstructionByStep(step) == nil {
			return nil, domain.NewValidationError("timers", fmt.Sprintf("recipe has no step %d", step))
		}
	}
	if timers == nil {
		timers = map[int]domain.StepTimer{}
	}

	session := s.load(ctx, userID, recipeID)
	session.ActiveTimers = timers
	session.UpdatedAt = s.now()

	s.persist(ctx, "save timers", userID, recipeID, func(store sessionStore) error {
		return store.SaveTimers(ctx, userID, recipeID, session.ActiveTimers)
	})

	snap := newSnapshot(session, s.now())
	s.hub.Publish(userID, recipeID, snap)
	return &snap, nil
}

// StartTimer starts the countdown for one step, parsing the duration out of
// the step's free-form text and storing the absolute deadline.
func (s *Service) StartTimer(ctx context.Context, recipeID uuid.UUID, step int) (*Snapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("cooking.StartTimer: %w", err)
	}

	session := s.load(ctx, userID, recipeID)
	flow := NewFlow(recipe, session)
	flow.now = s.now
	if _, err := flow.StartTimer(step); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now()

	s.persist(ctx, "start timer", userID, recipeID, func(store sessionStore) error {
		return store.SaveTimers(ctx, userID, recipeID, session.ActiveTimers)
	})

	snap := newSnapshot(session, s.now())
	s.hub.Publish(userID, recipeID, snap)
	return &snap, nil
}

// Clear wipes the session so the next attempt starts from scratch.
func (s *Service) Clear(ctx context.Context, recipeID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	s.persist(ctx, "clear", userID, recipeID, func(store sessionStore) error {
		return store.Clear(ctx, userID, recipeID)
	})

	session := domain.NewCookingSession(userID, recipeID)
	session.UpdatedAt = s.now()
	s.hub.Publish(userID, recipeID, newSnapshot(session, s.now()))
	return nil
}

// Watch subscribes the caller to live snapshots of one session. The cancel
// func must be called when the watcher disconnects.
func (s *Service) Watch(ctx context.Context, recipeID uuid.UUID) (<-chan Snapshot, func(), error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}
	ch, cancel := s.hub.Subscribe(userID, recipeID)
	return ch, cancel, nil
}

// ---------------------------------------------------------------------------
// Persistence helpers
// ---------------------------------------------------------------------------

// load fetches the session, falling back to the local mirror and finally to
// an empty session. Cooking progress must never block on storage trouble.
func (s *Service) load(ctx context.Context, userID, recipeID uuid.UUID) *domain.CookingSession {
	session, err := s.primary.Load(ctx, userID, recipeID)
	if err == nil {
		return session
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.log.WarnContext(ctx, "session load failed on primary store",
			slog.String("recipe_id", recipeID.String()),
			slog.Any("error", err))
		if s.mirror != nil {
			if session, err := s.mirror.Load(ctx, userID, recipeID); err == nil {
				return session
			} else if !errors.Is(err, domain.ErrNotFound) {
				s.log.WarnContext(ctx, "session load failed on local mirror",
					slog.String("recipe_id", recipeID.String()),
					slog.Any("error", err))
			}
		}
	}
	return domain.NewCookingSession(userID, recipeID)
}

// persist applies a write to the primary store and the local mirror.
// Failures are logged, never surfaced; a primary failure with a successful
// mirror write leaves the stores diverged until the next clean write.
func (s *Service) persist(ctx context.Context, op string, userID, recipeID uuid.UUID, fn func(store sessionStore) error) {
	primaryErr := fn(s.primary)
	if primaryErr != nil {
		s.log.WarnContext(ctx, "session write failed on primary store",
			slog.String("op", op),
			slog.String("recipe_id", recipeID.String()),
			slog.Any("error", primaryErr))
	}
	if s.mirror == nil {
		return
	}
	if err := fn(s.mirror); err != nil {
		s.log.WarnContext(ctx, "session write failed on local mirror",
			slog.String("op", op),
			slog.String("recipe_id", recipeID.String()),
			slog.Any("error", err))
		return
	}
	if primaryErr != nil {
		s.log.WarnContext(ctx, "primary store and local mirror diverged",
			slog.String("op", op),
			slog.String("recipe_id", recipeID.String()))
	}
}

func normalizeSteps(steps []int, total int) ([]int, error) {
	normalized := make([]int, 0, len(steps))
	for _, step := range steps {
		if step < 1 || step > total {
			return nil, domain.NewValidationError("completedSteps", fmt.Sprintf("recipe has no step %d", step))
		}
		if !slices.Contains(normalized, step) {
			normalized = append(normalized, step)
		}
	}
	slices.Sort(normalized)
	return normalized, nil
}
