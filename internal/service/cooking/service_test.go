package cooking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/pkg/ctxutil"
)

type sessionStoreMock struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.CookingSession // keyed by recipe ID

	failWrites bool
	saveCalls  int
	clearCalls int
}

func newSessionStoreMock() *sessionStoreMock {
	return &sessionStoreMock{sessions: map[uuid.UUID]*domain.CookingSession{}}
}

func (m *sessionStoreMock) Load(_ context.Context, userID, recipeID uuid.UUID) (*domain.CookingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[recipeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *sessionStoreMock) SaveSteps(_ context.Context, userID, recipeID uuid.UUID, steps []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.failWrites {
		return errors.New("store unavailable")
	}
	s := m.session(userID, recipeID)
	s.CompletedSteps = append([]int(nil), steps...)
	return nil
}

func (m *sessionStoreMock) SaveTimers(_ context.Context, userID, recipeID uuid.UUID, timers map[int]domain.StepTimer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.failWrites {
		return errors.New("store unavailable")
	}
	s := m.session(userID, recipeID)
	s.ActiveTimers = make(map[int]domain.StepTimer, len(timers))
	for step, timer := range timers {
		s.ActiveTimers[step] = timer
	}
	return nil
}

func (m *sessionStoreMock) Clear(_ context.Context, userID, recipeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	if m.failWrites {
		return errors.New("store unavailable")
	}
	delete(m.sessions, recipeID)
	return nil
}

// session must be called with the mutex held.
func (m *sessionStoreMock) session(userID, recipeID uuid.UUID) *domain.CookingSession {
	s, ok := m.sessions[recipeID]
	if !ok {
		s = domain.NewCookingSession(userID, recipeID)
		m.sessions[recipeID] = s
	}
	return s
}

type recipeStoreMock struct {
	recipe *domain.Recipe
}

func (m *recipeStoreMock) GetByID(_ context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error) {
	if m.recipe == nil || m.recipe.ID != recipeID || m.recipe.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return m.recipe, nil
}

type fixture struct {
	svc     *Service
	primary *sessionStoreMock
	mirror  *sessionStoreMock
	recipe  *domain.Recipe
	ctx     context.Context
}

func newFixture(t *testing.T, withMirror bool) *fixture {
	t.Helper()

	recipe := threeStepRecipe()
	primary := newSessionStoreMock()
	var mirror *sessionStoreMock
	var mirrorStore sessionStore
	if withMirror {
		mirror = newSessionStoreMock()
		mirrorStore = mirror
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, primary, mirrorStore, &recipeStoreMock{recipe: recipe}, NewHub(), time.Second)

	return &fixture{
		svc:     svc,
		primary: primary,
		mirror:  mirror,
		recipe:  recipe,
		ctx:     ctxutil.WithUserID(context.Background(), recipe.UserID),
	}
}

func TestGet_UnknownSessionIsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	snap, err := f.svc.Get(f.ctx, f.recipe.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(snap.CompletedSteps) != 0 || len(snap.Timers) != 0 {
		t.Errorf("fresh session not empty: %+v", snap)
	}
}

func TestSetCompletedSteps_MirrorsWrite(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	snap, err := f.svc.SetCompletedSteps(f.ctx, f.recipe.ID, []int{2, 1, 2})
	if err != nil {
		t.Fatalf("SetCompletedSteps: %v", err)
	}
	want := []int{1, 2}
	if len(snap.CompletedSteps) != 2 || snap.CompletedSteps[0] != want[0] || snap.CompletedSteps[1] != want[1] {
		t.Errorf("completed steps = %v, want %v (sorted, deduped)", snap.CompletedSteps, want)
	}

	for name, store := range map[string]*sessionStoreMock{"primary": f.primary, "mirror": f.mirror} {
		got, err := store.Load(context.Background(), f.recipe.UserID, f.recipe.ID)
		if err != nil {
			t.Fatalf("%s load: %v", name, err)
		}
		if len(got.CompletedSteps) != 2 {
			t.Errorf("%s steps = %v, want %v", name, got.CompletedSteps, want)
		}
	}
}

func TestSetCompletedSteps_OutOfRange(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	_, err := f.svc.SetCompletedSteps(f.ctx, f.recipe.ID, []int{1, 9})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("SetCompletedSteps error = %v, want ErrValidation", err)
	}
}

func TestSetCompletedSteps_PrimaryFailureSwallowed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.primary.failWrites = true

	snap, err := f.svc.SetCompletedSteps(f.ctx, f.recipe.ID, []int{1})
	if err != nil {
		t.Fatalf("SetCompletedSteps with broken primary: %v", err)
	}
	if len(snap.CompletedSteps) != 1 {
		t.Errorf("snapshot = %+v, want step 1 completed", snap)
	}

	// The local mirror still recorded the write.
	got, err := f.mirror.Load(context.Background(), f.recipe.UserID, f.recipe.ID)
	if err != nil {
		t.Fatalf("mirror load: %v", err)
	}
	if len(got.CompletedSteps) != 1 || got.CompletedSteps[0] != 1 {
		t.Errorf("mirror steps = %v, want [1]", got.CompletedSteps)
	}
}

func TestStartTimer_PublishesToWatchers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)

	ch, cancel, err := f.svc.Watch(f.ctx, f.recipe.ID)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer cancel()

	snap, err := f.svc.StartTimer(f.ctx, f.recipe.ID, 2)
	if err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	view, ok := snap.Timers[2]
	if !ok {
		t.Fatal("timer missing from snapshot")
	}
	if view.Label != "Simmer" {
		t.Errorf("timer label = %q, want %q", view.Label, "Simmer")
	}
	if view.Remaining < 89 || view.Remaining > 90 {
		t.Errorf("remaining = %ds, want ~90s", view.Remaining)
	}

	select {
	case published := <-ch:
		if _, ok := published.Timers[2]; !ok {
			t.Errorf("published snapshot missing timer: %+v", published)
		}
	default:
		t.Error("no snapshot published to watcher")
	}
}

func TestClear_ResetsSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	if _, err := f.svc.SetCompletedSteps(f.ctx, f.recipe.ID, []int{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Clear(f.ctx, f.recipe.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	snap, err := f.svc.Get(f.ctx, f.recipe.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.CompletedSteps) != 0 {
		t.Errorf("steps after clear = %v, want empty", snap.CompletedSteps)
	}
	if f.mirror.clearCalls != 1 {
		t.Errorf("mirror clear calls = %d, want 1", f.mirror.clearCalls)
	}
}

func TestAnonymousRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, f.recipe.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Get error = %v, want ErrUnauthorized", err)
	}
	if _, err := f.svc.SetCompletedSteps(ctx, f.recipe.ID, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("SetCompletedSteps error = %v, want ErrUnauthorized", err)
	}
	if _, _, err := f.svc.Watch(ctx, f.recipe.ID); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Watch error = %v, want ErrUnauthorized", err)
	}
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	userID, recipeID := uuid.New(), uuid.New()
	ch, cancel := hub.Subscribe(userID, recipeID)
	defer cancel()

	// Fill the buffer and keep publishing; extra snapshots are dropped
	// rather than blocking.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(userID, recipeID, Snapshot{RecipeID: recipeID})
	}
	if got := len(ch); got != subscriberBuffer {
		t.Errorf("buffered snapshots = %d, want %d", got, subscriberBuffer)
	}
}
