package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// CookingSession is the per-user, per-recipe progress state of one cooking
// attempt: which steps are done and which step timers are running.
type CookingSession struct {
	UserID         uuid.UUID
	RecipeID       uuid.UUID
	CompletedSteps []int
	ActiveTimers   map[int]StepTimer
	UpdatedAt      time.Time
}

// NewCookingSession returns an empty session for the given user and recipe.
func NewCookingSession(userID, recipeID uuid.UUID) *CookingSession {
	return &CookingSession{
		UserID:         userID,
		RecipeID:       recipeID,
		CompletedSteps: []int{},
		ActiveTimers:   map[int]StepTimer{},
	}
}

// StepTimer is a running countdown for one step. Only the absolute deadline
// is stored; remaining time is recomputed from it on every tick, so the value
// stays correct across reloads and tab suspension.
type StepTimer struct {
	EndTime time.Time `json:"endTime"`
	Label   string    `json:"label"`
}

// Remaining returns the time left until the deadline, never negative.
func (t StepTimer) Remaining(now time.Time) time.Duration {
	if remaining := t.EndTime.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// Expired reports whether the deadline has passed. An expired timer stays in
// the session until its step is explicitly marked complete.
func (t StepTimer) Expired(now time.Time) bool {
	return !t.EndTime.After(now)
}

// IsStepCompleted reports whether the given step number is marked done.
func (s *CookingSession) IsStepCompleted(step int) bool {
	return slices.Contains(s.CompletedSteps, step)
}

// MarkStep sets or clears the completed flag for a step. Completing a step
// also removes its timer. The completed list stays sorted and duplicate-free.
func (s *CookingSession) MarkStep(step int, done bool) {
	if done {
		if !slices.Contains(s.CompletedSteps, step) {
			s.CompletedSteps = append(s.CompletedSteps, step)
			slices.Sort(s.CompletedSteps)
		}
		delete(s.ActiveTimers, step)
		return
	}
	s.CompletedSteps = slices.DeleteFunc(s.CompletedSteps, func(n int) bool { return n == step })
}

// AllCompleted reports whether every step 1..totalSteps is marked done.
func (s *CookingSession) AllCompleted(totalSteps int) bool {
	if totalSteps <= 0 {
		return false
	}
	for step := 1; step <= totalSteps; step++ {
		if !s.IsStepCompleted(step) {
			return false
		}
	}
	return true
}

// SetTimer stores a timer for a step, replacing any existing one.
func (s *CookingSession) SetTimer(step int, timer StepTimer) {
	if s.ActiveTimers == nil {
		s.ActiveTimers = map[int]StepTimer{}
	}
	s.ActiveTimers[step] = timer
}

// StopTimer removes the timer for a step, if any.
func (s *CookingSession) StopTimer(step int) {
	delete(s.ActiveTimers, step)
}

// TimedSteps returns the step numbers that have a running or expired timer,
// in ascending order. The UI uses this to let the user jump between steps.
func (s *CookingSession) TimedSteps() []int {
	steps := make([]int, 0, len(s.ActiveTimers))
	for step := range s.ActiveTimers {
		steps = append(steps, step)
	}
	slices.Sort(steps)
	return steps
}
