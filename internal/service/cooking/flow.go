package cooking

import (
	"errors"
	"fmt"
	"time"

	"github.com/momsflavor/backend/internal/domain"
)

// FlowState is one screen of the guided cooking flow.
type FlowState string

const (
	StateIngredients       FlowState = "ingredients"
	StateOverview          FlowState = "overview"
	StateStartConfirmation FlowState = "start_confirmation"
	StateStep              FlowState = "step"
	StateReflection        FlowState = "reflection"
)

// ErrStepsRemaining is returned when the user tries to leave the final step
// while earlier steps are still unchecked.
var ErrStepsRemaining = errors.New("cooking: not all steps are completed")

// Flow drives one cooking attempt through its screens:
// ingredients → overview → start confirmation → step 1..N → reflection.
// It owns no persistence; the session it mutates is saved by the caller.
type Flow struct {
	recipe  *domain.Recipe
	session *domain.CookingSession
	state   FlowState
	step    int
	now     func() time.Time
}

// NewFlow starts a flow at the ingredients screen.
func NewFlow(recipe *domain.Recipe, session *domain.CookingSession) *Flow {
	return &Flow{
		recipe:  recipe,
		session: session,
		state:   StateIngredients,
		now:     time.Now,
	}
}

// State returns the current screen and, when on a step screen, the 1-based
// step number (zero otherwise).
func (f *Flow) State() (FlowState, int) {
	return f.state, f.step
}

// Session returns the session the flow mutates.
func (f *Flow) Session() *domain.CookingSession {
	return f.session
}

// Advance moves to the next screen. Every transition is unconditional except
// leaving the final step, which requires all steps to be checked off.
func (f *Flow) Advance() error {
	switch f.state {
	case StateIngredients:
		f.state = StateOverview
	case StateOverview:
		f.state = StateStartConfirmation
	case StateStartConfirmation:
		f.state = StateStep
		f.step = 1
	case StateStep:
		total := f.recipe.StepCount()
		if f.step < total {
			f.step++
			return nil
		}
		if !f.session.AllCompleted(total) {
			return ErrStepsRemaining
		}
		f.state = StateReflection
		f.step = 0
	case StateReflection:
		return fmt.Errorf("cooking: flow already finished")
	}
	return nil
}

// MarkStep sets or clears the completed flag for a step.
func (f *Flow) MarkStep(step int, done bool) error {
	if f.recipe.InstructionByStep(step) == nil {
		return domain.NewValidationError("step", fmt.Sprintf("recipe has no step %d", step))
	}
	f.session.MarkStep(step, done)
	return nil
}

// StartTimer parses the step's free-form duration text and starts a countdown
// ending at now + duration. Text with no recognizable duration starts an
// already-expired timer; the UI shows 0:00 until the step is checked off.
func (f *Flow) StartTimer(step int) (domain.StepTimer, error) {
	instr := f.recipe.InstructionByStep(step)
	if instr == nil {
		return domain.StepTimer{}, domain.NewValidationError("step", fmt.Sprintf("recipe has no step %d", step))
	}

	d := domain.ParseStepDuration(instr.Duration)
	timer := domain.StepTimer{
		EndTime: f.now().Add(d),
		Label:   instr.Title,
	}
	f.session.SetTimer(step, timer)
	return timer, nil
}

// TimedSteps returns every step with a running or expired timer, ascending.
func (f *Flow) TimedSteps() []int {
	return f.session.TimedSteps()
}

// Remaining returns the time left on a step's timer, zero once expired or
// when no timer is set.
func (f *Flow) Remaining(step int) time.Duration {
	timer, ok := f.session.ActiveTimers[step]
	if !ok {
		return 0
	}
	return timer.Remaining(f.now())
}
