package cooking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// Snapshot is the wire view of one cooking session at one instant. Remaining
// times are computed from the stored deadlines, so a snapshot taken after a
// long suspension is still correct.
type Snapshot struct {
	RecipeID       uuid.UUID         `json:"recipeId"`
	CompletedSteps []int             `json:"completedSteps"`
	Timers         map[int]TimerView `json:"timers"`
	TimedSteps     []int             `json:"timedSteps"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// TimerView is one step timer as presented to clients.
type TimerView struct {
	Label     string    `json:"label"`
	EndTime   time.Time `json:"endTime"`
	Remaining int       `json:"remainingSeconds"`
	Display   string    `json:"display"`
	Expired   bool      `json:"expired"`
}

func newSnapshot(session *domain.CookingSession, now time.Time) Snapshot {
	snap := Snapshot{
		RecipeID:       session.RecipeID,
		CompletedSteps: session.CompletedSteps,
		Timers:         make(map[int]TimerView, len(session.ActiveTimers)),
		TimedSteps:     session.TimedSteps(),
		UpdatedAt:      session.UpdatedAt,
	}
	if snap.CompletedSteps == nil {
		snap.CompletedSteps = []int{}
	}
	for step, timer := range session.ActiveTimers {
		remaining := timer.Remaining(now)
		snap.Timers[step] = TimerView{
			Label:     timer.Label,
			EndTime:   timer.EndTime,
			Remaining: int(remaining / time.Second),
			Display:   formatClock(remaining),
			Expired:   timer.Expired(now),
		}
	}
	return snap
}

// formatClock renders a duration the way a kitchen timer would:
// "m:ss", or "h:mm:ss" from one hour up. Expired timers show "0:00".
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
