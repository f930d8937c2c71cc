package domain

import (
	"time"

	"github.com/google/uuid"
)

// DiaryEntry is the permanent record of one completed cooking attempt.
// Entries are created once at the end of a session and never mutated.
type DiaryEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RecipeID     uuid.UUID
	DishName     string
	CookDate     time.Time
	Mistakes     *string
	Improvements *string
	PhotoURLs    []string
	Rating       *int
	CreatedAt    time.Time
}
