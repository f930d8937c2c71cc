package domain

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty represents the user-assigned difficulty of a recipe.
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "very_easy"
	DifficultyEasy     Difficulty = "easy"
	DifficultyNormal   Difficulty = "normal"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyVeryEasy, DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyVeryHard:
		return true
	}
	return false
}

// CookingTime represents the rough total cooking time bucket of a recipe.
type CookingTime string

const (
	CookingTimeVeryFast CookingTime = "very_fast"
	CookingTimeFast     CookingTime = "fast"
	CookingTimeNormal   CookingTime = "normal"
	CookingTimeSlow     CookingTime = "slow"
	CookingTimeVerySlow CookingTime = "very_slow"
)

func (t CookingTime) String() string { return string(t) }

func (t CookingTime) IsValid() bool {
	switch t {
	case CookingTimeVeryFast, CookingTimeFast, CookingTimeNormal, CookingTimeSlow, CookingTimeVerySlow:
		return true
	}
	return false
}

// Recipe represents a user-authored dish description with ingredients and
// ordered cooking steps.
type Recipe struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DishName      string
	RecipeName    string
	Difficulty    Difficulty
	CookingTime   CookingTime
	Ingredients   []Ingredient
	Instructions  []Instruction
	Tips          *string
	CoverImage    *string
	GalleryImages []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Ingredient is a single entry of the ordered ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Instruction is a single ordered cooking step. Duration and Note are
// optional and only meaningful when NeedsTime / HasNote are set.
type Instruction struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	NeedsTime   bool   `json:"needsTime"`
	Duration    string `json:"duration,omitempty"`
	HasNote     bool   `json:"hasNote"`
	Note        string `json:"note,omitempty"`
}

// StepCount returns the number of instructions.
func (r *Recipe) StepCount() int { return len(r.Instructions) }

// InstructionByStep returns the instruction with the given 1-based step
// number, or nil if no such step exists.
func (r *Recipe) InstructionByStep(step int) *Instruction {
	for i := range r.Instructions {
		if r.Instructions[i].Step == step {
			return &r.Instructions[i]
		}
	}
	return nil
}

// RecipeFilter narrows recipe listings. Nil fields match everything.
type RecipeFilter struct {
	Difficulty  *Difficulty
	CookingTime *CookingTime
	SortAsc     bool
}

// RecipeUpdateParams carries a partial update. Nil fields are left unchanged.
type RecipeUpdateParams struct {
	DishName      *string
	RecipeName    *string
	Difficulty    *Difficulty
	CookingTime   *CookingTime
	Ingredients   []Ingredient
	Instructions  []Instruction
	Tips          *string
	CoverImage    *string
	GalleryImages []string
}

// IsEmpty reports whether the patch changes nothing.
func (p RecipeUpdateParams) IsEmpty() bool {
	return p.DishName == nil && p.RecipeName == nil &&
		p.Difficulty == nil && p.CookingTime == nil &&
		p.Ingredients == nil && p.Instructions == nil &&
		p.Tips == nil && p.CoverImage == nil && p.GalleryImages == nil
}

// ValidateInstructions checks that the instruction list is a dense 1..N
// sequence with non-empty descriptions. Returns a ValidationError on the
// first offending step.
func ValidateInstructions(instructions []Instruction) error {
	for i, in := range instructions {
		if in.Step != i+1 {
			return NewValidationError("instructions", "steps must be numbered 1..N without gaps")
		}
		if in.Description == "" {
			return NewValidationError("instructions", "step description is required")
		}
		if in.NeedsTime && in.Duration == "" {
			return NewValidationError("instructions", "timed step requires a duration")
		}
	}
	return nil
}
