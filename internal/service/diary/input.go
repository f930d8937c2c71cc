package diary

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// Photo is one image attached to a diary entry, streamed from the multipart
// request body.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// CreateEntryInput holds parameters for writing one diary entry.
type CreateEntryInput struct {
	RecipeID     uuid.UUID
	DishName     string
	CookDate     time.Time
	Mistakes     *string
	Improvements *string
	Rating       *int
	Photos       []Photo
}

// Validate validates the create input.
func (i CreateEntryInput) Validate() error {
	var errs []domain.FieldError

	if i.RecipeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "recipeId", Message: "required"})
	}
	if strings.TrimSpace(i.DishName) == "" {
		errs = append(errs, domain.FieldError{Field: "dishName", Message: "required"})
	}
	if i.CookDate.IsZero() {
		errs = append(errs, domain.FieldError{Field: "cookDate", Message: "required"})
	}
	if i.Rating != nil && (*i.Rating < 1 || *i.Rating > 5) {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	for _, photo := range i.Photos {
		if strings.TrimSpace(photo.Filename) == "" {
			errs = append(errs, domain.FieldError{Field: "photos", Message: "photo filename is required"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateEntryInput) toDomain(userID uuid.UUID, photoURLs []string, now time.Time) *domain.DiaryEntry {
	return &domain.DiaryEntry{
		UserID:       userID,
		RecipeID:     i.RecipeID,
		DishName:     strings.TrimSpace(i.DishName),
		CookDate:     i.CookDate,
		Mistakes:     i.Mistakes,
		Improvements: i.Improvements,
		PhotoURLs:    photoURLs,
		Rating:       i.Rating,
		CreatedAt:    now,
	}
}
