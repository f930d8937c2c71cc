package recipe

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// CreateInput holds parameters for creating a recipe.
type CreateInput struct {
	DishName      string
	RecipeName    string
	Difficulty    domain.Difficulty
	CookingTime   domain.CookingTime
	Ingredients   []domain.Ingredient
	Instructions  []domain.Instruction
	Tips          *string
	CoverImage    *string
	GalleryImages []string
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.DishName) == "" {
		errs = append(errs, domain.FieldError{Field: "dishName", Message: "required"})
	}
	if strings.TrimSpace(i.RecipeName) == "" {
		errs = append(errs, domain.FieldError{Field: "recipeName", Message: "required"})
	}
	if !i.Difficulty.IsValid() {
		errs = append(errs, domain.FieldError{Field: "difficulty", Message: "invalid value"})
	}
	if !i.CookingTime.IsValid() {
		errs = append(errs, domain.FieldError{Field: "cookingTime", Message: "invalid value"})
	}
	for _, ing := range i.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errs = append(errs, domain.FieldError{Field: "ingredients", Message: "ingredient name is required"})
			break
		}
	}
	if err := domain.ValidateInstructions(i.Instructions); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			errs = append(errs, verr.Errors...)
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateInput) toDomain(userID uuid.UUID) *domain.Recipe {
	return &domain.Recipe{
		UserID:        userID,
		DishName:      strings.TrimSpace(i.DishName),
		RecipeName:    strings.TrimSpace(i.RecipeName),
		Difficulty:    i.Difficulty,
		CookingTime:   i.CookingTime,
		Ingredients:   i.Ingredients,
		Instructions:  i.Instructions,
		Tips:          i.Tips,
		CoverImage:    i.CoverImage,
		GalleryImages: i.GalleryImages,
	}
}

// validatePatch checks the fields a partial update actually sets.
func validatePatch(p domain.RecipeUpdateParams) error {
	var errs []domain.FieldError

	if p.DishName != nil && strings.TrimSpace(*p.DishName) == "" {
		errs = append(errs, domain.FieldError{Field: "dishName", Message: "must not be empty"})
	}
	if p.RecipeName != nil && strings.TrimSpace(*p.RecipeName) == "" {
		errs = append(errs, domain.FieldError{Field: "recipeName", Message: "must not be empty"})
	}
	if p.Difficulty != nil && !p.Difficulty.IsValid() {
		errs = append(errs, domain.FieldError{Field: "difficulty", Message: "invalid value"})
	}
	if p.CookingTime != nil && !p.CookingTime.IsValid() {
		errs = append(errs, domain.FieldError{Field: "cookingTime", Message: "invalid value"})
	}
	if p.Instructions != nil {
		if err := domain.ValidateInstructions(p.Instructions); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				errs = append(errs, verr.Errors...)
			}
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
