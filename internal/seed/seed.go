// Package seed inserts sample recipes for development and testing.
package seed

import (
	"context"
	"fmt"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/internal/service/recipe"
)

type recipeCreator interface {
	Create(ctx context.Context, input recipe.CreateInput) (*domain.Recipe, error)
}

// Run inserts the sample recipes for the user in ctx and returns how many
// were created. Stops at the first failure.
func Run(ctx context.Context, svc recipeCreator) (int, error) {
	for i, input := range Recipes() {
		if _, err := svc.Create(ctx, input); err != nil {
			return i, fmt.Errorf("seed recipe %q: %w", input.DishName, err)
		}
	}
	return len(Recipes()), nil
}

func strptr(s string) *string { return &s }

// Recipes returns the built-in sample recipes.
func Recipes() []recipe.CreateInput {
	return []recipe.CreateInput{
		{
			DishName:    "Beef Pho",
			RecipeName:  "Weekend pho from scratch",
			Difficulty:  domain.DifficultyHard,
			CookingTime: domain.CookingTimeVerySlow,
			Ingredients: []domain.Ingredient{
				{Name: "beef bones", Quantity: "2", Unit: "kg"},
				{Name: "flat rice noodles", Quantity: "500", Unit: "g"},
				{Name: "onion", Quantity: "2", Unit: "pieces"},
				{Name: "ginger", Quantity: "1", Unit: "knob"},
				{Name: "star anise", Quantity: "4", Unit: "pieces"},
				{Name: "fish sauce", Quantity: "3", Unit: "tbsp"},
			},
			Instructions: []domain.Instruction{
				{Step: 1, Title: "Char", Description: "Char the onion and ginger over an open flame until fragrant."},
				{Step: 2, Title: "Blanch", Description: "Blanch the bones in boiling water for 5 minutes and rinse.", NeedsTime: true, Duration: "5 minutes"},
				{Step: 3, Title: "Simmer", Description: "Simmer bones with spices for 3 hours, skimming occasionally.", NeedsTime: true, Duration: "3 hours"},
				{Step: 4, Title: "Season", Description: "Season the broth with fish sauce and a little sugar."},
				{Step: 5, Title: "Assemble", Description: "Cook the noodles, slice the beef thin, assemble and ladle broth over.", HasNote: true, Note: "Broth must be at a rolling boil to cook the raw beef slices."},
			},
			Tips: strptr("Freeze leftover broth in portions; it keeps for months."),
		},
		{
			DishName:    "Kimchi Fried Rice",
			RecipeName:  "Mom's 10-minute version",
			Difficulty:  domain.DifficultyVeryEasy,
			CookingTime: domain.CookingTimeVeryFast,
			Ingredients: []domain.Ingredient{
				{Name: "day-old rice", Quantity: "2", Unit: "bowls"},
				{Name: "kimchi", Quantity: "200", Unit: "g"},
				{Name: "eggs", Quantity: "2", Unit: "pieces"},
				{Name: "sesame oil", Quantity: "1", Unit: "tbsp"},
			},
			Instructions: []domain.Instruction{
				{Step: 1, Title: "Fry kimchi", Description: "Fry chopped kimchi in oil until the edges caramelize.", NeedsTime: true, Duration: "3 minutes"},
				{Step: 2, Title: "Add rice", Description: "Break the cold rice into the pan and stir-fry on high heat.", NeedsTime: true, Duration: "4 minutes"},
				{Step: 3, Title: "Finish", Description: "Push rice aside, fry the eggs, fold together and finish with sesame oil."},
			},
		},
		{
			DishName:    "Braised Pork Belly",
			RecipeName:  "Thit kho for lunchboxes",
			Difficulty:  domain.DifficultyNormal,
			CookingTime: domain.CookingTimeSlow,
			Ingredients: []domain.Ingredient{
				{Name: "pork belly", Quantity: "600", Unit: "g"},
				{Name: "eggs", Quantity: "4", Unit: "pieces"},
				{Name: "coconut water", Quantity: "400", Unit: "ml"},
				{Name: "fish sauce", Quantity: "2", Unit: "tbsp"},
				{Name: "sugar", Quantity: "2", Unit: "tbsp"},
			},
			Instructions: []domain.Instruction{
				{Step: 1, Title: "Caramel", Description: "Melt the sugar in the pot until deep amber.", NeedsTime: true, Duration: "5 phút"},
				{Step: 2, Title: "Sear", Description: "Sear the pork belly chunks in the caramel until coated."},
				{Step: 3, Title: "Braise", Description: "Add coconut water and fish sauce, braise covered on low.", NeedsTime: true, Duration: "1 giờ 30 phút"},
				{Step: 4, Title: "Eggs", Description: "Add the boiled, peeled eggs for the last 20 minutes.", NeedsTime: true, Duration: "20 minutes"},
			},
			Tips: strptr("Tastes better the next day; the eggs soak up the sauce overnight."),
		},
	}
}
