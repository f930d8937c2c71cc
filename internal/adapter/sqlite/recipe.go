package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// RecipeStore persists recipe documents in the local database.
type RecipeStore struct {
	db *sql.DB
}

const recipeColumns = `id, user_id, dish_name, recipe_name, difficulty, cooking_time,
	ingredients, instructions, tips, cover_image, gallery_images, created_at, updated_at`

// Create inserts a new recipe and returns the stored row.
func (s *RecipeStore) Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	id := recipe.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	ingredients, instructions, gallery, err := marshalRecipeDocs(recipe)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, recipe.UserID, recipe.DishName, recipe.RecipeName,
		recipe.Difficulty.String(), recipe.CookingTime.String(),
		string(ingredients), string(instructions),
		recipe.Tips, recipe.CoverImage, string(gallery),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, mapError(err, "recipe")
	}

	return s.GetByID(ctx, recipe.UserID, id)
}

// GetByID returns a recipe by primary key scoped to its owner.
func (s *RecipeStore) GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`,
		recipeID, userID,
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		return nil, mapError(err, "recipe")
	}
	return recipe, nil
}

// List returns the user's recipes matching the filter, newest first by
// default. Returns an empty slice (not nil) when nothing matches.
func (s *RecipeStore) List(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]*domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE user_id = ?`
	args := []any{userID}

	if filter.Difficulty != nil {
		query += ` AND difficulty = ?`
		args = append(args, filter.Difficulty.String())
	}
	if filter.CookingTime != nil {
		query += ` AND cooking_time = ?`
		args = append(args, filter.CookingTime.String())
	}
	if filter.SortAsc {
		query += ` ORDER BY created_at ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("list recipes: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	return recipes, nil
}

// Update applies a partial update by patching the stored document.
// Read-modify-write: SQLite serializes writers, so the row cannot change
// underneath the transaction.
func (s *RecipeStore) Update(ctx context.Context, userID, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error) {
	if params.IsEmpty() {
		return s.GetByID(ctx, userID, recipeID)
	}

	recipe, err := s.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if params.DishName != nil {
		recipe.DishName = *params.DishName
	}
	if params.RecipeName != nil {
		recipe.RecipeName = *params.RecipeName
	}
	if params.Difficulty != nil {
		recipe.Difficulty = *params.Difficulty
	}
	if params.CookingTime != nil {
		recipe.CookingTime = *params.CookingTime
	}
	if params.Ingredients != nil {
		recipe.Ingredients = params.Ingredients
	}
	if params.Instructions != nil {
		recipe.Instructions = params.Instructions
	}
	if params.Tips != nil {
		recipe.Tips = params.Tips
	}
	if params.CoverImage != nil {
		recipe.CoverImage = params.CoverImage
	}
	if params.GalleryImages != nil {
		recipe.GalleryImages = params.GalleryImages
	}

	ingredients, instructions, gallery, err := marshalRecipeDocs(recipe)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE recipes SET dish_name = ?, recipe_name = ?, difficulty = ?, cooking_time = ?,
			ingredients = ?, instructions = ?, tips = ?, cover_image = ?, gallery_images = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		recipe.DishName, recipe.RecipeName,
		recipe.Difficulty.String(), recipe.CookingTime.String(),
		string(ingredients), string(instructions),
		recipe.Tips, recipe.CoverImage, string(gallery),
		formatTime(time.Now().UTC()),
		recipeID, userID,
	)
	if err != nil {
		return nil, mapError(err, "recipe")
	}

	return s.GetByID(ctx, userID, recipeID)
}

// Delete removes a recipe scoped to its owner.
// Returns domain.ErrNotFound if no row was deleted.
func (s *RecipeStore) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`,
		recipeID, userID,
	)
	if err != nil {
		return mapError(err, "recipe")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID, domain.ErrNotFound)
	}
	return nil
}

func scanRecipe(scanner interface{ Scan(dest ...any) error }) (*domain.Recipe, error) {
	var (
		recipe          domain.Recipe
		difficulty      string
		cookingTime     string
		ingredientsDoc  string
		instructionsDoc string
		galleryDoc      string
		createdRaw      string
		updatedRaw      string
	)

	err := scanner.Scan(
		&recipe.ID, &recipe.UserID, &recipe.DishName, &recipe.RecipeName,
		&difficulty, &cookingTime,
		&ingredientsDoc, &instructionsDoc,
		&recipe.Tips, &recipe.CoverImage, &galleryDoc,
		&createdRaw, &updatedRaw,
	)
	if err != nil {
		return nil, err
	}

	recipe.Difficulty = domain.Difficulty(difficulty)
	recipe.CookingTime = domain.CookingTime(cookingTime)

	if err := json.Unmarshal([]byte(ingredientsDoc), &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(instructionsDoc), &recipe.Instructions); err != nil {
		return nil, fmt.Errorf("decode instructions: %w", err)
	}
	if err := json.Unmarshal([]byte(galleryDoc), &recipe.GalleryImages); err != nil {
		return nil, fmt.Errorf("decode gallery images: %w", err)
	}

	if recipe.CreatedAt, err = parseTimeString(createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if recipe.UpdatedAt, err = parseTimeString(updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &recipe, nil
}

func marshalRecipeDocs(recipe *domain.Recipe) (ingredients, instructions, gallery []byte, err error) {
	if recipe.Ingredients == nil {
		recipe.Ingredients = []domain.Ingredient{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []domain.Instruction{}
	}
	if recipe.GalleryImages == nil {
		recipe.GalleryImages = []string{}
	}

	if ingredients, err = json.Marshal(recipe.Ingredients); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal ingredients: %w", err)
	}
	if instructions, err = json.Marshal(recipe.Instructions); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal instructions: %w", err)
	}
	if gallery, err = json.Marshal(recipe.GalleryImages); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal gallery images: %w", err)
	}
	return ingredients, instructions, gallery, nil
}
