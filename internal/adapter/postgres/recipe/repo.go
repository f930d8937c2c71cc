// Package recipe implements the Recipe repository using PostgreSQL.
// Ingredient and instruction lists are stored as JSONB documents; payloads
// are validated at the API boundary, so rows are decoded strictly and a
// malformed document is an error, not an empty list.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/adapter/postgres"
	"github.com/momsflavor/backend/internal/domain"
)

// Repo provides recipe persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new recipe repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const recipeColumns = `id, user_id, dish_name, recipe_name, difficulty, cooking_time,
	ingredients, instructions, tips, cover_image, gallery_images, created_at, updated_at`

const createSQL = `
INSERT INTO recipes (id, user_id, dish_name, recipe_name, difficulty, cooking_time,
	ingredients, instructions, tips, cover_image, gallery_images)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + recipeColumns

const getByIDSQL = `
SELECT ` + recipeColumns + `
FROM recipes
WHERE id = $1 AND user_id = $2`

const deleteSQL = `
DELETE FROM recipes
WHERE id = $1 AND user_id = $2`

// Create inserts a new recipe and returns the stored row.
func (r *Repo) Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	id := recipe.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	ingredients, instructions, gallery, err := marshalDocs(recipe)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	row := q.QueryRow(ctx, createSQL,
		id, recipe.UserID, recipe.DishName, recipe.RecipeName,
		recipe.Difficulty.String(), recipe.CookingTime.String(),
		ingredients, instructions, recipe.Tips, recipe.CoverImage, gallery,
	)

	created, err := scanRecipe(row)
	if err != nil {
		return nil, postgres.MapError(err, "recipe", id)
	}
	return created, nil
}

// GetByID returns a recipe by primary key scoped to its owner.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	recipe, err := scanRecipe(q.QueryRow(ctx, getByIDSQL, recipeID, userID))
	if err != nil {
		return nil, postgres.MapError(err, "recipe", recipeID)
	}
	return recipe, nil
}

// List returns the user's recipes matching the filter, newest first by
// default. Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]*domain.Recipe, error) {
	q := postgres.QuerierFromCtx(ctx, r.q)

	builder := psql.Select(recipeColumns).
		From("recipes").
		Where(sq.Eq{"user_id": userID})

	if filter.Difficulty != nil {
		builder = builder.Where(sq.Eq{"difficulty": filter.Difficulty.String()})
	}
	if filter.CookingTime != nil {
		builder = builder.Where(sq.Eq{"cooking_time": filter.CookingTime.String()})
	}
	if filter.SortAsc {
		builder = builder.OrderBy("created_at ASC")
	} else {
		builder = builder.OrderBy("created_at DESC")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list recipes: build query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
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

// Update applies a partial update and returns the stored row. Fields not set
// in params keep their previous values.
func (r *Repo) Update(ctx context.Context, userID, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, userID, recipeID)
	}

	q := postgres.QuerierFromCtx(ctx, r.q)

	builder := psql.Update("recipes").
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": recipeID, "user_id": userID}).
		Suffix("RETURNING " + recipeColumns)

	if params.DishName != nil {
		builder = builder.Set("dish_name", *params.DishName)
	}
	if params.RecipeName != nil {
		builder = builder.Set("recipe_name", *params.RecipeName)
	}
	if params.Difficulty != nil {
		builder = builder.Set("difficulty", params.Difficulty.String())
	}
	if params.CookingTime != nil {
		builder = builder.Set("cooking_time", params.CookingTime.String())
	}
	if params.Ingredients != nil {
		data, err := json.Marshal(params.Ingredients)
		if err != nil {
			return nil, fmt.Errorf("update recipe: marshal ingredients: %w", err)
		}
		builder = builder.Set("ingredients", data)
	}
	if params.Instructions != nil {
		data, err := json.Marshal(params.Instructions)
		if err != nil {
			return nil, fmt.Errorf("update recipe: marshal instructions: %w", err)
		}
		builder = builder.Set("instructions", data)
	}
	if params.Tips != nil {
		builder = builder.Set("tips", *params.Tips)
	}
	if params.CoverImage != nil {
		builder = builder.Set("cover_image", *params.CoverImage)
	}
	if params.GalleryImages != nil {
		data, err := json.Marshal(params.GalleryImages)
		if err != nil {
			return nil, fmt.Errorf("update recipe: marshal gallery: %w", err)
		}
		builder = builder.Set("gallery_images", data)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update recipe: build query: %w", err)
	}

	recipe, err := scanRecipe(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "recipe", recipeID)
	}
	return recipe, nil
}

// Delete removes a recipe scoped to its owner.
// Returns domain.ErrNotFound if no row was deleted.
func (r *Repo) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.q)

	tag, err := q.Exec(ctx, deleteSQL, recipeID, userID)
	if err != nil {
		return postgres.MapError(err, "recipe", recipeID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID, domain.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var (
		recipe          domain.Recipe
		difficulty      string
		cookingTime     string
		ingredientsDoc  []byte
		instructionsDoc []byte
		galleryDoc      []byte
	)

	err := row.Scan(
		&recipe.ID, &recipe.UserID, &recipe.DishName, &recipe.RecipeName,
		&difficulty, &cookingTime,
		&ingredientsDoc, &instructionsDoc,
		&recipe.Tips, &recipe.CoverImage, &galleryDoc,
		&recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Difficulty = domain.Difficulty(difficulty)
	recipe.CookingTime = domain.CookingTime(cookingTime)

	if err := json.Unmarshal(ingredientsDoc, &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(instructionsDoc, &recipe.Instructions); err != nil {
		return nil, fmt.Errorf("decode instructions: %w", err)
	}
	if err := json.Unmarshal(galleryDoc, &recipe.GalleryImages); err != nil {
		return nil, fmt.Errorf("decode gallery images: %w", err)
	}

	return &recipe, nil
}

func marshalDocs(recipe *domain.Recipe) (ingredients, instructions, gallery []byte, err error) {
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
