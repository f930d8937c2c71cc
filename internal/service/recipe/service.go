// Package recipe implements recipe CRUD and shopping-list generation.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type store interface {
	Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]*domain.Recipe, error)
	Update(ctx context.Context, userID, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
}

type listGenerator interface {
	ShoppingList(ctx context.Context, recipe *domain.Recipe) (json.RawMessage, error)
}

// Service implements recipe operations over the selected document store.
type Service struct {
	log     *slog.Logger
	recipes store
	ai      listGenerator
}

// NewService creates a new recipe service instance.
func NewService(logger *slog.Logger, recipes store, ai listGenerator) *Service {
	return &Service{
		log:     logger.With("service", "recipe"),
		recipes: recipes,
		ai:      ai,
	}
}

// Create validates and stores a new recipe owned by the calling user.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Recipe, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	recipe := input.toDomain(userID)
	created, err := s.recipes.Create(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("recipe.Create: %w", err)
	}

	s.log.InfoContext(ctx, "recipe created",
		slog.String("recipe_id", created.ID.String()),
		slog.String("user_id", userID.String()))

	return created, nil
}

// Get returns one recipe owned by the calling user.
func (s *Service) Get(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("recipe.Get: %w", err)
	}
	return recipe, nil
}

// List returns the user's recipes matching the filter.
func (s *Service) List(ctx context.Context, filter domain.RecipeFilter) ([]*domain.Recipe, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipes, err := s.recipes.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("recipe.List: %w", err)
	}
	return recipes, nil
}

// Update applies a partial update. Fields absent from the patch keep their
// previous values.
func (s *Service) Update(ctx context.Context, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := validatePatch(params); err != nil {
		return nil, err
	}

	updated, err := s.recipes.Update(ctx, userID, recipeID, params)
	if err != nil {
		return nil, fmt.Errorf("recipe.Update: %w", err)
	}

	s.log.InfoContext(ctx, "recipe updated",
		slog.String("recipe_id", recipeID.String()),
		slog.String("user_id", userID.String()))

	return updated, nil
}

// Delete removes a recipe owned by the calling user.
func (s *Service) Delete(ctx context.Context, recipeID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.recipes.Delete(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("recipe.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "recipe deleted",
		slog.String("recipe_id", recipeID.String()),
		slog.String("user_id", userID.String()))

	return nil
}

// ShoppingList asks the AI vendor to turn the recipe's ingredients into a
// categorized shopping list. Pass-through: no retries, no caching.
func (s *Service) ShoppingList(ctx context.Context, recipeID uuid.UUID) (json.RawMessage, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	recipe, err := s.recipes.GetByID(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("recipe.ShoppingList: %w", err)
	}
	if len(recipe.Ingredients) == 0 {
		return nil, domain.NewValidationError("ingredients", "recipe has no ingredients")
	}

	list, err := s.ai.ShoppingList(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("recipe.ShoppingList: %w", err)
	}
	return list, nil
}
