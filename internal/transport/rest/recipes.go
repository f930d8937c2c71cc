package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/internal/service/recipe"
)

// recipeService defines the minimal interface needed by RecipeHandler.
type recipeService interface {
	Create(ctx context.Context, input recipe.CreateInput) (*domain.Recipe, error)
	Get(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error)
	List(ctx context.Context, filter domain.RecipeFilter) ([]*domain.Recipe, error)
	Update(ctx context.Context, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error)
	Delete(ctx context.Context, recipeID uuid.UUID) error
	ShoppingList(ctx context.Context, recipeID uuid.UUID) (json.RawMessage, error)
}

// RecipeHandler serves recipe REST endpoints.
type RecipeHandler struct {
	svc recipeService
	log *slog.Logger
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(svc recipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{svc: svc, log: logger.With("handler", "recipes")}
}

type recipeRequest struct {
	DishName      string               `json:"dishName"`
	RecipeName    string               `json:"recipeName"`
	Difficulty    string               `json:"difficulty"`
	CookingTime   string               `json:"cookingTime"`
	Ingredients   []domain.Ingredient  `json:"ingredients"`
	Instructions  []domain.Instruction `json:"instructions"`
	Tips          *string              `json:"tips"`
	CoverImage    *string              `json:"coverImage"`
	GalleryImages []string             `json:"galleryImages"`
}

type recipePatchRequest struct {
	DishName      *string              `json:"dishName"`
	RecipeName    *string              `json:"recipeName"`
	Difficulty    *string              `json:"difficulty"`
	CookingTime   *string              `json:"cookingTime"`
	Ingredients   []domain.Ingredient  `json:"ingredients"`
	Instructions  []domain.Instruction `json:"instructions"`
	Tips          *string              `json:"tips"`
	CoverImage    *string              `json:"coverImage"`
	GalleryImages []string             `json:"galleryImages"`
}

type recipeResponse struct {
	ID            string               `json:"id"`
	DishName      string               `json:"dishName"`
	RecipeName    string               `json:"recipeName"`
	Difficulty    string               `json:"difficulty"`
	CookingTime   string               `json:"cookingTime"`
	Ingredients   []domain.Ingredient  `json:"ingredients"`
	Instructions  []domain.Instruction `json:"instructions"`
	Tips          *string              `json:"tips,omitempty"`
	CoverImage    *string              `json:"coverImage,omitempty"`
	GalleryImages []string             `json:"galleryImages"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Create handles POST /api/recipes.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), recipe.CreateInput{
		DishName:      req.DishName,
		RecipeName:    req.RecipeName,
		Difficulty:    domain.Difficulty(req.Difficulty),
		CookingTime:   domain.CookingTime(req.CookingTime),
		Ingredients:   req.Ingredients,
		Instructions:  req.Instructions,
		Tips:          req.Tips,
		CoverImage:    req.CoverImage,
		GalleryImages: req.GalleryImages,
	})
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeResponse(created))
}

// List handles GET /api/recipes with optional difficulty/cookingTime filters
// and a sort=asc|desc query parameter (default newest first).
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.RecipeFilter

	if v := r.URL.Query().Get("difficulty"); v != "" {
		d := domain.Difficulty(v)
		if !d.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid difficulty filter")
			return
		}
		filter.Difficulty = &d
	}
	if v := r.URL.Query().Get("cookingTime"); v != "" {
		ct := domain.CookingTime(v)
		if !ct.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid cookingTime filter")
			return
		}
		filter.CookingTime = &ct
	}
	filter.SortAsc = r.URL.Query().Get("sort") == "asc"

	recipes, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	resp := make([]recipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		resp = append(resp, toRecipeResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(rec))
}

// Update handles PUT /api/recipes/{id}. Only fields present in the body are
// changed.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req recipePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := domain.RecipeUpdateParams{
		DishName:      req.DishName,
		RecipeName:    req.RecipeName,
		Ingredients:   req.Ingredients,
		Instructions:  req.Instructions,
		Tips:          req.Tips,
		CoverImage:    req.CoverImage,
		GalleryImages: req.GalleryImages,
	}
	if req.Difficulty != nil {
		d := domain.Difficulty(*req.Difficulty)
		params.Difficulty = &d
	}
	if req.CookingTime != nil {
		ct := domain.CookingTime(*req.CookingTime)
		params.CookingTime = &ct
	}

	updated, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(updated))
}

// Delete handles DELETE /api/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShoppingList handles POST /api/recipes/{id}/shopping-list.
func (h *RecipeHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.svc.ShoppingList(r.Context(), id)
	if err != nil {
		respondError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(list) //nolint:errcheck
}

func toRecipeResponse(rec *domain.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:            rec.ID.String(),
		DishName:      rec.DishName,
		RecipeName:    rec.RecipeName,
		Difficulty:    rec.Difficulty.String(),
		CookingTime:   rec.CookingTime.String(),
		Ingredients:   rec.Ingredients,
		Instructions:  rec.Instructions,
		Tips:          rec.Tips,
		CoverImage:    rec.CoverImage,
		GalleryImages: rec.GalleryImages,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []domain.Ingredient{}
	}
	if resp.Instructions == nil {
		resp.Instructions = []domain.Instruction{}
	}
	if resp.GalleryImages == nil {
		resp.GalleryImages = []string{}
	}
	return resp
}

// pathUUID parses a UUID path segment, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
