package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
	"github.com/momsflavor/backend/internal/service/recipe"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recipeServiceMock struct {
	CreateFunc       func(ctx context.Context, input recipe.CreateInput) (*domain.Recipe, error)
	GetFunc          func(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error)
	ListFunc         func(ctx context.Context, filter domain.RecipeFilter) ([]*domain.Recipe, error)
	UpdateFunc       func(ctx context.Context, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error)
	DeleteFunc       func(ctx context.Context, recipeID uuid.UUID) error
	ShoppingListFunc func(ctx context.Context, recipeID uuid.UUID) (json.RawMessage, error)
}

func (m *recipeServiceMock) Create(ctx context.Context, input recipe.CreateInput) (*domain.Recipe, error) {
	return m.CreateFunc(ctx, input)
}

func (m *recipeServiceMock) Get(ctx context.Context, recipeID uuid.UUID) (*domain.Recipe, error) {
	return m.GetFunc(ctx, recipeID)
}

func (m *recipeServiceMock) List(ctx context.Context, filter domain.RecipeFilter) ([]*domain.Recipe, error) {
	return m.ListFunc(ctx, filter)
}

func (m *recipeServiceMock) Update(ctx context.Context, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error) {
	return m.UpdateFunc(ctx, recipeID, params)
}

func (m *recipeServiceMock) Delete(ctx context.Context, recipeID uuid.UUID) error {
	return m.DeleteFunc(ctx, recipeID)
}

func (m *recipeServiceMock) ShoppingList(ctx context.Context, recipeID uuid.UUID) (json.RawMessage, error) {
	return m.ShoppingListFunc(ctx, recipeID)
}

func sampleRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		DishName:    "Pho Bo",
		RecipeName:  "Grandma's broth",
		Difficulty:  domain.DifficultyNormal,
		CookingTime: domain.CookingTimeSlow,
		Ingredients: []domain.Ingredient{
			{Name: "beef bones", Quantity: "1", Unit: "kg"},
		},
		Instructions: []domain.Instruction{
			{Step: 1, Title: "Simmer", Description: "Simmer the bones."},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestRecipeCreate_Created(t *testing.T) {
	t.Parallel()

	want := sampleRecipe()
	svc := &recipeServiceMock{
		CreateFunc: func(_ context.Context, input recipe.CreateInput) (*domain.Recipe, error) {
			if input.DishName != "Pho Bo" {
				t.Errorf("expected dishName 'Pho Bo', got %q", input.DishName)
			}
			if input.Difficulty != domain.DifficultyNormal {
				t.Errorf("expected difficulty 'normal', got %q", input.Difficulty)
			}
			return want, nil
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	body := `{"dishName":"Pho Bo","recipeName":"Grandma's broth","difficulty":"normal","cookingTime":"slow",` +
		`"ingredients":[{"name":"beef bones","quantity":"1","unit":"kg"}],` +
		`"instructions":[{"step":1,"title":"Simmer","description":"Simmer the bones."}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp recipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != want.ID.String() {
		t.Errorf("expected id %s, got %s", want.ID, resp.ID)
	}
	if resp.GalleryImages == nil {
		t.Error("expected galleryImages to serialize as [], not null")
	}
}

func TestRecipeCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewRecipeHandler(&recipeServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRecipeCreate_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &recipeServiceMock{
		CreateFunc: func(_ context.Context, _ recipe.CreateInput) (*domain.Recipe, error) {
			return nil, domain.NewValidationError("dishName", "dish name is required")
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRecipeGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &recipeServiceMock{
		GetFunc: func(_ context.Context, _ uuid.UUID) (*domain.Recipe, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/"+uuid.NewString(), nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRecipeGet_InvalidID(t *testing.T) {
	t.Parallel()

	h := NewRecipeHandler(&recipeServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRecipeList_FilterPassthrough(t *testing.T) {
	t.Parallel()

	var gotFilter domain.RecipeFilter
	svc := &recipeServiceMock{
		ListFunc: func(_ context.Context, filter domain.RecipeFilter) ([]*domain.Recipe, error) {
			gotFilter = filter
			return []*domain.Recipe{sampleRecipe()}, nil
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/recipes?difficulty=easy&cookingTime=fast&sort=asc", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if gotFilter.Difficulty == nil || *gotFilter.Difficulty != domain.DifficultyEasy {
		t.Errorf("expected difficulty filter 'easy', got %v", gotFilter.Difficulty)
	}
	if gotFilter.CookingTime == nil || *gotFilter.CookingTime != domain.CookingTimeFast {
		t.Errorf("expected cookingTime filter 'fast', got %v", gotFilter.CookingTime)
	}
	if !gotFilter.SortAsc {
		t.Error("expected ascending sort")
	}
}

func TestRecipeList_InvalidFilter(t *testing.T) {
	t.Parallel()

	h := NewRecipeHandler(&recipeServiceMock{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/recipes?difficulty=impossible", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRecipeUpdate_PartialPatch(t *testing.T) {
	t.Parallel()

	var gotParams domain.RecipeUpdateParams
	svc := &recipeServiceMock{
		UpdateFunc: func(_ context.Context, _ uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error) {
			gotParams = params
			return sampleRecipe(), nil
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/recipes/x", strings.NewReader(`{"dishName":"Bun Cha"}`))
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotParams.DishName == nil || *gotParams.DishName != "Bun Cha" {
		t.Errorf("expected dishName patch 'Bun Cha', got %v", gotParams.DishName)
	}
	if gotParams.RecipeName != nil || gotParams.Difficulty != nil || gotParams.CookingTime != nil {
		t.Error("expected absent fields to stay nil")
	}
}

func TestRecipeUpdate_ForeignOwner(t *testing.T) {
	t.Parallel()

	svc := &recipeServiceMock{
		UpdateFunc: func(_ context.Context, _ uuid.UUID, _ domain.RecipeUpdateParams) (*domain.Recipe, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/recipes/x", strings.NewReader(`{"dishName":"Bun Cha"}`))
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestRecipeDelete_NoContent(t *testing.T) {
	t.Parallel()

	svc := &recipeServiceMock{
		DeleteFunc: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/x", nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestRecipeShoppingList_RawPassthrough(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"items":[{"name":"beef bones","quantity":"1 kg"}]}`)
	svc := &recipeServiceMock{
		ShoppingListFunc: func(_ context.Context, _ uuid.UUID) (json.RawMessage, error) {
			return raw, nil
		},
	}
	h := NewRecipeHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/x/shopping-list", nil)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.ShoppingList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != string(raw) {
		t.Errorf("expected vendor payload passed through verbatim, got %s", rec.Body.String())
	}
}
