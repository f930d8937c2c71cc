package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

// Store interfaces the wiring selects between. Both the PostgreSQL and the
// local SQLite adapters satisfy them.

type recipeStore interface {
	Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.RecipeFilter) ([]*domain.Recipe, error)
	Update(ctx context.Context, userID, recipeID uuid.UUID, params domain.RecipeUpdateParams) (*domain.Recipe, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
}

type sessionStore interface {
	Load(ctx context.Context, userID, recipeID uuid.UUID) (*domain.CookingSession, error)
	SaveSteps(ctx context.Context, userID, recipeID uuid.UUID, steps []int) error
	SaveTimers(ctx context.Context, userID, recipeID uuid.UUID, timers map[int]domain.StepTimer) error
	Clear(ctx context.Context, userID, recipeID uuid.UUID) error
}

type diaryStore interface {
	Create(ctx context.Context, entry *domain.DiaryEntry) (*domain.DiaryEntry, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.DiaryEntry, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.DiaryEntry, error)
}

type userStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenStore interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pinger interface {
	Ping(ctx context.Context) error
}
