package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/momsflavor/backend/internal/domain"
)

var _ jwtManager = &jwtManagerMock{}

type jwtManagerMock struct {
	GenerateAccessTokenFunc  func(userID uuid.UUID) (string, error)
	GenerateRefreshTokenFunc func() (string, string, error)
	ValidateAccessTokenFunc  func(token string) (uuid.UUID, error)

	calls struct {
		GenerateAccessToken  []uuid.UUID
		GenerateRefreshToken int
	}
	mu sync.Mutex
}

func (mock *jwtManagerMock) GenerateAccessToken(userID uuid.UUID) (string, error) {
	if mock.GenerateAccessTokenFunc == nil {
		panic("jwtManagerMock.GenerateAccessTokenFunc: method is nil but GenerateAccessToken was just called")
	}
	mock.mu.Lock()
	mock.calls.GenerateAccessToken = append(mock.calls.GenerateAccessToken, userID)
	mock.mu.Unlock()
	return mock.GenerateAccessTokenFunc(userID)
}

func (mock *jwtManagerMock) GenerateRefreshToken() (string, string, error) {
	if mock.GenerateRefreshTokenFunc == nil {
		panic("jwtManagerMock.GenerateRefreshTokenFunc: method is nil but GenerateRefreshToken was just called")
	}
	mock.mu.Lock()
	mock.calls.GenerateRefreshToken++
	mock.mu.Unlock()
	return mock.GenerateRefreshTokenFunc()
}

func (mock *jwtManagerMock) ValidateAccessToken(token string) (uuid.UUID, error) {
	if mock.ValidateAccessTokenFunc == nil {
		panic("jwtManagerMock.ValidateAccessTokenFunc: method is nil but ValidateAccessToken was just called")
	}
	return mock.ValidateAccessTokenFunc(token)
}

var _ userStore = &userStoreMock{}

type userStoreMock struct {
	CreateFunc     func(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (mock *userStoreMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return mock.CreateFunc(ctx, user)
}

func (mock *userStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userStoreMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return mock.GetByEmailFunc(ctx, email)
}

var _ tokenStore = &tokenStoreMock{}

type tokenStoreMock struct {
	CreateFunc          func(ctx context.Context, token *domain.RefreshToken) error
	GetByHashFunc       func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByIDFunc      func(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserFunc func(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredFunc   func(ctx context.Context) (int, error)

	mu      sync.Mutex
	created []*domain.RefreshToken
	revoked []uuid.UUID
}

func (mock *tokenStoreMock) Create(ctx context.Context, token *domain.RefreshToken) error {
	mock.mu.Lock()
	mock.created = append(mock.created, token)
	mock.mu.Unlock()
	if mock.CreateFunc == nil {
		return nil
	}
	return mock.CreateFunc(ctx, token)
}

func (mock *tokenStoreMock) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	return mock.GetByHashFunc(ctx, tokenHash)
}

func (mock *tokenStoreMock) RevokeByID(ctx context.Context, id uuid.UUID) error {
	mock.mu.Lock()
	mock.revoked = append(mock.revoked, id)
	mock.mu.Unlock()
	if mock.RevokeByIDFunc == nil {
		return nil
	}
	return mock.RevokeByIDFunc(ctx, id)
}

func (mock *tokenStoreMock) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	if mock.RevokeAllByUserFunc == nil {
		return nil
	}
	return mock.RevokeAllByUserFunc(ctx, userID)
}

func (mock *tokenStoreMock) DeleteExpired(ctx context.Context) (int, error) {
	if mock.DeleteExpiredFunc == nil {
		return 0, nil
	}
	return mock.DeleteExpiredFunc(ctx)
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
