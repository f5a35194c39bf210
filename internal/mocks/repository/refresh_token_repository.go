package repository

import (
	"context"
	"time"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRefreshTokenRepository is a mock implementation of repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if token, ok := args.Get(0).(*entity.RefreshToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRefreshTokenRepository) ConsumeActive(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.RefreshToken, error) {
	args := m.Called(ctx, accountID)
	if tokens, ok := args.Get(0).([]*entity.RefreshToken); ok {
		return tokens, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeAllByAccountID(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)

	return args.Get(0).(int64), args.Error(1)
}
