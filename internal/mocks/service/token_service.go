// Package service provides hand-written testify mocks for the domain service
// interfaces.
package service

import (
	"time"

	"passport/internal/domain/entity"
	"passport/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueAccessToken(account *entity.Account) (string, error) {
	args := m.Called(account)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ParseAccessToken(raw string) (*service.AccessClaims, error) {
	args := m.Called(raw)
	if claims, ok := args.Get(0).(*service.AccessClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTokenService) NewRefreshToken() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) HashToken(raw string) string {
	args := m.Called(raw)

	return args.String(0)
}

func (m *MockTokenService) RefreshTokenExpiry() time.Time {
	args := m.Called()

	return args.Get(0).(time.Time)
}
