package service

import (
	"context"

	"passport/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockProviderVerifier is a mock implementation of service.ProviderVerifier.
type MockProviderVerifier struct {
	mock.Mock

	ProviderName entity.Provider
}

func (m *MockProviderVerifier) Verify(ctx context.Context, credential string) (*entity.ExternalIdentity, error) {
	args := m.Called(ctx, credential)
	if identity, ok := args.Get(0).(*entity.ExternalIdentity); ok {
		return identity, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProviderVerifier) Provider() entity.Provider {
	return m.ProviderName
}
