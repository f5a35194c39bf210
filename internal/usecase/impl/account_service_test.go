package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	mockrepo "passport/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*AccountService, *mockrepo.MockAccountRepository) {
	t.Helper()

	accountRepo := &mockrepo.MockAccountRepository{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAccountService(logger, accountRepo).(*AccountService)

	return service, accountRepo
}

func TestAccountService_Profile(t *testing.T) {
	t.Parallel()

	service, accountRepo := newAccountService(t)

	account := localAccount()
	accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil).Once()

	summary, err := service.Profile(context.Background(), account.ID)
	require.NoError(t, err)

	assert.Equal(t, account.ID.String(), summary.ID)
	assert.Equal(t, account.Email, summary.Email)
	assert.Equal(t, account.Provider, summary.Provider)
	accountRepo.AssertExpectations(t)
}

func TestAccountService_Profile_NotFound(t *testing.T) {
	t.Parallel()

	service, accountRepo := newAccountService(t)

	accountID := uuid.New()
	accountRepo.On("FindByID", mock.Anything, accountID).
		Return(nil, repository.ErrAccountNotFound).Once()

	summary, err := service.Profile(context.Background(), accountID)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestAccountService_Profile_StorageFailure(t *testing.T) {
	t.Parallel()

	service, accountRepo := newAccountService(t)

	accountID := uuid.New()
	accountRepo.On("FindByID", mock.Anything, accountID).
		Return(nil, errors.New("connection refused")).Once()

	summary, err := service.Profile(context.Background(), accountID)
	require.Error(t, err)
	assert.Nil(t, summary)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
}
