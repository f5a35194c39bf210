package impl

import (
	"context"
	"log/slog"

	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/errors"
	"passport/internal/usecase"

	"github.com/google/uuid"
)

// AccountService implements usecase.AccountUsecase: account reads for
// authenticated clients, separate from the credential lifecycle.
type AccountService struct {
	logger      *slog.Logger
	accountRepo repository.AccountRepository
}

// NewAccountService is the constructor for AccountService.
func NewAccountService(
	logger *slog.Logger,
	accountRepo repository.AccountRepository,
) usecase.AccountUsecase {
	return &AccountService{
		logger:      logger,
		accountRepo: accountRepo,
	}
}

// Profile returns the account summary for an authenticated account.
func (s *AccountService) Profile(ctx context.Context, accountID uuid.UUID) (*usecase.AccountSummary, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by id")
	}

	return usecase.NewAccountSummary(account), nil
}
