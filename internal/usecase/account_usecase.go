package usecase

import (
	"context"

	"github.com/google/uuid"
)

// AccountUsecase defines the read-side operations on an authenticated account.
// It is deliberately separate from AuthUsecase: handlers that only show
// account data do not get handed the credential lifecycle.
type AccountUsecase interface {
	// Profile returns the account summary for an authenticated account.
	Profile(ctx context.Context, accountID uuid.UUID) (*AccountSummary, error)
}
