package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionInfo describes one live refresh-token session for an account.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionUsecase defines session management operations built on top of the
// refresh-token store.
type SessionUsecase interface {
	// ListSessions returns the live sessions for an account, newest first.
	ListSessions(ctx context.Context, accountID uuid.UUID) ([]*SessionInfo, error)

	// RevokeAllSessions revokes every live refresh token for an account.
	RevokeAllSessions(ctx context.Context, accountID uuid.UUID) error

	// CleanupExpiredSessions deletes refresh-token rows whose expiry lies
	// beyond the retention window and reports how many were removed.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}
