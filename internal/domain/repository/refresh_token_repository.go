// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for refresh token persistence.
var (
	// ErrTokenNotFound is returned when no refresh token row matches the presented token.
	ErrTokenNotFound = errors.New("refresh token not found")
	// ErrTokenAlreadyRevoked is returned by ConsumeActive when the row exists
	// but has already been consumed by another rotation.
	ErrTokenAlreadyRevoked = errors.New("refresh token already revoked")
)

// RefreshTokenRepository defines the interface for refresh token persistence.
// Revocation is always an update, never a delete: revoked and expired rows are
// kept as an audit trail of past sessions.
type RefreshTokenRepository interface {
	// Create persists a new refresh token, representing a session.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByTokenHash retrieves a refresh token record by its securely stored
	// hash, regardless of its revocation or expiry state. Callers decide how
	// to treat revoked or expired rows.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// ConsumeActive atomically flips is_revoked from false to true for the row
	// with the given hash. Exactly one of any number of concurrent calls for
	// the same live row succeeds; the rest receive ErrTokenAlreadyRevoked, and
	// a missing row yields ErrTokenNotFound. This conditional update is the
	// linearization point of refresh-token rotation.
	ConsumeActive(ctx context.Context, tokenHash string) error

	// Revoke marks the row with the given hash as revoked. Revoking a missing
	// or already-revoked token is not an error; the operation is idempotent.
	Revoke(ctx context.Context, tokenHash string) error

	// FindByAccountID retrieves all live (non-revoked, non-expired) refresh
	// tokens for an account, newest first.
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.RefreshToken, error)

	// RevokeAllByAccountID revokes every live refresh token owned by an
	// account. Used for "logout from all devices".
	RevokeAllByAccountID(ctx context.Context, accountID uuid.UUID) error

	// DeleteExpiredBefore removes rows whose expiry predates the given cutoff.
	// Retention sweep only; rows newer than the cutoff stay for audit.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
