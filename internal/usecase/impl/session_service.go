package impl

import (
	"context"
	"log/slog"
	"time"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/usecase"

	"github.com/google/uuid"
)

// SessionService implements usecase.SessionUsecase on top of the
// refresh-token store.
type SessionService struct {
	logger    *slog.Logger
	tokenRepo repository.RefreshTokenRepository
	retention time.Duration
}

// NewSessionService creates the session manager. The retention window bounds
// how long expired refresh-token rows survive before the cleanup sweep.
func NewSessionService(
	logger *slog.Logger,
	tokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) usecase.SessionUsecase {
	return &SessionService{
		logger:    logger,
		tokenRepo: tokenRepo,
		retention: cfg.Auth.SessionRetention,
	}
}

// ListSessions returns the live sessions for an account, newest first.
func (s *SessionService) ListSessions(ctx context.Context, accountID uuid.UUID) ([]*usecase.SessionInfo, error) {
	tokens, err := s.tokenRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "list sessions")
	}

	sessions := make([]*usecase.SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		sessions = append(sessions, &usecase.SessionInfo{
			ID:        token.ID,
			AccountID: token.AccountID,
			CreatedAt: token.CreatedAt,
			ExpiresAt: token.ExpiresAt,
		})
	}

	return sessions, nil
}

// RevokeAllSessions revokes every live refresh token for an account.
func (s *SessionService) RevokeAllSessions(ctx context.Context, accountID uuid.UUID) error {
	if err := s.tokenRepo.RevokeAllByAccountID(ctx, accountID); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "revoke all sessions")
	}

	s.logger.InfoContext(ctx, "all sessions revoked",
		slog.String("accountId", accountID.String()),
	)

	return nil
}

// CleanupExpiredSessions removes refresh-token rows whose expiry lies beyond
// the retention window. Revoked-but-unexpired rows are never touched.
func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention)

	removed, err := s.tokenRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "cleanup expired sessions")
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "expired sessions purged",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff),
		)
	}

	return removed, nil
}
