package postgres

import (
	"context"
	"time"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
	"passport/internal/errors"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// refreshTokenRepository implements repository.RefreshTokenRepository using GORM.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a refresh token repository bound to the
// given connection or transaction handle.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token row.
func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	record := model.FromRefreshTokenEntity(token)

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrAccountNotFound
		}

		return errors.Wrap(err, "create refresh token")
	}

	return nil
}

// FindByTokenHash retrieves a row by hash regardless of its state.
func (r *refreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var record model.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, errors.Wrap(err, "find refresh token by hash")
	}

	return record.ToEntity(), nil
}

// ConsumeActive flips is_revoked from false to true in a single conditional
// UPDATE. The WHERE clause makes the flip atomic: of any number of concurrent
// rotations presenting the same token, the database lets exactly one through.
func (r *refreshTokenRepository) ConsumeActive(ctx context.Context, tokenHash string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", tokenHash, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "consume refresh token")
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing row from one another rotation already consumed.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.RefreshToken{}).
			Where("token_hash = ?", tokenHash).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "check refresh token existence")
		}
		if count == 0 {
			return repository.ErrTokenNotFound
		}

		return repository.ErrTokenAlreadyRevoked
	}

	return nil
}

// Revoke marks a row revoked. Missing or already-revoked rows are a no-op.
func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", tokenHash, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "revoke refresh token")
	}

	return nil
}

// FindByAccountID lists the live sessions of an account, newest first.
func (r *refreshTokenRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]*entity.RefreshToken, error) {
	var records []model.RefreshToken
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND is_revoked = ? AND expires_at > ?", accountID, false, time.Now()).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "find refresh tokens by account")
	}

	tokens := make([]*entity.RefreshToken, 0, len(records))
	for i := range records {
		tokens = append(tokens, records[i].ToEntity())
	}

	return tokens, nil
}

// RevokeAllByAccountID revokes every live token owned by an account.
func (r *refreshTokenRepository) RevokeAllByAccountID(ctx context.Context, accountID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("account_id = ? AND is_revoked = ?", accountID, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": now,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "revoke account refresh tokens")
	}

	return nil
}

// DeleteExpiredBefore removes rows whose expiry predates the cutoff.
func (r *refreshTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete expired refresh tokens")
	}

	return result.RowsAffected, nil
}
