package model

import (
	"time"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// RefreshToken is the persistence model for the refresh_tokens table. Only the
// SHA-256 hash of a token is ever stored; revoked rows are kept for audit.
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	AccountID uuid.UUID  `gorm:"column:account_id;type:uuid;not null;index:idx_refresh_tokens_account"`
	TokenHash string     `gorm:"column:token_hash;type:char(64);not null;uniqueIndex:uniq_refresh_tokens_hash"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	IsRevoked bool       `gorm:"column:is_revoked;not null;default:false"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"column:created_at;not null"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName implements the gorm Tabler interface.
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// ToEntity converts the persistence model to a domain entity.
func (m *RefreshToken) ToEntity() *entity.RefreshToken {
	return &entity.RefreshToken{
		ID:        m.ID,
		AccountID: m.AccountID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		IsRevoked: m.IsRevoked,
		RevokedAt: m.RevokedAt,
		CreatedAt: m.CreatedAt,
	}
}

// FromRefreshTokenEntity converts a domain entity to the persistence model.
func FromRefreshTokenEntity(token *entity.RefreshToken) *RefreshToken {
	return &RefreshToken{
		ID:        token.ID,
		AccountID: token.AccountID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		IsRevoked: token.IsRevoked,
		RevokedAt: token.RevokedAt,
		CreatedAt: token.CreatedAt,
	}
}
