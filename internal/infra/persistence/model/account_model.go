// Package model defines the GORM persistence models and their mappings to
// domain entities.
package model

import (
	"time"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// Account is the persistence model for the accounts table.
//
// ExternalID is a pointer so that local accounts store NULL; the composite
// unique index on (provider, external_id) then only constrains federated rows,
// since NULLs never collide.
type Account struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uniq_accounts_email"`
	UserName     string    `gorm:"column:user_name;type:varchar(255);not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255)"`
	FullName     string    `gorm:"column:full_name;type:varchar(255)"`
	AvatarURL    string    `gorm:"column:avatar_url;type:text"`
	Provider     string    `gorm:"column:provider;type:varchar(32);not null;uniqueIndex:uniq_accounts_provider_external,priority:1"`
	ExternalID   *string   `gorm:"column:external_id;type:varchar(255);uniqueIndex:uniq_accounts_provider_external,priority:2"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

// TableName implements the gorm Tabler interface.
func (Account) TableName() string {
	return "accounts"
}

// ToEntity converts the persistence model to a domain entity.
func (m *Account) ToEntity() *entity.Account {
	externalID := ""
	if m.ExternalID != nil {
		externalID = *m.ExternalID
	}

	return &entity.Account{
		ID:           m.ID,
		Email:        m.Email,
		UserName:     m.UserName,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		AvatarURL:    m.AvatarURL,
		Provider:     entity.Provider(m.Provider),
		ExternalID:   externalID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromAccountEntity converts a domain entity to the persistence model.
func FromAccountEntity(account *entity.Account) *Account {
	var externalID *string
	if account.ExternalID != "" {
		id := account.ExternalID
		externalID = &id
	}

	return &Account{
		ID:           account.ID,
		Email:        account.Email,
		UserName:     account.UserName,
		PasswordHash: account.PasswordHash,
		FullName:     account.FullName,
		AvatarURL:    account.AvatarURL,
		Provider:     string(account.Provider),
		ExternalID:   externalID,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}
