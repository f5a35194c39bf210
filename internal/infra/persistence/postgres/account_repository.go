package postgres

import (
	"context"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
	"passport/internal/errors"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given
// connection or transaction handle.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account. The table's unique constraints decide
// duplicates: a violation surfaces as repository.ErrAccountConflict so that
// concurrent registrations of the same email resolve to exactly one row.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	record := model.FromAccountEntity(account)

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAccountConflict
		}

		return errors.Wrap(err, "create account")
	}

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var record model.Account
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "find account by id")
	}

	return record.ToEntity(), nil
}

// FindByEmail retrieves a single account by its email address.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var record model.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "find account by email")
	}

	return record.ToEntity(), nil
}

// FindByExternalID retrieves the account bound to an external provider identity.
func (r *accountRepository) FindByExternalID(ctx context.Context, provider entity.Provider, externalID string) (*entity.Account, error) {
	var record model.Account
	err := r.db.WithContext(ctx).
		Where("provider = ? AND external_id = ?", string(provider), externalID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "find account by external id")
	}

	return record.ToEntity(), nil
}

// Update saves the full account record. Uniqueness violations (linking an
// external identity that raced with another link) map to ErrAccountConflict.
func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	record := model.FromAccountEntity(account)

	result := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"email":         record.Email,
			"user_name":     record.UserName,
			"password_hash": record.PasswordHash,
			"full_name":     record.FullName,
			"avatar_url":    record.AvatarURL,
			"provider":      record.Provider,
			"external_id":   record.ExternalID,
			"updated_at":    record.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrAccountConflict
		}

		return errors.Wrap(result.Error, "update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}
