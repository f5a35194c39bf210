// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountConflict is returned when the store's uniqueness constraints
	// (email, or provider+external id) reject an insert or update.
	ErrAccountConflict = errors.New("account already exists")
)

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Create persists a new account. The store's unique constraints are the
	// authority on duplicates: a concurrent insert with the same email or the
	// same (provider, external id) pair yields ErrAccountConflict, never a
	// silent second copy.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByExternalID retrieves the account bound to an external provider identity.
	FindByExternalID(ctx context.Context, provider entity.Provider, externalID string) (*entity.Account, error)

	// Update modifies an existing account in the storage.
	Update(ctx context.Context, account *entity.Account) error
}
