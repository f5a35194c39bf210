// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new local account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=100"`
}

// LoginInput defines the data required for a password login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenInput carries the opaque refresh token presented for rotation.
type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RevokeTokenInput carries the opaque refresh token to revoke.
type RevokeTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ExternalLoginInput carries a provider name and the provider-issued
// credential (a Google ID token or a Facebook access token).
type ExternalLoginInput struct {
	Provider   string `json:"provider" validate:"required"`
	Credential string `json:"credential" validate:"required"`
}

// --- Output DTOs ---

// AccountSummary is the non-sensitive account projection returned to clients.
type AccountSummary struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	UserName  string          `json:"userName"`
	FullName  string          `json:"fullName,omitempty"`
	AvatarURL string          `json:"avatarUrl,omitempty"`
	Provider  entity.Provider `json:"provider"`
}

// NewAccountSummary projects an account entity onto the client-facing summary.
func NewAccountSummary(account *entity.Account) *AccountSummary {
	return &AccountSummary{
		ID:        account.ID.String(),
		Email:     account.Email,
		UserName:  account.UserName,
		FullName:  account.FullName,
		AvatarURL: account.AvatarURL,
		Provider:  account.Provider,
	}
}

// AuthOutput is the single success shape of every auth flow: a fresh token
// pair plus the resolved account. There is no partial success.
type AuthOutput struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Account      *AccountSummary `json:"account"`
}

// AuthUsecase defines the interface for the credential lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) depends on.
type AuthUsecase interface {
	// Register creates a local account and issues an initial token pair.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies an email/password pair and issues a token pair.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// RefreshToken rotates a live refresh token: the presented token is
	// revoked and a brand-new pair is issued in its place. A refresh token is
	// single-use; presenting it twice fails the second time.
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*AuthOutput, error)

	// RevokeToken marks a refresh token revoked. Revoking an unknown or
	// already-revoked token is a no-op, not an error.
	RevokeToken(ctx context.Context, input *RevokeTokenInput) error

	// ExternalLogin verifies a provider credential, reconciles the asserted
	// identity against the account store, and issues a token pair.
	ExternalLogin(ctx context.Context, input *ExternalLoginInput) (*AuthOutput, error)
}
