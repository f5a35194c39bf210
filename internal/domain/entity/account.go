// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing a single identity.
// A locally-registered account carries a password hash; an account created
// through an external provider carries the provider name and the provider's
// own identifier instead.
type Account struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the account.
	Email        string    // The account's primary human-facing identity. Unique across all accounts.
	UserName     string    // The login/display handle. Defaults to the email for external accounts.
	PasswordHash string    // The bcrypt-hashed password. Empty for pure external accounts.
	FullName     string    // Optional display name.
	AvatarURL    string    // Optional URL to a profile picture.
	Provider     Provider  // Origin of the account: local registration or an external provider.
	ExternalID   string    // The identifier issued by the external provider. Empty for local accounts.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// DisplayName returns the name carried into access-token claims:
// the full name when present, otherwise the user name.
func (a *Account) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}

	return a.UserName
}

// HasPassword reports whether the account can be used for password login.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}
