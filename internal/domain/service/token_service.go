package service

import (
	"time"

	"passport/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims defines the custom claims carried by signed access tokens.
// AccountID mirrors the registered subject claim and is filled when parsing.
type AccessClaims struct {
	AccountID uuid.UUID       `json:"-"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Provider  entity.Provider `json:"provider"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for minting and validating credentials.
// Access tokens are signed JWTs; refresh tokens are opaque random capabilities
// with no embedded claims. The service has no persistence side effects: it is
// a pure function of configuration, randomness and time.
type TokenService interface {
	// IssueAccessToken mints a signed, time-bounded access token for the account.
	IssueAccessToken(account *entity.Account) (string, error)

	// ParseAccessToken validates a signed access token (signature, issuer,
	// audience, expiry) and returns its claims.
	ParseAccessToken(raw string) (*AccessClaims, error)

	// NewRefreshToken produces a fresh opaque refresh token: 32 bytes from a
	// cryptographically secure random source, textually encoded.
	NewRefreshToken() (string, error)

	// HashToken returns the storage hash of a raw refresh token. The raw value
	// is never persisted.
	HashToken(raw string) string

	// RefreshTokenExpiry returns the absolute expiry for a refresh token
	// issued now.
	RefreshTokenExpiry() time.Time
}
