package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a single-use session credential. The raw opaque
// token is a secret capability handed to the client; only its SHA-256 hash is
// ever persisted. A token is consumed (revoked) the moment it is exchanged for
// a new pair, and revoked rows are kept as an audit trail rather than deleted.
type RefreshToken struct {
	ID        uuid.UUID  // The unique ID for this specific refresh token record.
	AccountID uuid.UUID  // Links this session to the Account it belongs to.
	TokenHash string     // SHA-256 hash of the raw opaque token for secure comparison in the database.
	ExpiresAt time.Time  // The exact time when this refresh token expires and becomes invalid.
	IsRevoked bool       // Terminal flag; once true it never reverts.
	RevokedAt *time.Time // When the token was revoked, nil while live.
	CreatedAt time.Time  // Timestamp of when this session was created.
}

// Expired reports whether the token's lifetime has elapsed at the given time.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
