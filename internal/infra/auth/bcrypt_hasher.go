// Package auth provides concrete implementations of the domain's
// authentication services.
package auth

import (
	"passport/config"
	"passport/internal/domain/service"
	"passport/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements service.PasswordHasher using the bcrypt algorithm.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the configured cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

// Hash generates a salted bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt.GenerateFromPassword")
	}

	return string(hashed), nil
}

// Check reports whether the password matches the stored hash. A missing hash
// (federated-only account) never matches anything.
func (h *BcryptHasher) Check(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
