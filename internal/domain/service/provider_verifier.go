package service

import (
	"context"

	"passport/internal/domain/entity"
)

// ProviderVerifier verifies a provider-issued credential (a Google ID token, a
// Facebook access token) and returns the identity it asserts. Implementations
// own the provider-specific handshake — signature checks, audience checks,
// graph lookups; the orchestrator only consumes the verified tuple.
type ProviderVerifier interface {
	// Verify validates the credential with the provider and returns the
	// asserted identity. A bad signature, wrong audience or expired credential
	// is an error; the orchestrator maps it to a verification failure.
	Verify(ctx context.Context, credential string) (*entity.ExternalIdentity, error)

	// Provider returns the provider this verifier speaks for.
	Provider() entity.Provider
}
