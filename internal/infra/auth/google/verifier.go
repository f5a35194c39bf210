// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"
	"passport/internal/errors"

	"google.golang.org/api/idtoken"
)

// validateFunc matches idtoken.Validate; swapped out in tests.
type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// Verifier validates Google ID tokens against the configured OAuth client ID.
type Verifier struct {
	clientID string
	validate validateFunc
}

// NewVerifier creates a verifier bound to the configured Google client ID.
// The client ID is the expected audience of every accepted ID token.
func NewVerifier(cfg *config.Config) (*Verifier, error) {
	if cfg.GoogleOAuth == nil || cfg.GoogleOAuth.ClientID == "" {
		return nil, errors.New("google oauth client id is not configured")
	}

	return &Verifier{
		clientID: cfg.GoogleOAuth.ClientID,
		validate: idtoken.Validate,
	}, nil
}

var _ service.ProviderVerifier = (*Verifier)(nil)

// Provider returns the provider this verifier speaks for.
func (v *Verifier) Provider() entity.Provider {
	return entity.ProviderGoogle
}

// Verify checks the ID token's signature against Google's published keys and
// its audience against the configured client ID, then extracts the asserted
// identity from the payload claims.
func (v *Verifier) Verify(ctx context.Context, credential string) (*entity.ExternalIdentity, error) {
	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, errors.Wrap(err, "validate google id token")
	}

	externalID := payload.Subject
	if externalID == "" {
		return nil, errors.New("google id token missing subject")
	}

	return &entity.ExternalIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: externalID,
		Email:      claimString(payload.Claims, "email"),
		FullName:   claimString(payload.Claims, "name"),
		AvatarURL:  claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]any, key string) string {
	value, _ := claims[key].(string)

	return value
}
