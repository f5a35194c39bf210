package entity

// Provider identifies the origin of an account or an external credential.
type Provider string

const (
	// ProviderLocal marks accounts registered directly with email and password.
	ProviderLocal Provider = "Local"
	// ProviderGoogle marks identities asserted by Google Sign-In.
	ProviderGoogle Provider = "Google"
	// ProviderFacebook marks identities asserted by Facebook Login.
	ProviderFacebook Provider = "Facebook"
)

// ExternalIdentity is the verified result of an external provider's credential
// check. It is produced by a ProviderVerifier after the provider's signature,
// audience and expiry have been validated; the core never sees raw provider
// credentials beyond this point.
type ExternalIdentity struct {
	Provider   Provider // Which provider asserted this identity.
	ExternalID string   // The provider's stable identifier for the user (e.g. Google's 'sub').
	Email      string   // The email asserted by the provider.
	FullName   string   // Display name asserted by the provider.
	AvatarURL  string   // Profile picture URL, if the provider supplies one.
}
