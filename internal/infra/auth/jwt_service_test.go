package auth

import (
	"testing"
	"time"

	"passport/config"
	"passport/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()

	cfg := &config.Config{
		JWT: &config.JWTConfig{
			Secret:           "test-secret-key-for-unit-tests",
			Issuer:           "passport-test",
			Audience:         "passport-test-clients",
			AccessTTLMinutes: 60,
			RefreshTTLDays:   7,
		},
	}

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*JWTService)
}

func testAccount() *entity.Account {
	return &entity.Account{
		ID:       uuid.New(),
		Email:    "user@example.com",
		UserName: "user@example.com",
		FullName: "Test User",
		Provider: entity.ProviderLocal,
	}
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(&config.Config{JWT: &config.JWTConfig{}})
	assert.Error(t, err)
}

func TestJWTService_IssueAndParse(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	account := testAccount()

	signed, err := svc.IssueAccessToken(account)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.ParseAccessToken(signed)
	require.NoError(t, err)

	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, account.Email, claims.Email)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, entity.ProviderLocal, claims.Provider)
	assert.Equal(t, "passport-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_NameFallsBackToUserName(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	account := testAccount()
	account.FullName = ""

	signed, err := svc.IssueAccessToken(account)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, account.UserName, claims.Name)
}

func TestJWTService_ParseRejectsExpired(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	svc.accessTTL = -time.Minute

	signed, err := svc.IssueAccessToken(testAccount())
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	assert.Error(t, err)
}

func TestJWTService_ParseRejectsTampering(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	other := newTestJWTService(t)
	other.secret = []byte("a-different-secret-entirely")

	signed, err := other.IssueAccessToken(testAccount())
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	assert.Error(t, err)

	_, err = svc.ParseAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_RefreshTokensAreOpaqueAndUnique(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)

	seen := make(map[string]struct{})
	for range 100 {
		token, err := svc.NewRefreshToken()
		require.NoError(t, err)
		require.NotEmpty(t, token)

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestJWTService_HashTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)

	first := svc.HashToken("some-refresh-token")
	second := svc.HashToken("some-refresh-token")
	other := svc.HashToken("another-refresh-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}

func TestJWTService_RefreshTokenExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)

	expiry := svc.RefreshTokenExpiry()
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiry, 5*time.Second)
}
