package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"passport/config"
	"passport/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphStub struct {
	debugBody   string
	profileBody string
}

func (s *graphStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug_token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.debugBody))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(s.profileBody))
	})

	return mux
}

func newTestVerifier(t *testing.T, stub *graphStub) *Verifier {
	t.Helper()

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{FacebookOAuth: &config.FacebookOAuthConfig{
		AppID:     "app-123",
		AppSecret: "secret",
	}}
	verifier, err := NewVerifier(cfg)
	require.NoError(t, err)

	verifier.baseURL = server.URL
	verifier.client = server.Client()

	return verifier
}

func TestNewVerifier_RequiresAppCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier(&config.Config{FacebookOAuth: &config.FacebookOAuthConfig{AppID: "app-123"}})
	assert.Error(t, err)
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, &graphStub{
		debugBody: `{"data":{"app_id":"app-123","is_valid":true,"user_id":"fb-42"}}`,
		profileBody: `{"id":"fb-42","name":"Some User","email":"user@example.com",` +
			`"picture":{"data":{"url":"https://example.com/avatar.jpg"}}}`,
	})

	identity, err := verifier.Verify(context.Background(), "fb-access-token")
	require.NoError(t, err)

	assert.Equal(t, entity.ProviderFacebook, identity.Provider)
	assert.Equal(t, "fb-42", identity.ExternalID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Some User", identity.FullName)
	assert.Equal(t, "https://example.com/avatar.jpg", identity.AvatarURL)
}

func TestVerifier_VerifyRejectsInvalidToken(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, &graphStub{
		debugBody:   `{"data":{"app_id":"app-123","is_valid":false}}`,
		profileBody: `{}`,
	})

	_, err := verifier.Verify(context.Background(), "stale-token")
	assert.Error(t, err)
}

func TestVerifier_VerifyRejectsForeignApp(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, &graphStub{
		debugBody:   `{"data":{"app_id":"someone-elses-app","is_valid":true,"user_id":"fb-42"}}`,
		profileBody: `{"id":"fb-42"}`,
	})

	_, err := verifier.Verify(context.Background(), "foreign-token")
	assert.Error(t, err)
}

func TestVerifier_VerifyRejectsUserMismatch(t *testing.T) {
	t.Parallel()

	verifier := newTestVerifier(t, &graphStub{
		debugBody:   `{"data":{"app_id":"app-123","is_valid":true,"user_id":"fb-42"}}`,
		profileBody: `{"id":"fb-99","name":"Impostor"}`,
	})

	_, err := verifier.Verify(context.Background(), "mismatched-token")
	assert.Error(t, err)
}
