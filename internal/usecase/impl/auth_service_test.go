package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	domainservice "passport/internal/domain/service"
	"passport/internal/errors"
	mockrepo "passport/internal/mocks/repository"
	mocksvc "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service     *AuthService
	accountRepo *mockrepo.MockAccountRepository
	tokenRepo   *mockrepo.MockRefreshTokenRepository
	hasher      *mocksvc.MockPasswordHasher
	tokens      *mocksvc.MockTokenService
	google      *mocksvc.MockProviderVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	accountRepo := &mockrepo.MockAccountRepository{}
	tokenRepo := &mockrepo.MockRefreshTokenRepository{}
	hasher := &mocksvc.MockPasswordHasher{}
	tokens := &mocksvc.MockTokenService{}
	google := &mocksvc.MockProviderVerifier{ProviderName: entity.ProviderGoogle}

	txManager := &mockrepo.StubTransactionManager{
		Factory: &mockrepo.StubRepositoryFactory{
			Accounts:      accountRepo,
			RefreshTokens: tokenRepo,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAuthService(logger, txManager, accountRepo, tokenRepo, hasher, tokens,
		[]domainservice.ProviderVerifier{google}).(*AuthService)

	return &authFixture{
		service:     service,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		hasher:      hasher,
		tokens:      tokens,
		google:      google,
	}
}

func (f *authFixture) expectTokenPair(account *entity.Account, access, refresh string) {
	f.tokens.On("IssueAccessToken", mock.MatchedBy(func(a *entity.Account) bool {
		return a.ID == account.ID
	})).Return(access, nil).Once()
	f.tokens.On("NewRefreshToken").Return(refresh, nil).Once()
	f.tokens.On("HashToken", refresh).Return("hash-of-" + refresh)
	f.tokens.On("RefreshTokenExpiry").Return(time.Now().Add(7 * 24 * time.Hour))
	f.tokenRepo.On("Create", mock.Anything, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.AccountID == account.ID && token.TokenHash == "hash-of-"+refresh
	})).Return(nil).Once()
}

func localAccount() *entity.Account {
	return &entity.Account{
		ID:           uuid.New(),
		Email:        "user@example.com",
		UserName:     "user@example.com",
		PasswordHash: "$2a$stored-hash",
		FullName:     "Test User",
		Provider:     entity.ProviderLocal,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", "password123").Return("$2a$hashed", nil).Once()

	var created *entity.Account
	f.accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Email == "new@example.com" &&
			a.Provider == entity.ProviderLocal &&
			a.PasswordHash == "$2a$hashed" &&
			a.UserName == a.Email
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Account)
		f.expectTokenPair(created, "access-jwt", "refresh-raw")
	}).Return(nil).Once()

	output, err := f.service.Register(ctx, &usecase.RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
		FullName: "New User",
	})
	require.NoError(t, err)

	assert.Equal(t, "access-jwt", output.AccessToken)
	assert.Equal(t, "refresh-raw", output.RefreshToken)
	assert.Equal(t, created.ID.String(), output.Account.ID)
	assert.Equal(t, entity.ProviderLocal, output.Account.Provider)

	f.accountRepo.AssertExpectations(t)
	f.tokenRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	f.hasher.On("Hash", "password123").Return("$2a$hashed", nil).Once()
	f.accountRepo.On("Create", mock.Anything, mock.Anything).
		Return(repository.ErrAccountConflict).Once()

	_, err := f.service.Register(ctx, &usecase.RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
		FullName: "Someone",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAccountConflict)

	f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	account := localAccount()

	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil).Once()
	f.hasher.On("Check", "password123", account.PasswordHash).Return(true).Once()
	f.expectTokenPair(account, "access-jwt", "refresh-raw")

	output, err := f.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "access-jwt", output.AccessToken)
	assert.Equal(t, "refresh-raw", output.RefreshToken)
	assert.Equal(t, account.Email, output.Account.Email)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	account := localAccount()

	t.Run("unknown email", func(t *testing.T) {
		f.accountRepo.On("FindByEmail", mock.Anything, "nobody@example.com").
			Return(nil, repository.ErrAccountNotFound).Once()

		_, err := f.service.Login(ctx, &usecase.LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil).Once()
		f.hasher.On("Check", "wrong", account.PasswordHash).Return(false).Once()

		_, err := f.service.Login(ctx, &usecase.LoginInput{
			Email:    account.Email,
			Password: "wrong",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("federated-only account", func(t *testing.T) {
		fresh := newAuthFixture(t)

		external := localAccount()
		external.PasswordHash = ""
		external.Provider = entity.ProviderGoogle
		external.Email = "google-only@example.com"

		fresh.accountRepo.On("FindByEmail", mock.Anything, external.Email).Return(external, nil).Once()

		_, err := fresh.service.Login(ctx, &usecase.LoginInput{
			Email:    external.Email,
			Password: "anything",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
		fresh.hasher.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	})
}

func TestAuthService_RefreshToken_Rotation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	account := localAccount()

	stored := &entity.RefreshToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: "hash-of-old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	f.tokens.On("HashToken", "old-token").Return("hash-of-old-token")
	f.tokenRepo.On("FindByTokenHash", mock.Anything, "hash-of-old-token").Return(stored, nil).Once()
	f.tokenRepo.On("ConsumeActive", mock.Anything, "hash-of-old-token").Return(nil).Once()
	f.accountRepo.On("FindByID", mock.Anything, account.ID).Return(account, nil).Once()
	f.expectTokenPair(account, "new-access", "new-refresh")

	output, err := f.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "old-token"})
	require.NoError(t, err)

	assert.Equal(t, "new-access", output.AccessToken)
	assert.Equal(t, "new-refresh", output.RefreshToken)
	assert.NotEqual(t, "old-token", output.RefreshToken)

	f.tokenRepo.AssertExpectations(t)
}

func TestAuthService_RefreshToken_Failures(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		f.tokens.On("HashToken", "missing").Return("hash-of-missing")
		f.tokenRepo.On("FindByTokenHash", mock.Anything, "hash-of-missing").
			Return(nil, repository.ErrTokenNotFound).Once()

		_, err := f.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "missing"})
		assert.ErrorIs(t, err, domainerrors.ErrTokenNotFound)
	})

	t.Run("already revoked", func(t *testing.T) {
		revoked := &entity.RefreshToken{
			TokenHash: "hash-of-used",
			ExpiresAt: time.Now().Add(time.Hour),
			IsRevoked: true,
		}
		f.tokens.On("HashToken", "used").Return("hash-of-used")
		f.tokenRepo.On("FindByTokenHash", mock.Anything, "hash-of-used").Return(revoked, nil).Once()

		_, err := f.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "used"})
		assert.ErrorIs(t, err, domainerrors.ErrTokenRevoked)
	})

	t.Run("expired", func(t *testing.T) {
		expired := &entity.RefreshToken{
			TokenHash: "hash-of-stale",
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		f.tokens.On("HashToken", "stale").Return("hash-of-stale")
		f.tokenRepo.On("FindByTokenHash", mock.Anything, "hash-of-stale").Return(expired, nil).Once()

		_, err := f.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "stale"})
		assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
		f.tokenRepo.AssertNotCalled(t, "ConsumeActive", mock.Anything, "hash-of-stale")
	})

	t.Run("lost the rotation race", func(t *testing.T) {
		live := &entity.RefreshToken{
			AccountID: uuid.New(),
			TokenHash: "hash-of-contended",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		f.tokens.On("HashToken", "contended").Return("hash-of-contended")
		f.tokenRepo.On("FindByTokenHash", mock.Anything, "hash-of-contended").Return(live, nil).Once()
		f.tokenRepo.On("ConsumeActive", mock.Anything, "hash-of-contended").
			Return(repository.ErrTokenAlreadyRevoked).Once()

		_, err := f.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "contended"})
		assert.ErrorIs(t, err, domainerrors.ErrTokenRevoked)
	})
}

func TestAuthService_RevokeToken_Idempotent(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	f.tokens.On("HashToken", "any-token").Return("hash-of-any")
	f.tokenRepo.On("Revoke", mock.Anything, "hash-of-any").Return(nil).Twice()

	require.NoError(t, f.service.RevokeToken(ctx, &usecase.RevokeTokenInput{RefreshToken: "any-token"}))
	require.NoError(t, f.service.RevokeToken(ctx, &usecase.RevokeTokenInput{RefreshToken: "any-token"}))

	f.tokenRepo.AssertExpectations(t)
}

func TestAuthService_ExternalLogin_ExistingBinding(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	account := localAccount()
	account.Provider = entity.ProviderGoogle
	account.ExternalID = "google-sub-1"
	account.PasswordHash = ""

	f.google.On("Verify", mock.Anything, "id-token").Return(&entity.ExternalIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: "google-sub-1",
		Email:      account.Email,
		FullName:   account.FullName,
	}, nil).Once()
	f.accountRepo.On("FindByExternalID", mock.Anything, entity.ProviderGoogle, "google-sub-1").
		Return(account, nil).Once()
	f.expectTokenPair(account, "access-jwt", "refresh-raw")

	output, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
		Provider:   "google",
		Credential: "id-token",
	})
	require.NoError(t, err)

	assert.Equal(t, account.ID.String(), output.Account.ID)
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.accountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_ExternalLogin_LinksUnboundEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	account := localAccount()

	f.google.On("Verify", mock.Anything, "id-token").Return(&entity.ExternalIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: "google-sub-2",
		Email:      account.Email,
		FullName:   "From Google",
		AvatarURL:  "https://example.com/pic.png",
	}, nil).Once()
	f.accountRepo.On("FindByExternalID", mock.Anything, entity.ProviderGoogle, "google-sub-2").
		Return(nil, repository.ErrAccountNotFound).Once()
	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil).Once()
	f.accountRepo.On("Update", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.ID == account.ID &&
			a.Provider == entity.ProviderGoogle &&
			a.ExternalID == "google-sub-2" &&
			a.PasswordHash != "" // linking must not drop the local password
	})).Return(nil).Once()
	f.expectTokenPair(account, "access-jwt", "refresh-raw")

	output, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
		Provider:   "Google",
		Credential: "id-token",
	})
	require.NoError(t, err)

	assert.Equal(t, account.ID.String(), output.Account.ID)
	f.accountRepo.AssertExpectations(t)
}

func TestAuthService_ExternalLogin_EmailBoundElsewhere(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	account := localAccount()
	account.Provider = entity.ProviderFacebook
	account.ExternalID = "fb-99"

	f.google.On("Verify", mock.Anything, "id-token").Return(&entity.ExternalIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: "google-sub-3",
		Email:      account.Email,
	}, nil).Once()
	f.accountRepo.On("FindByExternalID", mock.Anything, entity.ProviderGoogle, "google-sub-3").
		Return(nil, repository.ErrAccountNotFound).Once()
	f.accountRepo.On("FindByEmail", mock.Anything, account.Email).Return(account, nil).Once()
	f.expectTokenPair(account, "access-jwt", "refresh-raw")

	output, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
		Provider:   "google",
		Credential: "id-token",
	})
	require.NoError(t, err)

	// The existing binding is left untouched; no re-link, no new account.
	assert.Equal(t, account.ID.String(), output.Account.ID)
	assert.Equal(t, "fb-99", account.ExternalID)
	f.accountRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_ExternalLogin_CreatesAccount(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	f.google.On("Verify", mock.Anything, "id-token").Return(&entity.ExternalIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: "google-sub-4",
		Email:      "fresh@example.com",
		FullName:   "Fresh User",
	}, nil).Once()
	f.accountRepo.On("FindByExternalID", mock.Anything, entity.ProviderGoogle, "google-sub-4").
		Return(nil, repository.ErrAccountNotFound).Once()
	f.accountRepo.On("FindByEmail", mock.Anything, "fresh@example.com").
		Return(nil, repository.ErrAccountNotFound).Once()

	var created *entity.Account
	f.accountRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.Email == "fresh@example.com" &&
			a.UserName == "fresh@example.com" &&
			a.Provider == entity.ProviderGoogle &&
			a.ExternalID == "google-sub-4" &&
			a.PasswordHash == ""
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.Account)
		f.expectTokenPair(created, "access-jwt", "refresh-raw")
	}).Return(nil).Once()

	output, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
		Provider:   "google",
		Credential: "id-token",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID.String(), output.Account.ID)
	assert.Equal(t, entity.ProviderGoogle, output.Account.Provider)
}

func TestAuthService_ExternalLogin_Failures(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	t.Run("unsupported provider", func(t *testing.T) {
		_, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
			Provider:   "myspace",
			Credential: "whatever",
		})
		assert.ErrorIs(t, err, domainerrors.ErrUnsupportedProvider)
	})

	t.Run("verification failure", func(t *testing.T) {
		f.google.On("Verify", mock.Anything, "forged").
			Return(nil, errors.New("signature mismatch")).Once()

		_, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
			Provider:   "google",
			Credential: "forged",
		})
		assert.ErrorIs(t, err, domainerrors.ErrProviderVerificationFailed)
	})

	t.Run("no email asserted", func(t *testing.T) {
		f.google.On("Verify", mock.Anything, "no-email").Return(&entity.ExternalIdentity{
			Provider:   entity.ProviderGoogle,
			ExternalID: "google-sub-5",
		}, nil).Once()

		_, err := f.service.ExternalLogin(ctx, &usecase.ExternalLoginInput{
			Provider:   "google",
			Credential: "no-email",
		})

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainerrors.ErrProviderVerificationFailed.ErrorCode(), appErr.ErrorCode())
	})
}
