// Package impl provides the concrete implementations of the use case interfaces.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/errors"
	"passport/internal/usecase"

	"github.com/google/uuid"
)

// AuthService implements usecase.AuthUsecase. It orchestrates the account and
// refresh-token repositories, the password hasher, the token service and the
// external provider verifiers.
type AuthService struct {
	logger      *slog.Logger
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	tokenRepo   repository.RefreshTokenRepository
	hasher      service.PasswordHasher
	tokens      service.TokenService
	verifiers   map[entity.Provider]service.ProviderVerifier
}

// NewAuthService creates the auth orchestrator. Verifiers are keyed by the
// provider they speak for; an empty slice simply disables external login.
func NewAuthService(
	logger *slog.Logger,
	txManager repository.TransactionManager,
	accountRepo repository.AccountRepository,
	tokenRepo repository.RefreshTokenRepository,
	hasher service.PasswordHasher,
	tokens service.TokenService,
	verifiers []service.ProviderVerifier,
) usecase.AuthUsecase {
	registry := make(map[entity.Provider]service.ProviderVerifier, len(verifiers))
	for _, v := range verifiers {
		registry[v.Provider()] = v
	}

	return &AuthService{
		logger:      logger,
		txManager:   txManager,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		hasher:      hasher,
		tokens:      tokens,
		verifiers:   registry,
	}
}

// Register creates a local account and issues its first token pair. The
// account insert and the session insert commit atomically; duplicate emails
// are rejected by the store's unique constraint, not by a pre-check.
func (s *AuthService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	now := time.Now()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        input.Email,
		UserName:     input.Email,
		PasswordHash: passwordHash,
		FullName:     input.FullName,
		Provider:     entity.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var output *usecase.AuthOutput
	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.AccountRepo().Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrAccountConflict) {
				return domainerrors.ErrAccountConflict
			}

			return domainerrors.NewDatabaseExecuteError(err, "create account")
		}

		out, err := s.issueTokenPair(ctx, factory.RefreshTokenRepo(), account)
		if err != nil {
			return err
		}
		output = out

		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "registration failed",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("accountId", account.ID.String()),
	)

	return output, nil
}

// Login verifies an email/password pair and issues a fresh token pair. An
// unknown email, a federated-only account and a wrong password all collapse
// into the same invalid-credentials answer.
func (s *AuthService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	account, err := s.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by email")
	}

	if !account.HasPassword() || !s.hasher.Check(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	output, err := s.issueTokenPair(ctx, s.tokenRepo, account)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password login succeeded",
		slog.String("accountId", account.ID.String()),
	)

	return output, nil
}

// RefreshToken rotates a refresh token. The presented token is consumed and a
// new pair is issued in one transaction, so no interleaving can leave two live
// tokens or consume a token without handing anything back.
func (s *AuthService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.AuthOutput, error) {
	tokenHash := s.tokens.HashToken(input.RefreshToken)

	var output *usecase.AuthOutput
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		tokenRepo := factory.RefreshTokenRepo()

		stored, err := tokenRepo.FindByTokenHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return domainerrors.ErrTokenNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "find refresh token")
		}

		if stored.Expired(time.Now()) {
			return domainerrors.ErrTokenExpired
		}
		if stored.IsRevoked {
			return domainerrors.ErrTokenRevoked
		}

		// The conditional update is the linearization point: of concurrent
		// rotations presenting the same token, exactly one passes this line.
		if err := tokenRepo.ConsumeActive(ctx, tokenHash); err != nil {
			switch {
			case errors.Is(err, repository.ErrTokenAlreadyRevoked):
				return domainerrors.ErrTokenRevoked
			case errors.Is(err, repository.ErrTokenNotFound):
				return domainerrors.ErrTokenNotFound
			default:
				return domainerrors.NewDatabaseExecuteError(err, "consume refresh token")
			}
		}

		account, err := factory.AccountRepo().FindByID(ctx, stored.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound
			}

			return domainerrors.NewDatabaseExecuteError(err, "find token owner")
		}

		out, err := s.issueTokenPair(ctx, tokenRepo, account)
		if err != nil {
			return err
		}
		output = out

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "refresh token rotated",
		slog.String("accountId", output.Account.ID),
	)

	return output, nil
}

// RevokeToken marks a refresh token revoked. Unknown and already-revoked
// tokens succeed silently so the endpoint never leaks whether a token exists.
func (s *AuthService) RevokeToken(ctx context.Context, input *usecase.RevokeTokenInput) error {
	tokenHash := s.tokens.HashToken(input.RefreshToken)

	if err := s.tokenRepo.Revoke(ctx, tokenHash); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "revoke refresh token")
	}

	return nil
}

// ExternalLogin verifies a provider credential, reconciles the asserted
// identity against the account store and issues a token pair.
func (s *AuthService) ExternalLogin(ctx context.Context, input *usecase.ExternalLoginInput) (*usecase.AuthOutput, error) {
	verifier, err := s.verifierFor(input.Provider)
	if err != nil {
		return nil, err
	}

	identity, err := verifier.Verify(ctx, input.Credential)
	if err != nil {
		s.logger.WarnContext(ctx, "provider verification failed",
			slog.String("provider", input.Provider),
			slog.String("error", err.Error()),
		)

		return nil, domainerrors.ErrProviderVerificationFailed
	}
	if identity.Email == "" {
		return nil, domainerrors.ErrProviderVerificationFailed.WithDetails("provider did not assert an email")
	}

	var output *usecase.AuthOutput
	err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		account, err := s.resolveExternalIdentity(ctx, factory.AccountRepo(), identity)
		if err != nil {
			return err
		}

		out, err := s.issueTokenPair(ctx, factory.RefreshTokenRepo(), account)
		if err != nil {
			return err
		}
		output = out

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "external login succeeded",
		slog.String("provider", string(identity.Provider)),
		slog.String("accountId", output.Account.ID),
	)

	return output, nil
}

// resolveExternalIdentity maps a verified external identity onto exactly one
// account. Match order: the (provider, external id) binding first, then the
// asserted email with link-if-unlinked, then a brand-new account. The store's
// unique constraints arbitrate races on both steps.
func (s *AuthService) resolveExternalIdentity(ctx context.Context, accountRepo repository.AccountRepository, identity *entity.ExternalIdentity) (*entity.Account, error) {
	account, err := accountRepo.FindByExternalID(ctx, identity.Provider, identity.ExternalID)
	switch {
	case err == nil:
		return s.refreshProfile(ctx, accountRepo, account, identity)
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by external id")
	}

	account, err = accountRepo.FindByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		return s.linkExternalIdentity(ctx, accountRepo, account, identity)
	case !errors.Is(err, repository.ErrAccountNotFound):
		return nil, domainerrors.NewDatabaseExecuteError(err, "find account by email")
	}

	return s.createExternalAccount(ctx, accountRepo, identity)
}

// linkExternalIdentity binds the external identity to an existing account
// reached through its email. An account already carrying an external binding
// is used as-is: the email match is enough, the old binding is never rewritten.
func (s *AuthService) linkExternalIdentity(ctx context.Context, accountRepo repository.AccountRepository, account *entity.Account, identity *entity.ExternalIdentity) (*entity.Account, error) {
	if account.ExternalID != "" {
		return account, nil
	}

	account.Provider = identity.Provider
	account.ExternalID = identity.ExternalID
	if account.FullName == "" {
		account.FullName = identity.FullName
	}
	if account.AvatarURL == "" {
		account.AvatarURL = identity.AvatarURL
	}
	account.UpdatedAt = time.Now()

	if err := accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountConflict) {
			return nil, domainerrors.ErrAccountConflict
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "link external identity")
	}

	s.logger.InfoContext(ctx, "external identity linked",
		slog.String("accountId", account.ID.String()),
		slog.String("provider", string(identity.Provider)),
	)

	return account, nil
}

// refreshProfile carries the provider's latest profile assertions onto an
// already-linked account. Best effort; a stale name never blocks a login.
func (s *AuthService) refreshProfile(ctx context.Context, accountRepo repository.AccountRepository, account *entity.Account, identity *entity.ExternalIdentity) (*entity.Account, error) {
	changed := false
	if identity.FullName != "" && identity.FullName != account.FullName {
		account.FullName = identity.FullName
		changed = true
	}
	if identity.AvatarURL != "" && identity.AvatarURL != account.AvatarURL {
		account.AvatarURL = identity.AvatarURL
		changed = true
	}
	if !changed {
		return account, nil
	}

	account.UpdatedAt = time.Now()
	if err := accountRepo.Update(ctx, account); err != nil {
		s.logger.WarnContext(ctx, "profile refresh failed",
			slog.String("accountId", account.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return account, nil
}

func (s *AuthService) createExternalAccount(ctx context.Context, accountRepo repository.AccountRepository, identity *entity.ExternalIdentity) (*entity.Account, error) {
	now := time.Now()
	account := &entity.Account{
		ID:         uuid.New(),
		Email:      identity.Email,
		UserName:   identity.Email,
		FullName:   identity.FullName,
		AvatarURL:  identity.AvatarURL,
		Provider:   identity.Provider,
		ExternalID: identity.ExternalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountConflict) {
			return nil, domainerrors.ErrAccountConflict
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "create external account")
	}

	return account, nil
}

func (s *AuthService) verifierFor(name string) (service.ProviderVerifier, error) {
	for provider, verifier := range s.verifiers {
		if strings.EqualFold(string(provider), name) {
			return verifier, nil
		}
	}

	return nil, domainerrors.ErrUnsupportedProvider.WithDetails("provider: " + name)
}

// issueTokenPair mints an access token and persists a new refresh-token row
// through the given repository, which may be transaction-bound.
func (s *AuthService) issueTokenPair(ctx context.Context, tokenRepo repository.RefreshTokenRepository, account *entity.Account) (*usecase.AuthOutput, error) {
	accessToken, err := s.tokens.IssueAccessToken(account)
	if err != nil {
		return nil, errors.Wrap(err, "issue access token")
	}

	rawRefresh, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}

	record := &entity.RefreshToken{
		ID:        uuid.New(),
		AccountID: account.ID,
		TokenHash: s.tokens.HashToken(rawRefresh),
		ExpiresAt: s.tokens.RefreshTokenExpiry(),
		CreatedAt: time.Now(),
	}
	if err := tokenRepo.Create(ctx, record); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "create refresh token")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		Account:      usecase.NewAccountSummary(account),
	}, nil
}
