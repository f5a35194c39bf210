package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"
	"passport/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenBytes = 32

// JWTService implements service.TokenService with HMAC-signed access tokens
// and opaque random refresh tokens.
type JWTService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a token service from configuration. An empty signing
// secret is a deployment error, caught here rather than on the first login.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT == nil || cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}

	return &JWTService{
		secret:     []byte(cfg.JWT.Secret),
		issuer:     cfg.JWT.Issuer,
		audience:   cfg.JWT.Audience,
		accessTTL:  time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour,
	}, nil
}

// IssueAccessToken mints an HS256-signed JWT carrying the account's identity.
func (s *JWTService) IssueAccessToken(account *entity.Account) (string, error) {
	now := time.Now()
	claims := &service.AccessClaims{
		Email:    account.Email,
		Name:     account.DisplayName(),
		Provider: account.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// ParseAccessToken validates the signature, issuer, audience and expiry of an
// access token and returns its claims with AccountID resolved from the subject.
func (s *JWTService) ParseAccessToken(raw string) (*service.AccessClaims, error) {
	claims := &service.AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parse access token")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "parse subject claim")
	}
	claims.AccountID = accountID

	return claims, nil
}

// NewRefreshToken draws 32 bytes from crypto/rand and encodes them as
// unpadded URL-safe base64. The value carries no claims; it is only a key.
func (s *JWTService) NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 digest under which a refresh token is
// stored and looked up.
func (s *JWTService) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// RefreshTokenExpiry returns the absolute expiry for a refresh token issued now.
func (s *JWTService) RefreshTokenExpiry() time.Time {
	return time.Now().Add(s.refreshTTL)
}
