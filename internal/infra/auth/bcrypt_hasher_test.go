package auth

import (
	"strings"
	"testing"

	"passport/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(cost int) *BcryptHasher {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: cost}}

	return NewBcryptHasher(cfg).(*BcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("wrong password", hash))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same password", first))
	assert.True(t, hasher.Check("same password", second))
}

func TestBcryptHasher_EmptyInputs(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(bcrypt.MinCost)

	_, err := hasher.Hash("")
	assert.Error(t, err)

	hash, err := hasher.Hash("password")
	require.NoError(t, err)

	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("password", ""))
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()

	hasher := newTestHasher(99)

	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
