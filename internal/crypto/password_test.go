package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyCredential(t *testing.T) {
	hash, err := HashCredential("123456")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, VerifyCredential("123456", hash))
	assert.False(t, VerifyCredential("654321", hash))
	assert.False(t, VerifyCredential("", hash))
}

func TestHashCredentialSaltsEveryHash(t *testing.T) {
	first, err := HashCredential("123456")
	require.NoError(t, err)
	second, err := HashCredential("123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyCredential("123456", first))
	assert.True(t, VerifyCredential("123456", second))
}

func TestVerifyCredentialMalformedHash(t *testing.T) {
	assert.False(t, VerifyCredential("123456", ""))
	assert.False(t, VerifyCredential("123456", "plaintext"))
	assert.False(t, VerifyCredential("123456", "$argon2id$v=19$m=65536,t=1,p=4$bad!salt$digest"))
	assert.False(t, VerifyCredential("123456", "$bcrypt$whatever"))
}
