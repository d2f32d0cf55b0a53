package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotContains(t, digest, "correct horse")

	require.True(t, hasher.Verify("correct horse battery staple", digest))
	require.False(t, hasher.Verify("wrong password", digest))
}

func TestPasswordHasherSaltsEachDigest(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	first, err := hasher.Hash("admin123")
	require.NoError(t, err)
	second, err := hasher.Hash("admin123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("admin123", first))
	require.True(t, hasher.Verify("admin123", second))
}

func TestPasswordHasherMalformedDigestIsNonMatch(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	require.False(t, hasher.Verify("anything", ""))
	require.False(t, hasher.Verify("anything", "not-a-bcrypt-digest"))
}

func TestPasswordHasherClampsInvalidCost(t *testing.T) {
	hasher := NewPasswordHasher(99)

	digest, err := hasher.Hash("pw")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$2"))
	require.True(t, hasher.Verify("pw", digest))
}
