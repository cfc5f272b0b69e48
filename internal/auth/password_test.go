package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *Hasher {
	return newHasherWithCost(bcrypt.MinCost)
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	ok, err := h.Verify("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_WrongPasswordIsMismatchNotError(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	ok, err := h.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SamePasswordHashesDiffer(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	second, err := h.Hash("s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, hash := range []string{first, second} {
		ok, err := h.Verify("s3cret-password", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestHasher_MalformedHashIsError(t *testing.T) {
	h := testHasher()

	ok, err := h.Verify("anything", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	h := testHasher()

	_, err := h.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
}
