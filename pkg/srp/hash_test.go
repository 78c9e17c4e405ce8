package srp_test

import (
	"testing"

	"github.com/hominsu/srp6a/pkg/srp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHash_UnknownAlgorithm(t *testing.T) {
	_, err := srp.NewHash("sha3-256")
	require.Error(t, err)
}

func TestNewHash_KnownAlgorithms(t *testing.T) {
	for _, name := range []string{"sha1", "sha256", "sha384", "sha512", "md5", "SHA-256"} {
		t.Run(name, func(t *testing.T) {
			h, err := srp.NewHash(name)
			require.NoError(t, err)
			assert.Greater(t, h.HashSizeBytes(), 0)
		})
	}
}

func TestComputeHash_DeterministicAndWidthIsDigestDoubled(t *testing.T) {
	h, err := srp.NewHash("sha256")
	require.NoError(t, err)

	a, err := h.ComputeHash([]byte("hello"), []byte(" "), []byte("world"))
	require.NoError(t, err)
	b, err := h.ComputeHash([]byte("hello world"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "concatenated inputs and a single pre-joined input must hash the same")
	assert.Equal(t, 2*h.HashSizeBytes(), a.Width())
}

func TestComputeHash_NilContributesNoBytes(t *testing.T) {
	h, err := srp.NewHash("sha256")
	require.NoError(t, err)

	withNil, err := h.ComputeHash([]byte("a"), nil, []byte("b"))
	require.NoError(t, err)
	withoutNil, err := h.ComputeHash([]byte("a"), []byte("b"))
	require.NoError(t, err)

	assert.True(t, withNil.Equal(withoutNil))
}

func TestComputeHash_HexStringArgumentMatchesEquivalentInteger(t *testing.T) {
	h, err := srp.NewHash("sha256")
	require.NoError(t, err)

	n, err := srp.FromHex("deadbeef")
	require.NoError(t, err)

	viaString, err := h.ComputeHash("deadbeef")
	require.NoError(t, err)
	viaInteger, err := h.ComputeHash(n)
	require.NoError(t, err)

	assert.True(t, viaString.Equal(viaInteger), "a hex-string argument must hash the same as the *Integer it decodes to")
}

func TestComputeHash_InvalidHexStringArgumentErrors(t *testing.T) {
	h, err := srp.NewHash("sha256")
	require.NoError(t, err)

	_, err = h.ComputeHash("not-hex")
	require.Error(t, err)
}

func TestComputeHash_PaddingChangesDigest(t *testing.T) {
	h, err := srp.NewHash("sha256")
	require.NoError(t, err)

	n, err := srp.FromHex("ff")
	require.NoError(t, err)

	unpadded, err := h.ComputeHash(n)
	require.NoError(t, err)
	padded, err := h.ComputeHash(n.Pad(8))
	require.NoError(t, err)

	assert.False(t, unpadded.Equal(padded), "hashing a deliberately under-padded input must yield a different digest")
}
