package srp_test

import (
	"testing"

	"github.com/hominsu/srp6a/pkg/srp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := srp.DefaultParameters()
	assert.Equal(t, 512, p.PaddedLength, "2048-bit N is 512 hex digits")
	assert.Equal(t, 32, p.HashSizeBytes(), "sha256 digests are 32 bytes")
	assert.False(t, p.K.IsZero())
}

func TestNewParametersFromGroup_AllStandardGroups(t *testing.T) {
	groups := map[int]int{
		1024: 256,
		1536: 384,
		2048: 512,
		3072: 768,
		4096: 1024,
		6144: 1536,
		8192: 2048,
	}
	for bits, wantHexDigits := range groups {
		t.Run(intToLabel(bits), func(t *testing.T) {
			p, err := srp.NewParametersFromGroup(bits, "sha1")
			require.NoError(t, err)
			assert.Equal(t, wantHexDigits, p.PaddedLength)
			assert.False(t, p.K.IsZero())
		})
	}
}

func TestNewParametersFromGroup_UnknownSize(t *testing.T) {
	_, err := srp.NewParametersFromGroup(999, "sha256")
	assert.Error(t, err)
}

func TestNewParameters_RejectsCompositeN(t *testing.T) {
	_, err := srp.NewParameters("64", "02", "sha256") // 100 decimal, composite
	assert.Error(t, err)
}

func TestNewParameters_RejectsGeneratorNotLessThanN(t *testing.T) {
	// N = 23 (prime), g = 23: g must satisfy 0 < g < N.
	_, err := srp.NewParameters("17", "17", "sha256")
	assert.Error(t, err)
}

func TestParametersPurity(t *testing.T) {
	p1, err := srp.NewParametersFromGroup(2048, "sha256")
	require.NoError(t, err)
	p2, err := srp.NewParametersFromGroup(2048, "sha256")
	require.NoError(t, err)

	assert.True(t, p1.K.Equal(p2.K))
	assert.Equal(t, p1.PaddedLength, p2.PaddedLength)
	assert.Equal(t, p1.HashSizeBytes(), p2.HashSizeBytes())
}

func intToLabel(n int) string {
	switch n {
	case 1024:
		return "1024-bit"
	case 1536:
		return "1536-bit"
	case 2048:
		return "2048-bit"
	case 3072:
		return "3072-bit"
	case 4096:
		return "4096-bit"
	case 6144:
		return "6144-bit"
	case 8192:
		return "8192-bit"
	default:
		return "unknown"
	}
}
