package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 40, 128} {
		s, err := RandomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
	}
}

func TestRandomStringAlphabet(t *testing.T) {
	s, err := RandomString(512)
	require.NoError(t, err)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
	}
}

func TestRandomStringDiffers(t *testing.T) {
	a, err := RandomString(40)
	require.NoError(t, err)
	b, err := RandomString(40)
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.Len(t, b, 40)
	assert.NotEqual(t, a, b)
}

func TestRandomStringNegative(t *testing.T) {
	_, err := RandomString(-1)
	assert.Error(t, err)
}
