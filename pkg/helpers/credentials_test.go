package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw, err := NewTempPassword()
		require.NoError(t, err)
		assert.Len(t, pw, 8)
		for _, r := range pw {
			assert.Contains(t, tempPasswordAlphabet, string(r))
		}
		seen[pw] = true
	}
	assert.Greater(t, len(seen), 1, "passwords should not repeat")
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 40, "20 bytes hex encoded")
	assert.Regexp(t, "^[0-9a-f]{40}$", a)
	assert.NotEqual(t, a, b)
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "Ashaa", UsernameBase("Asha Kumar", "a@example.com"))
	assert.Equal(t, "Singlesingle", UsernameBase("Single", "single@x.io"))
	assert.Equal(t, "Nonoat", UsernameBase("No At", "noat"))
}
