package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected bcrypt hash")

	assert.True(t, CompareHashAndPassword(hash, "s3cret-pass"))
	assert.False(t, CompareHashAndPassword(hash, "wrong"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "s3cret-pass"))
	assert.False(t, CompareHashAndPassword("", ""))
}
