package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFavorites(t *testing.T) {
	p := &Profile{}

	p.AddFavorite("a")
	p.AddFavorite("b")
	p.AddFavorite("a")
	assert.Equal(t, []string{"a", "b"}, p.Favorites, "duplicates are ignored")
	assert.True(t, p.HasFavorite("a"))
	assert.False(t, p.HasFavorite("c"))

	p.RemoveFavorite("a")
	assert.Equal(t, []string{"b"}, p.Favorites)

	p.RemoveFavorite("missing")
	assert.Equal(t, []string{"b"}, p.Favorites)
}
