package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMeta(t *testing.T) {
	t.Run("partial last page rounds up", func(t *testing.T) {
		meta := GetMeta(&Params{Page: 1, Limit: 20}, 45)
		assert.Equal(t, 3, meta.TotalPages)
		assert.True(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})

	t.Run("middle page has both neighbours", func(t *testing.T) {
		meta := GetMeta(&Params{Page: 2, Limit: 20}, 45)
		assert.True(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		meta := GetMeta(&Params{Page: 3, Limit: 20}, 45)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("empty result has zero pages", func(t *testing.T) {
		meta := GetMeta(&Params{Page: 1, Limit: 20}, 0)
		assert.Equal(t, 0, meta.TotalPages)
		assert.False(t, meta.HasNext)
	})
}
