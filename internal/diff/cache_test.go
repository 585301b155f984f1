package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache(0)

	r1 := c.DiffLines("a\nb", "a\nc")
	r2 := c.DiffLines("a\nb", "a\nc")
	assert.Equal(t, DiffLines("a\nb", "a\nc"), r1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, c.Len())

	// Swapping old and new is a different pair.
	c.DiffLines("a\nc", "a\nb")
	assert.Equal(t, 2, c.Len())
}

func TestCache_Disabled(t *testing.T) {
	c := NewCache(-1)
	assert.Equal(t, DiffLines("x", "y"), c.DiffLines("x", "y"))
	assert.Equal(t, 0, c.Len())
}
