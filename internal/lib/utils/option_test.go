package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	some := Some(42)
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, some.IsPresent())
	assert.Equal(t, 42, some.OrElse(7))

	none := None[int]()
	v, ok = none.Get()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.False(t, none.IsPresent())
	assert.Equal(t, 7, none.OrElse(7))

	// The zero value is absent.
	var zero Option[string]
	assert.False(t, zero.IsPresent())
}
