package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentLookupUnbound(t *testing.T) {
	env := NewEnvironment()
	_, ok := env.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Size())
}

func TestEnvironmentExtendIsPersistent(t *testing.T) {
	base := NewEnvironment().Extend("x", Int(1))
	shadowed := base.Extend("x", Int(2))

	cell, ok := base.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "1", cell.Get().(IntegerValue).String())

	cell, ok = shadowed.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "2", cell.Get().(IntegerValue).String())
	assert.Equal(t, 1, shadowed.Size())
}

func TestEnvironmentSharedCell(t *testing.T) {
	cell := NewCell(Int(1))
	a := NewEnvironment().Bind("x", cell)
	b := a.Extend("y", BoolValue{Val: true})

	found, ok := b.Lookup("x")
	require.True(t, ok)
	found.Set(Int(5))

	again, ok := a.Lookup("x")
	require.True(t, ok)
	assert.Same(t, cell, again)
	assert.Equal(t, "5", again.Get().(IntegerValue).String())
	assert.Equal(t, 2, b.Size())
}

func TestEnvironmentManyBindings(t *testing.T) {
	env := NewEnvironment()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t"}
	for idx, name := range names {
		env = env.Extend(name, Int(int64(idx)))
	}
	for idx, name := range names {
		cell, ok := env.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, Int(int64(idx)).String(), cell.Get().(IntegerValue).String())
	}
}
