package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localsOf[T any](entries ...T) Locals[T] {
	var locals Locals[T]
	for _, entry := range entries {
		locals.Push(entry)
	}
	return locals
}

func TestIndexLevelConversion(t *testing.T) {
	size := LocalSize(3)

	level, ok := size.IndexToLevel(0)
	require.True(t, ok)
	assert.Equal(t, LocalLevel(2), level)

	index, ok := size.LevelToIndex(0)
	require.True(t, ok)
	assert.Equal(t, LocalIndex(2), index)

	_, ok = size.IndexToLevel(3)
	assert.False(t, ok)
	_, ok = size.LevelToIndex(3)
	assert.False(t, ok)
	_, ok = LocalSize(0).IndexToLevel(0)
	assert.False(t, ok)
}

func TestIndexLevelRoundTrip(t *testing.T) {
	for size := LocalSize(1); size < 10; size++ {
		for i := LocalIndex(0); uint32(i) < uint32(size); i++ {
			level, ok := size.IndexToLevel(i)
			require.True(t, ok)
			back, ok := size.LevelToIndex(level)
			require.True(t, ok)
			assert.Equal(t, i, back)
		}
	}
}

func TestLocalsPushGet(t *testing.T) {
	var locals Locals[string]
	assert.Equal(t, LocalSize(0), locals.Size())
	_, ok := locals.Get(0)
	assert.False(t, ok)

	locals.Push("a")
	locals.Push("b")
	locals.Push("c")
	assert.Equal(t, LocalSize(3), locals.Size())

	innermost, ok := locals.Get(0)
	require.True(t, ok)
	assert.Equal(t, "c", innermost)

	outermost, ok := locals.Get(2)
	require.True(t, ok)
	assert.Equal(t, "a", outermost)

	byLevel, ok := locals.GetLevel(0)
	require.True(t, ok)
	assert.Equal(t, "a", byLevel)

	_, ok = locals.Get(3)
	assert.False(t, ok)
}

func TestLocalsPopTruncate(t *testing.T) {
	locals := localsOf("a", "b", "c", "d")

	assert.Equal(t, "d", locals.Pop())
	assert.Equal(t, LocalSize(3), locals.Size())

	locals.PopMany(2)
	assert.Equal(t, LocalSize(1), locals.Size())

	locals.Push("e")
	locals.Push("f")
	locals.Truncate(1)
	only, _ := locals.Get(0)
	assert.Equal(t, "a", only)

	locals.Truncate(5)
	assert.Equal(t, LocalSize(1), locals.Size())

	locals.Clear()
	assert.Equal(t, LocalSize(0), locals.Size())
	assert.Panics(t, func() { locals.Pop() })
}

func TestLocalsSnapshot(t *testing.T) {
	locals := localsOf(1, 2)
	snapshot := locals

	locals.Push(3)
	locals.Pop()
	locals.Pop()
	locals.Push(4)

	assert.Equal(t, LocalSize(2), snapshot.Size())
	second, _ := snapshot.Get(0)
	assert.Equal(t, 2, second)

	var all []int
	for _, v := range snapshot.All() {
		all = append(all, v)
	}
	assert.Equal(t, []int{1, 2}, all)
}
