package core

import (
	"fmt"
	"iter"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"
)

// LocalIndex is a de Bruijn index: the distance from the innermost binder.
// It is what core terms use to refer to locals.
type LocalIndex uint32

// LocalLevel is a de Bruijn level: the distance from the outermost binder.
// Values use levels so that they never need shifting.
type LocalLevel uint32

// LocalSize is the number of locals currently bound.
type LocalSize uint32

// IndexToLevel converts an index into a level, failing if the index points
// outside the environment.
func (s LocalSize) IndexToLevel(index LocalIndex) (LocalLevel, bool) {
	if uint32(index) >= uint32(s) {
		return 0, false
	}
	return LocalLevel(uint32(s) - uint32(index) - 1), true
}

// LevelToIndex converts a level into an index, failing if the level points
// outside the environment.
func (s LocalSize) LevelToIndex(level LocalLevel) (LocalIndex, bool) {
	if uint32(level) >= uint32(s) {
		return 0, false
	}
	return LocalIndex(uint32(s) - uint32(level) - 1), true
}

// NextLevel is the level the next pushed local will have
func (s LocalSize) NextLevel() LocalLevel {
	return LocalLevel(s)
}

func (s LocalSize) Increment() LocalSize {
	return s + 1
}

// Locals is a persistent stack of local entries, addressed by LocalIndex.
//
// Copying a Locals is cheap and the copy is not affected by later pushes or
// pops on the original, which is what closures rely on.
// The zero value is an empty environment.
type Locals[T any] struct {
	entries *immutable.List[T]
}

func (l *Locals[T]) list() *immutable.List[T] {
	if l.entries == nil {
		l.entries = immutable.NewList[T]()
	}
	return l.entries
}

func (l *Locals[T]) Size() LocalSize {
	if l.entries == nil {
		return 0
	}
	return LocalSize(l.entries.Len())
}

// Get returns the entry at index, or false when index is unbound.
func (l *Locals[T]) Get(index LocalIndex) (ret T, ok bool) {
	level, ok := l.Size().IndexToLevel(index)
	if !ok {
		return ret, false
	}
	return l.GetLevel(level)
}

// GetLevel returns the entry at level, or false when level is unbound.
func (l *Locals[T]) GetLevel(level LocalLevel) (ret T, ok bool) {
	if uint32(level) >= uint32(l.Size()) {
		return ret, false
	}
	return l.entries.Get(int(level)), true
}

func (l *Locals[T]) Push(entry T) {
	l.entries = l.list().Append(entry)
}

// Pop removes the innermost entry. Popping an empty environment is an
// internal error.
func (l *Locals[T]) Pop() T {
	size := l.Size()
	if size == 0 {
		panic(errors.New("pop from empty locals"))
	}
	last := l.entries.Get(int(size) - 1)
	l.entries = l.entries.Slice(0, int(size)-1)
	return last
}

func (l *Locals[T]) PopMany(count LocalSize) {
	size := l.Size()
	if count > size {
		panic(errors.Errorf("cannot pop %d entries from locals of size %d", count, size))
	}
	l.Truncate(size - count)
}

// Truncate drops entries until the environment has the given size.
// Truncating to a size larger than the current one does nothing.
func (l *Locals[T]) Truncate(size LocalSize) {
	if size >= l.Size() {
		return
	}
	l.entries = l.entries.Slice(0, int(size))
}

func (l *Locals[T]) Clear() {
	l.entries = nil
}

// All iterates over entries from the outermost to the innermost one.
func (l *Locals[T]) All() iter.Seq2[LocalLevel, T] {
	return func(yield func(LocalLevel, T) bool) {
		if l.entries == nil {
			return
		}
		for it := l.entries.Iterator(); !it.Done(); {
			i, v := it.Next()
			if !yield(LocalLevel(i), v) {
				return
			}
		}
	}
}

func (l *Locals[T]) String() string {
	return fmt.Sprintf("Locals(size=%d)", l.Size())
}
