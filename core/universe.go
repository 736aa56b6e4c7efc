package core

import (
	"fmt"
	"math"
)

// UniverseLevel is the stratification level of Type. Type at level n has
// type Type at level n+1.
type UniverseLevel uint32

// UniverseOffset is the amount by which a term gets shifted into a higher
// universe, written as `t^n` in the surface language.
type UniverseOffset uint32

const MaxUniverseLevel = UniverseLevel(math.MaxUint32)

// Shift returns l shifted by offset, or false if the result overflows.
func (l UniverseLevel) Shift(offset UniverseOffset) (UniverseLevel, bool) {
	sum := uint64(l) + uint64(offset)
	if sum > uint64(MaxUniverseLevel) {
		return 0, false
	}
	return UniverseLevel(sum), true
}

// Succ is the level of the type of a universe at level l
func (l UniverseLevel) Succ() (UniverseLevel, bool) {
	return l.Shift(1)
}

func (l UniverseLevel) String() string {
	return fmt.Sprintf("%d", uint32(l))
}

// Add combines two offsets, or returns false if the result overflows.
func (o UniverseOffset) Add(other UniverseOffset) (UniverseOffset, bool) {
	sum := uint64(o) + uint64(other)
	if sum > math.MaxUint32 {
		return 0, false
	}
	return UniverseOffset(sum), true
}
