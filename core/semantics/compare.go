package semantics

import (
	"github.com/cottand/fern/core"
)

// IsEqualNF checks that two values have the same normal form, by reading
// both back at the same size and comparing the resulting terms.
func IsEqualNF(globals *core.Globals, size core.LocalSize, a, b Value) bool {
	return core.Equal(ReadBack(globals, size, a), ReadBack(globals, size, b))
}

// IsEqualType checks that two types are equal
func IsEqualType(globals *core.Globals, size core.LocalSize, a, b Value) bool {
	return compareTypes(globals, size, a, b, func(l0, l1 core.UniverseLevel) bool { return l0 == l1 })
}

// IsSubtype checks that sub can be used where super is expected.
// Universes are cumulative: Type^i is a subtype of Type^j when i <= j.
func IsSubtype(globals *core.Globals, size core.LocalSize, sub, super Value) bool {
	return compareTypes(globals, size, sub, super, func(l0, l1 core.UniverseLevel) bool { return l0 <= l1 })
}

func compareTypes(globals *core.Globals, size core.LocalSize, a, b Value, compare func(l0, l1 core.UniverseLevel) bool) bool {
	if IsError(a) || IsError(b) {
		return true
	}
	switch a := a.(type) {
	case *Universe:
		if b, ok := b.(*Universe); ok {
			return compare(a.Level, b.Level)
		}
		return false
	case *FunctionTypeValue:
		b, ok := b.(*FunctionTypeValue)
		if !ok {
			return false
		}
		// parameters are contravariant
		if !compareTypes(globals, size, b.ParamType, a.ParamType, compare) {
			return false
		}
		local := Local(size.NextLevel())
		return compareTypes(globals, size.Increment(), a.Body.Apply(globals, local), b.Body.Apply(globals, local), compare)
	case *RecordTypeValue:
		b, ok := b.(*RecordTypeValue)
		return ok && compareRecordTypes(globals, size, a.Closure, b.Closure, compare)
	}
	return IsEqualNF(globals, size, a, b)
}

func compareRecordTypes(globals *core.Globals, size core.LocalSize, a, b RecordTypeClosure, compare func(l0, l1 core.UniverseLevel) bool) bool {
	if len(a.entries) != len(b.entries) {
		return false
	}
	valuesA, valuesB := a.values, b.values
	for i := range a.entries {
		entryA, entryB := a.entries[i], b.entries[i]
		if entryA.Label != entryB.Label {
			return false
		}
		typeA := Eval(globals, a.offset, &valuesA, entryA.Type)
		typeB := Eval(globals, b.offset, &valuesB, entryB.Type)
		if !compareTypes(globals, size, typeA, typeB, compare) {
			return false
		}
		local := Local(size.NextLevel())
		valuesA.Push(local)
		valuesB.Push(local)
		size = size.Increment()
	}
	return true
}
