package core

import (
	"slices"
)

// Equal compares two terms structurally. Since locals are de Bruijn indices
// and name hints are ignored, this is alpha-equivalence.
//
// Error is equal to any term.
func Equal(a, b Term) bool {
	if isError(a) || isError(b) {
		return true
	}
	switch a := a.(type) {
	case *Global:
		b, ok := b.(*Global)
		return ok && a.Name == b.Name
	case *Local:
		b, ok := b.(*Local)
		return ok && a.Index == b.Index
	case *Ann:
		b, ok := b.(*Ann)
		return ok && Equal(a.Term, b.Term) && Equal(a.Type, b.Type)
	case *TypeType:
		b, ok := b.(*TypeType)
		return ok && a.Level == b.Level
	case *Lift:
		b, ok := b.(*Lift)
		return ok && a.Offset == b.Offset && Equal(a.Term, b.Term)
	case *FunctionType:
		b, ok := b.(*FunctionType)
		return ok && Equal(a.ParamType, b.ParamType) && Equal(a.BodyType, b.BodyType)
	case *FunctionTerm:
		b, ok := b.(*FunctionTerm)
		return ok && Equal(a.Body, b.Body)
	case *FunctionElim:
		b, ok := b.(*FunctionElim)
		return ok && Equal(a.Head, b.Head) && Equal(a.Arg, b.Arg)
	case *RecordType:
		b, ok := b.(*RecordType)
		return ok && slices.EqualFunc(a.Entries, b.Entries, func(x, y TypeEntry) bool {
			return x.Label == y.Label && Equal(x.Type, y.Type)
		})
	case *RecordTerm:
		b, ok := b.(*RecordTerm)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}
		// record term entries do not depend on each other, so order is irrelevant
		for _, x := range a.Entries {
			i := slices.IndexFunc(b.Entries, func(y TermEntry) bool { return y.Label == x.Label })
			if i < 0 || !Equal(x.Term, b.Entries[i].Term) {
				return false
			}
		}
		return true
	case *RecordElim:
		b, ok := b.(*RecordElim)
		return ok && a.Label == b.Label && Equal(a.Head, b.Head)
	case *Sequence:
		b, ok := b.(*Sequence)
		return ok && slices.EqualFunc(a.Entries, b.Entries, Equal)
	case *ConstantTerm:
		b, ok := b.(*ConstantTerm)
		return ok && a.Value == b.Value
	case *Case:
		b, ok := b.(*Case)
		return ok && Equal(a.Head, b.Head) && slices.EqualFunc(a.Clauses, b.Clauses, func(x, y Clause) bool {
			return patternEqual(x.Pattern, y.Pattern) && Equal(x.Body, y.Body)
		})
	case *Let:
		b, ok := b.(*Let)
		return ok && Equal(a.Definition, b.Definition) && Equal(a.Body, b.Body)
	}
	return false
}

func isError(t Term) bool {
	_, ok := t.(*Error)
	return ok
}

func patternEqual(a, b Pattern) bool {
	switch a := a.(type) {
	case *ConstantPattern:
		b, ok := b.(*ConstantPattern)
		return ok && a.Value == b.Value
	case *ConstructorPattern:
		b, ok := b.(*ConstructorPattern)
		return ok && a.Name == b.Name
	case *BinderPattern:
		_, ok := b.(*BinderPattern)
		return ok
	}
	return false
}

// UsesLocal reports whether term refers to the local at index, counting
// from the scope term appears in.
func UsesLocal(term Term, index LocalIndex) bool {
	switch term := term.(type) {
	case *Local:
		return term.Index == index
	case *Ann:
		return UsesLocal(term.Term, index) || UsesLocal(term.Type, index)
	case *Lift:
		return UsesLocal(term.Term, index)
	case *FunctionType:
		return UsesLocal(term.ParamType, index) || UsesLocal(term.BodyType, index+1)
	case *FunctionTerm:
		return UsesLocal(term.Body, index+1)
	case *FunctionElim:
		return UsesLocal(term.Head, index) || UsesLocal(term.Arg, index)
	case *RecordType:
		for i, entry := range term.Entries {
			if UsesLocal(entry.Type, index+LocalIndex(i)) {
				return true
			}
		}
	case *RecordTerm:
		for _, entry := range term.Entries {
			if UsesLocal(entry.Term, index) {
				return true
			}
		}
	case *RecordElim:
		return UsesLocal(term.Head, index)
	case *Sequence:
		return slices.ContainsFunc(term.Entries, func(entry Term) bool { return UsesLocal(entry, index) })
	case *Case:
		if UsesLocal(term.Head, index) {
			return true
		}
		for _, clause := range term.Clauses {
			if UsesLocal(clause.Body, index+LocalIndex(Binds(clause.Pattern))) {
				return true
			}
		}
	case *Let:
		return UsesLocal(term.Definition, index) || UsesLocal(term.Body, index+1)
	}
	return false
}
