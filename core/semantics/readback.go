package semantics

import (
	"github.com/cottand/fern/core"
	"github.com/pkg/errors"
)

// ReadBack converts value back into a term, valid in an environment of
// the given size.
//
// Each binder gets a fresh local at the next level, so two values read back
// at the same size produce terms that can be compared structurally.
func ReadBack(globals *core.Globals, size core.LocalSize, value Value) core.Term {
	switch value := value.(type) {
	case *Universe:
		return &core.TypeType{Level: value.Level}
	case *Stuck:
		return readBackStuck(globals, size, value)
	case *ConstantValue:
		return &core.ConstantTerm{Value: value.Value}
	case *SequenceValue:
		entries := make([]core.Term, len(value.Entries))
		for i, entry := range value.Entries {
			entries[i] = ReadBack(globals, size, entry)
		}
		return &core.Sequence{Entries: entries}
	case *RecordTypeValue:
		entries := make([]core.TypeEntry, 0, value.Closure.Len())
		entrySize := size
		value.Closure.Entries(globals, func(label string, entryType Value) Value {
			entries = append(entries, core.TypeEntry{Label: label, Type: ReadBack(globals, entrySize, entryType)})
			local := Local(entrySize.NextLevel())
			entrySize = entrySize.Increment()
			return local
		})
		return &core.RecordType{Entries: entries}
	case *RecordTermValue:
		entries := make([]core.TermEntry, len(value.Labels))
		for i, label := range value.Labels {
			entries[i] = core.TermEntry{Label: label, Term: ReadBack(globals, size, value.Entries[label])}
		}
		return &core.RecordTerm{Entries: entries}
	case *FunctionTypeValue:
		local := Local(size.NextLevel())
		return &core.FunctionType{
			ParamName: value.ParamName,
			ParamType: ReadBack(globals, size, value.ParamType),
			BodyType:  ReadBack(globals, size.Increment(), value.Body.Apply(globals, local)),
		}
	case *FunctionTermValue:
		local := Local(size.NextLevel())
		return &core.FunctionTerm{
			ParamName: value.ParamName,
			Body:      ReadBack(globals, size.Increment(), value.Body.Apply(globals, local)),
		}
	case *ErrorValue:
		return &core.Error{}
	}
	panic(errors.Errorf("read back: unexpected value %T", value))
}

func readBackStuck(globals *core.Globals, size core.LocalSize, value *Stuck) core.Term {
	var term core.Term
	switch head := value.Head.(type) {
	case GlobalHead:
		term = core.LiftBy(&core.Global{Name: head.Name}, head.Offset)
	case LocalHead:
		index, ok := size.LevelToIndex(head.Level)
		if !ok {
			panic(errors.Errorf("read back: local level %d is unbound in an environment of size %d", head.Level, size))
		}
		term = &core.Local{Index: index}
	default:
		panic(errors.Errorf("read back: unexpected head %T", head))
	}

	for _, elim := range value.Spine {
		switch elim := elim.(type) {
		case *RecordElim:
			term = &core.RecordElim{Head: term, Label: elim.Label}
		case *FunctionElim:
			term = &core.FunctionElim{Head: term, Arg: ReadBack(globals, size, elim.Arg)}
		case *CaseElim:
			term = &core.Case{Head: term, Clauses: readBackClauses(globals, size, elim.Closure)}
		}
	}
	return term
}

func readBackClauses(globals *core.Globals, size core.LocalSize, closure CaseClosure) []core.Clause {
	clauses := make([]core.Clause, len(closure.clauses))
	for i, clause := range closure.clauses {
		values := closure.values
		bodySize := size
		if core.Binds(clause.Pattern) > 0 {
			values.Push(Local(size.NextLevel()))
			bodySize = size.Increment()
		}
		body := Eval(globals, closure.offset, &values, clause.Body)
		clauses[i] = core.Clause{Pattern: clause.Pattern, Body: ReadBack(globals, bodySize, body)}
	}
	return clauses
}
