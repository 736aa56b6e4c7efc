package semantics

import (
	"slices"

	"github.com/cottand/fern/core"
	"github.com/pkg/errors"
)

// Eval evaluates term to weak-head normal form under the given universe
// offset and local values.
//
// The bodies of binders are not evaluated: they are captured in closures
// along with a snapshot of values. values is restored to its original size
// before Eval returns.
func Eval(globals *core.Globals, offset core.UniverseOffset, values *core.Locals[Value], term core.Term) Value {
	switch term := term.(type) {
	case *core.Global:
		entry, ok := globals.Get(term.Name)
		if !ok {
			return Error
		}
		if entry.Definition != nil {
			// definitions are closed terms
			var empty core.Locals[Value]
			return Eval(globals, offset, &empty, entry.Definition)
		}
		return Global(term.Name, offset)
	case *core.Local:
		value, ok := values.Get(term.Index)
		if !ok {
			return Error
		}
		return value
	case *core.Ann:
		return Eval(globals, offset, values, term.Term)
	case *core.TypeType:
		level, ok := term.Level.Shift(offset)
		if !ok {
			return Error
		}
		return &Universe{Level: level}
	case *core.Lift:
		lifted, ok := offset.Add(term.Offset)
		if !ok {
			return Error
		}
		return Eval(globals, lifted, values, term.Term)
	case *core.FunctionType:
		return &FunctionTypeValue{
			ParamName: term.ParamName,
			ParamType: Eval(globals, offset, values, term.ParamType),
			Body:      NewClosure(offset, *values, term.BodyType),
		}
	case *core.FunctionTerm:
		return &FunctionTermValue{
			ParamName: term.ParamName,
			Body:      NewClosure(offset, *values, term.Body),
		}
	case *core.FunctionElim:
		head := Eval(globals, offset, values, term.Head)
		arg := Eval(globals, offset, values, term.Arg)
		return EvalFunctionElim(globals, head, arg)
	case *core.RecordType:
		return &RecordTypeValue{Closure: NewRecordTypeClosure(offset, *values, term.Entries)}
	case *core.RecordTerm:
		record := &RecordTermValue{
			Labels:  make([]string, 0, len(term.Entries)),
			Entries: make(map[string]Value, len(term.Entries)),
		}
		for _, entry := range term.Entries {
			record.Labels = append(record.Labels, entry.Label)
			record.Entries[entry.Label] = Eval(globals, offset, values, entry.Term)
		}
		return record
	case *core.RecordElim:
		return EvalRecordElim(Eval(globals, offset, values, term.Head), term.Label)
	case *core.Sequence:
		entries := make([]Value, len(term.Entries))
		for i, entry := range term.Entries {
			entries[i] = Eval(globals, offset, values, entry)
		}
		return &SequenceValue{Entries: entries}
	case *core.ConstantTerm:
		return &ConstantValue{Value: term.Value}
	case *core.Case:
		scrutinee := Eval(globals, offset, values, term.Head)
		return EvalCase(globals, scrutinee, CaseClosure{offset: offset, values: *values, clauses: term.Clauses})
	case *core.Let:
		definition := Eval(globals, offset, values, term.Definition)
		values.Push(definition)
		body := Eval(globals, offset, values, term.Body)
		values.Pop()
		return body
	case *core.Error:
		return Error
	}
	panic(errors.Errorf("eval: unexpected term %T", term))
}

// EvalRecordElim projects label out of head, or extends its spine if head
// is stuck.
func EvalRecordElim(head Value, label string) Value {
	switch head := head.(type) {
	case *RecordTermValue:
		entry, ok := head.Entries[label]
		if !ok {
			return Error
		}
		return entry
	case *Stuck:
		return &Stuck{Head: head.Head, Spine: append(slices.Clip(head.Spine), &RecordElim{Label: label})}
	}
	return Error
}

// EvalFunctionElim applies head to arg, or extends its spine if head is
// stuck.
func EvalFunctionElim(globals *core.Globals, head Value, arg Value) Value {
	switch head := head.(type) {
	case *FunctionTermValue:
		return head.Body.Apply(globals, arg)
	case *Stuck:
		return &Stuck{Head: head.Head, Spine: append(slices.Clip(head.Spine), &FunctionElim{Arg: arg})}
	}
	return Error
}

// RecordElimType returns the type of the field label of head, where head
// has a record type described by closure. Entries preceding label are bound
// to projections of head, since the field type may depend on them.
func RecordElimType(globals *core.Globals, head Value, label string, closure RecordTypeClosure) (Value, bool) {
	values := closure.values
	for _, entry := range closure.entries {
		if entry.Label == label {
			return Eval(globals, closure.offset, &values, entry.Type), true
		}
		values.Push(EvalRecordElim(head, entry.Label))
	}
	return nil, false
}

type matchResult int

const (
	mismatch matchResult = iota
	matched
	stuck
)

func matchPattern(globals *core.Globals, pattern core.Pattern, scrutinee Value) matchResult {
	switch pattern := pattern.(type) {
	case *core.BinderPattern:
		return matched
	case *core.ConstantPattern:
		switch scrutinee := scrutinee.(type) {
		case *ConstantValue:
			if scrutinee.Value == pattern.Value {
				return matched
			}
			return mismatch
		case *Stuck:
			return stuck
		}
	case *core.ConstructorPattern:
		asStuck, ok := scrutinee.(*Stuck)
		if !ok {
			return mismatch
		}
		head, isGlobal := asStuck.Head.(GlobalHead)
		if !isGlobal || len(asStuck.Spine) > 0 {
			return stuck
		}
		if head.Name == pattern.Name {
			return matched
		}
		if globals.IsConstructor(head.Name) {
			return mismatch
		}
		return stuck
	}
	return mismatch
}

// EvalCase picks the first clause of closure whose pattern matches
// scrutinee. If the scrutinee is stuck before a clause can be picked, the
// case expression is added to its spine. A case with no matching clause
// evaluates to Error.
func EvalCase(globals *core.Globals, scrutinee Value, closure CaseClosure) Value {
	if IsError(scrutinee) {
		return Error
	}
	for _, clause := range closure.clauses {
		switch matchPattern(globals, clause.Pattern, scrutinee) {
		case mismatch:
			continue
		case matched:
			values := closure.values
			if core.Binds(clause.Pattern) > 0 {
				values.Push(scrutinee)
			}
			return Eval(globals, closure.offset, &values, clause.Body)
		case stuck:
			asStuck := scrutinee.(*Stuck)
			return &Stuck{Head: asStuck.Head, Spine: append(slices.Clip(asStuck.Spine), &CaseElim{Closure: closure})}
		}
	}
	return Error
}

// Normalize fully evaluates term, returning its normal form
func Normalize(globals *core.Globals, offset core.UniverseOffset, values *core.Locals[Value], term core.Term) core.Term {
	return ReadBack(globals, values.Size(), Eval(globals, offset, values, term))
}
