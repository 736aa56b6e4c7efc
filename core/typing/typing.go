// Package typing validates core terms. It is run on the output of the
// elaborator, so every diagnostic it raises is a bug in the elaborator
// rather than in the program being checked.
package typing

import (
	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/internal/log"
	"github.com/hashicorp/go-set/v3"
)

var logger = core.TermLogger(log.DefaultLogger).With("section", "typing")

// State is the environment core terms are checked in. The types and values
// of locals are always pushed and popped together.
type State struct {
	globals        *core.Globals
	universeOffset core.UniverseOffset
	types          core.Locals[semantics.Value]
	values         core.Locals[semantics.Value]
	messages       *diag.Errors
}

func New(globals *core.Globals) *State {
	return &State{globals: globals}
}

// Clear resets the state to an empty environment, keeping accumulated
// messages.
func (s *State) Clear() {
	s.universeOffset = 0
	s.types.Clear()
	s.values.Clear()
}

// DrainMessages returns the diagnostics raised so far and forgets them
func (s *State) DrainMessages() []diag.Diagnostic {
	messages := s.messages.Errors()
	s.messages = nil
	return messages
}

func (s *State) report(d diag.Diagnostic) {
	logger.Debug("core diagnostic", "msg", d.Error())
	s.messages = s.messages.With(diag.New(d))
}

func (s *State) size() core.LocalSize {
	return s.values.Size()
}

func (s *State) pushLocal(typ, value semantics.Value) {
	s.types.Push(typ)
	s.values.Push(value)
}

// pushFreshLocal binds a local of type typ with no known value
func (s *State) pushFreshLocal(typ semantics.Value) semantics.Value {
	value := semantics.Local(s.size().NextLevel())
	s.pushLocal(typ, value)
	return value
}

func (s *State) popLocal() {
	s.types.Pop()
	s.values.Pop()
}

func (s *State) popManyLocals(count core.LocalSize) {
	s.types.PopMany(count)
	s.values.PopMany(count)
}

func (s *State) Eval(term core.Term) semantics.Value {
	return semantics.Eval(s.globals, s.universeOffset, &s.values, term)
}

func (s *State) ReadBack(value semantics.Value) core.Term {
	return semantics.ReadBack(s.globals, s.size(), value)
}

func (s *State) Normalize(term core.Term) core.Term {
	return semantics.Normalize(s.globals, s.universeOffset, &s.values, term)
}

func (s *State) isSubtype(sub, super semantics.Value) bool {
	return semantics.IsSubtype(s.globals, s.size(), sub, super)
}

func (s *State) isEqualType(a, b semantics.Value) bool {
	return semantics.IsEqualType(s.globals, s.size(), a, b)
}

func (s *State) globalType(name string) (semantics.Value, bool) {
	entry, ok := s.globals.Get(name)
	if !ok {
		return nil, false
	}
	var empty core.Locals[semantics.Value]
	return semantics.Eval(s.globals, s.universeOffset, &empty, entry.Type), true
}

// IsType checks that term is a type, returning the level of the universe
// it lives in.
func (s *State) IsType(term core.Term) (core.UniverseLevel, bool) {
	switch typ := s.SynthType(term).(type) {
	case *semantics.Universe:
		return typ.Level, true
	case *semantics.ErrorValue:
		return 0, false
	default:
		s.report(diag.CoreMismatchedTypes{FoundType: s.ReadBack(typ)})
		return 0, false
	}
}

// CheckType checks that term has the type expected
func (s *State) CheckType(term core.Term, expected semantics.Value) {
	if semantics.IsError(expected) {
		return
	}
	switch term := term.(type) {
	case *core.Sequence:
		s.checkSequence(term, expected)
	case *core.RecordTerm:
		if recordType, ok := expected.(*semantics.RecordTypeValue); ok {
			s.checkRecordTerm(term, recordType.Closure)
			return
		}
		s.checkBySynth(term, expected)
	case *core.FunctionTerm:
		functionType, ok := expected.(*semantics.FunctionTypeValue)
		if !ok {
			s.checkBySynth(term, expected)
			return
		}
		param := s.pushFreshLocal(functionType.ParamType)
		s.CheckType(term.Body, functionType.Body.Apply(s.globals, param))
		s.popLocal()
	case *core.Case:
		headType := s.SynthType(term.Head)
		headValue := s.Eval(term.Head)
		for _, clause := range term.Clauses {
			binds := s.checkPattern(clause.Pattern, headType, headValue)
			s.CheckType(clause.Body, expected)
			s.popManyLocals(binds)
		}
	case *core.Let:
		s.pushDefinition(term.Definition)
		s.CheckType(term.Body, expected)
		s.popLocal()
	default:
		s.checkBySynth(term, expected)
	}
}

func (s *State) checkBySynth(term core.Term, expected semantics.Value) {
	found := s.SynthType(term)
	if !s.isSubtype(found, expected) {
		s.report(diag.CoreMismatchedTypes{FoundType: s.ReadBack(found), ExpectedType: s.ReadBack(expected)})
	}
}

func (s *State) checkSequence(term *core.Sequence, expected semantics.Value) {
	stuck, ok := expected.(*semantics.Stuck)
	var head semantics.GlobalHead
	if ok {
		head, ok = stuck.Head.(semantics.GlobalHead)
	}
	if !ok {
		s.report(diag.CoreNoSequenceConversion{ExpectedType: s.ReadBack(expected)})
		return
	}
	args := make([]semantics.Value, 0, len(stuck.Spine))
	for _, elim := range stuck.Spine {
		apply, isApply := elim.(*semantics.FunctionElim)
		if !isApply {
			s.report(diag.CoreNoSequenceConversion{ExpectedType: s.ReadBack(expected)})
			return
		}
		args = append(args, apply.Arg)
	}

	switch {
	case head.Name == "Array" && len(args) == 2:
		if length, ok := args[0].(*semantics.ConstantValue); ok {
			if n, isU32 := length.Value.(core.U32); isU32 && int(n) != len(term.Entries) {
				s.report(diag.CoreMismatchedSequenceLength{FoundLength: len(term.Entries), ExpectedLength: s.ReadBack(args[0])})
			}
		}
		for _, entry := range term.Entries {
			s.CheckType(entry, args[1])
		}
	case head.Name == "List" && len(args) == 1:
		for _, entry := range term.Entries {
			s.CheckType(entry, args[0])
		}
	default:
		s.report(diag.CoreNoSequenceConversion{ExpectedType: s.ReadBack(expected)})
	}
}

func (s *State) checkRecordTerm(term *core.RecordTerm, closure semantics.RecordTypeClosure) {
	entries := make(map[string]core.Term, len(term.Entries))
	for _, entry := range term.Entries {
		entries[entry.Label] = entry.Term
	}
	var missing []string
	expectedLabels := set.New[string](closure.Len())
	closure.Entries(s.globals, func(label string, entryType semantics.Value) semantics.Value {
		expectedLabels.Insert(label)
		entryTerm, ok := entries[label]
		if !ok {
			missing = append(missing, label)
			return semantics.Error
		}
		s.CheckType(entryTerm, entryType)
		return s.Eval(entryTerm)
	})
	var unexpected []string
	for _, entry := range term.Entries {
		if !expectedLabels.Contains(entry.Label) {
			unexpected = append(unexpected, entry.Label)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		s.report(diag.CoreInvalidRecordTerm{MissingLabels: missing, UnexpectedLabels: unexpected})
	}
}

// checkPattern checks pattern against the type of the scrutinee, and binds
// the scrutinee if the pattern is a binder. It returns the number of locals
// pushed.
func (s *State) checkPattern(pattern core.Pattern, headType, headValue semantics.Value) core.LocalSize {
	switch pattern := pattern.(type) {
	case *core.BinderPattern:
		s.pushLocal(headType, headValue)
		return 1
	case *core.ConstantPattern:
		found := semantics.Global(pattern.Value.TypeName(), 0)
		if !s.isEqualType(found, headType) {
			s.report(diag.CoreMismatchedTypes{FoundType: s.ReadBack(found), ExpectedType: s.ReadBack(headType)})
		}
	case *core.ConstructorPattern:
		if !s.globals.IsConstructor(pattern.Name) {
			s.report(diag.NotAConstructor{Name: pattern.Name})
			return 0
		}
		found, _ := s.globalType(pattern.Name)
		if !s.isEqualType(found, headType) {
			s.report(diag.CoreMismatchedTypes{FoundType: s.ReadBack(found), ExpectedType: s.ReadBack(headType)})
		}
	}
	return 0
}

func (s *State) pushDefinition(definition core.Term) {
	definitionType := s.SynthType(definition)
	s.pushLocal(definitionType, s.Eval(definition))
}

// SynthType returns the type of term, reporting a diagnostic and returning
// semantics.Error if it has none.
func (s *State) SynthType(term core.Term) semantics.Value {
	switch term := term.(type) {
	case *core.Global:
		typ, ok := s.globalType(term.Name)
		if !ok {
			s.report(diag.UnboundGlobal{Name: term.Name})
			return semantics.Error
		}
		return typ
	case *core.Local:
		typ, ok := s.types.Get(term.Index)
		if !ok {
			s.report(diag.UnboundLocal{Index: term.Index})
			return semantics.Error
		}
		return typ
	case *core.Ann:
		if _, ok := s.IsType(term.Type); !ok {
			return semantics.Error
		}
		typ := s.Eval(term.Type)
		s.CheckType(term.Term, typ)
		return typ
	case *core.TypeType:
		level, ok := term.Level.Shift(s.universeOffset)
		if ok {
			level, ok = level.Succ()
		}
		if !ok {
			s.report(diag.CoreMaximumUniverseLevelReached{})
			return semantics.Error
		}
		return &semantics.Universe{Level: level}
	case *core.Lift:
		previous := s.universeOffset
		offset, ok := previous.Add(term.Offset)
		if !ok {
			s.report(diag.CoreMaximumUniverseLevelReached{})
			return semantics.Error
		}
		s.universeOffset = offset
		typ := s.SynthType(term.Term)
		s.universeOffset = previous
		return typ
	case *core.FunctionType:
		paramLevel, paramOk := s.IsType(term.ParamType)
		s.pushFreshLocal(s.Eval(term.ParamType))
		bodyLevel, bodyOk := s.IsType(term.BodyType)
		s.popLocal()
		if !paramOk || !bodyOk {
			return semantics.Error
		}
		return &semantics.Universe{Level: max(paramLevel, bodyLevel)}
	case *core.FunctionTerm:
		s.report(diag.CoreAmbiguousTerm{Kind: diag.AmbiguousFunctionTerm})
		return semantics.Error
	case *core.FunctionElim:
		switch headType := s.SynthType(term.Head).(type) {
		case *semantics.FunctionTypeValue:
			s.CheckType(term.Arg, headType.ParamType)
			return headType.Body.Apply(s.globals, s.Eval(term.Arg))
		case *semantics.ErrorValue:
			return semantics.Error
		default:
			s.report(diag.CoreNotAFunction{HeadType: s.ReadBack(headType)})
			return semantics.Error
		}
	case *core.RecordType:
		return s.synthRecordType(term)
	case *core.RecordTerm:
		if len(term.Entries) > 0 {
			s.report(diag.CoreAmbiguousTerm{Kind: diag.AmbiguousRecordTerm})
			return semantics.Error
		}
		return &semantics.RecordTypeValue{Closure: semantics.NewRecordTypeClosure(s.universeOffset, s.values, nil)}
	case *core.RecordElim:
		switch headType := s.SynthType(term.Head).(type) {
		case *semantics.RecordTypeValue:
			typ, ok := semantics.RecordElimType(s.globals, s.Eval(term.Head), term.Label, headType.Closure)
			if !ok {
				s.report(diag.CoreLabelNotFound{Label: term.Label, HeadType: s.ReadBack(headType)})
				return semantics.Error
			}
			return typ
		case *semantics.ErrorValue:
			return semantics.Error
		default:
			s.report(diag.CoreLabelNotFound{Label: term.Label, HeadType: s.ReadBack(headType)})
			return semantics.Error
		}
	case *core.Sequence:
		s.report(diag.CoreAmbiguousTerm{Kind: diag.AmbiguousSequence})
		return semantics.Error
	case *core.ConstantTerm:
		return semantics.Global(term.Value.TypeName(), 0)
	case *core.Case:
		return s.synthCase(term)
	case *core.Let:
		s.pushDefinition(term.Definition)
		typ := s.SynthType(term.Body)
		s.popLocal()
		return typ
	case *core.Error:
		return semantics.Error
	}
	logger.Warn("synthesizing type of unexpected term", "term", term)
	return semantics.Error
}

func (s *State) synthRecordType(term *core.RecordType) semantics.Value {
	seen := set.New[string](len(term.Entries))
	var duplicates []string
	level, ok := core.UniverseLevel(0), true
	for _, entry := range term.Entries {
		if !seen.Insert(entry.Label) {
			duplicates = append(duplicates, entry.Label)
		}
		entryLevel, entryOk := s.IsType(entry.Type)
		ok = ok && entryOk
		level = max(level, entryLevel)
		s.pushFreshLocal(s.Eval(entry.Type))
	}
	s.popManyLocals(core.LocalSize(len(term.Entries)))

	if len(duplicates) > 0 {
		s.report(diag.CoreInvalidRecordType{DuplicateLabels: duplicates})
		return semantics.Error
	}
	if !ok {
		return semantics.Error
	}
	return &semantics.Universe{Level: level}
}

func (s *State) synthCase(term *core.Case) semantics.Value {
	headType := s.SynthType(term.Head)
	headValue := s.Eval(term.Head)
	if len(term.Clauses) == 0 {
		s.report(diag.CoreAmbiguousTerm{Kind: diag.AmbiguousEmptyCaseKind})
		return semantics.Error
	}
	first := term.Clauses[0]
	binds := s.checkPattern(first.Pattern, headType, headValue)
	typ := s.SynthType(first.Body)
	s.popManyLocals(binds)

	for _, clause := range term.Clauses[1:] {
		binds := s.checkPattern(clause.Pattern, headType, headValue)
		s.CheckType(clause.Body, typ)
		s.popManyLocals(binds)
	}
	return typ
}
