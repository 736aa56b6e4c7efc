package elab

import (
	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
	"github.com/hashicorp/go-set/v3"
)

// CheckType elaborates term, checking that it has the type expected.
func (s *State) CheckType(term surface.Term, expected semantics.Value) core.Term {
	if semantics.IsError(expected) {
		return &core.Error{}
	}
	if !s.enter(term) {
		return &core.Error{}
	}
	defer s.leave()

	switch term := term.(type) {
	case *surface.NumberLiteral, *surface.CharLiteral, *surface.StringLiteral:
		constant, ok := s.checkLiteral(term, expected)
		if !ok {
			return &core.Error{}
		}
		return &core.ConstantTerm{Value: constant}

	case *surface.Sequence:
		return s.checkSequence(term, expected)

	case *surface.RecordTerm:
		if recordType, ok := expected.(*semantics.RecordTypeValue); ok {
			return s.checkRecordTerm(term, recordType.Closure)
		}

	case *surface.FunctionTerm:
		if functionType, ok := expected.(*semantics.FunctionTypeValue); ok {
			return s.checkFunctionTerm(term, functionType)
		}

	case *surface.If:
		cond := s.CheckType(term.Cond, s.evalGlobal("Bool"))
		return ifThenElse(cond, s.CheckType(term.Then, expected), s.CheckType(term.Else, expected))

	case *surface.Case:
		head, headType := s.SynthType(term.Head)
		clauses := s.elaborateClauses(term.Clauses, headType, s.Eval(head), func(body surface.Term) core.Term {
			return s.CheckType(body, expected)
		})
		return &core.Case{Head: head, Clauses: clauses}

	case *surface.Let:
		return s.elaborateLet(term, func(body surface.Term) core.Term {
			return s.CheckType(body, expected)
		})

	case *surface.Hole:
		s.report(diag.UnableToElaborateHole{Range: term.Range, ExpectedType: s.distillValue(expected)})
		return &core.Error{}
	}

	coreTerm, found := s.SynthType(term)
	if s.isSubtype(found, expected) {
		return coreTerm
	}
	s.report(diag.MismatchedTypes{
		Range:        surface.RangeOf(term),
		FoundType:    s.distillValue(found),
		ExpectedType: s.distillValue(expected),
	})
	return &core.Error{}
}

// sequenceType matches the expected type of a sequence literal, which must
// be `Array len T` or `List T`. The length is nil for lists.
func sequenceType(expected semantics.Value) (length, entryType semantics.Value, ok bool) {
	stuck, ok := expected.(*semantics.Stuck)
	if !ok {
		return nil, nil, false
	}
	head, ok := stuck.Head.(semantics.GlobalHead)
	if !ok {
		return nil, nil, false
	}
	args := make([]semantics.Value, 0, len(stuck.Spine))
	for _, elim := range stuck.Spine {
		apply, isApply := elim.(*semantics.FunctionElim)
		if !isApply {
			return nil, nil, false
		}
		args = append(args, apply.Arg)
	}
	switch {
	case head.Name == "Array" && len(args) == 2:
		return args[0], args[1], true
	case head.Name == "List" && len(args) == 1:
		return nil, args[0], true
	}
	return nil, nil, false
}

func (s *State) checkSequence(term *surface.Sequence, expected semantics.Value) core.Term {
	length, entryType, ok := sequenceType(expected)
	if !ok {
		s.report(diag.NoSequenceConversion{Range: term.Range, ExpectedType: s.distillValue(expected)})
		return &core.Error{}
	}
	entries := make([]core.Term, len(term.Entries))
	for i, entry := range term.Entries {
		entries[i] = s.CheckType(entry, entryType)
	}
	if constant, ok := length.(*semantics.ConstantValue); ok {
		if n, isU32 := constant.Value.(core.U32); isU32 && int(n) != len(term.Entries) {
			s.report(diag.MismatchedSequenceLength{
				Range:          term.Range,
				FoundLength:    len(term.Entries),
				ExpectedLength: s.distillValue(length),
			})
			return &core.Error{}
		}
	}
	return &core.Sequence{Entries: entries}
}

// checkRecordTerm checks the entries of term against the entries of a
// record type, in the order of the type. The first entry with a label wins,
// later ones are reported as duplicates.
func (s *State) checkRecordTerm(term *surface.RecordTerm, closure semantics.RecordTypeClosure) core.Term {
	byLabel := make(map[string]surface.TermEntry, len(term.Entries))
	var duplicates []surface.Ident
	for _, entry := range term.Entries {
		if _, ok := byLabel[entry.Label.Name]; ok {
			duplicates = append(duplicates, entry.Label)
			continue
		}
		byLabel[entry.Label.Name] = entry
	}

	var missing []string
	expectedLabels := set.From(closure.Labels())
	entries := make([]core.TermEntry, 0, closure.Len())
	closure.Entries(s.globals, func(label string, entryType semantics.Value) semantics.Value {
		entry, ok := byLabel[label]
		if !ok {
			missing = append(missing, label)
			return semantics.Error
		}
		entryTerm := s.CheckType(entryValue(entry), entryType)
		entries = append(entries, core.TermEntry{Label: label, Term: entryTerm})
		return s.Eval(entryTerm)
	})

	var unexpected []surface.Ident
	for _, entry := range term.Entries {
		if !expectedLabels.Contains(entry.Label.Name) {
			unexpected = append(unexpected, entry.Label)
		}
	}
	if len(duplicates) > 0 || len(missing) > 0 || len(unexpected) > 0 {
		s.report(diag.InvalidRecordTerm{
			Range:            term.Range,
			DuplicateLabels:  duplicates,
			MissingLabels:    missing,
			UnexpectedLabels: unexpected,
		})
		return &core.Error{}
	}
	return &core.RecordTerm{Entries: entries}
}

// entryValue returns the term of a record entry, where `record { x }`
// stands for `record { x = x }`
func entryValue(entry surface.TermEntry) surface.Term {
	if entry.Term != nil {
		return entry.Term
	}
	return &surface.Name{Range: entry.Label.Range, Name: entry.Label.Name}
}

// checkFunctionTerm consumes the parameters of term one at a time against
// the chain of function types in expected.
func (s *State) checkFunctionTerm(term *surface.FunctionTerm, expected *semantics.FunctionTypeValue) core.Term {
	var expectedType semantics.Value = expected
	for i, param := range term.Params {
		var paramType semantics.Value
		switch functionType := expectedType.(type) {
		case *semantics.FunctionTypeValue:
			paramType = functionType.ParamType
		case *semantics.ErrorValue:
			paramType = semantics.Error
		default:
			unexpected := make([]surface.Range, 0, len(term.Params)-i)
			for _, extra := range term.Params[i:] {
				unexpected = append(unexpected, extra.Name.Range)
			}
			s.report(diag.TooManyParameters{Range: term.Range, UnexpectedParameters: unexpected})
			s.popManyLocals(core.LocalSize(i))
			return &core.Error{}
		}

		if param.Type != nil {
			annotated, _, ok := s.IsType(param.Type)
			annotatedValue := s.Eval(annotated)
			// the function must accept everything the expected type passes to it
			if ok && !s.isSubtype(paramType, annotatedValue) {
				s.report(diag.MismatchedTypes{
					Range:        surface.RangeOf(param.Type),
					FoundType:    s.distillValue(annotatedValue),
					ExpectedType: s.distillValue(paramType),
				})
			}
		}

		local := s.pushFreshLocal(param.Name.Name, paramType)
		if functionType, ok := expectedType.(*semantics.FunctionTypeValue); ok {
			expectedType = functionType.Body.Apply(s.globals, local)
		}
	}

	body := s.CheckType(term.Body, expectedType)
	s.popManyLocals(core.LocalSize(len(term.Params)))
	for i := len(term.Params) - 1; i >= 0; i-- {
		body = &core.FunctionTerm{ParamName: term.Params[i].Name.Name, Body: body}
	}
	return body
}

// elaborateClauses elaborates the clauses of a case expression, with body
// elaborating each clause body once its pattern is bound. Clauses whose
// pattern is invalid are reported and left out.
func (s *State) elaborateClauses(clauses []surface.Clause, headType, headValue semantics.Value, body func(surface.Term) core.Term) []core.Clause {
	ret := make([]core.Clause, 0, len(clauses))
	for _, clause := range clauses {
		pattern, ok := s.elaboratePattern(clause.Pattern, headType, headValue)
		bodyTerm := body(clause.Body)
		if pattern != nil {
			s.popManyLocals(core.Binds(pattern))
		}
		if ok {
			ret = append(ret, core.Clause{Pattern: pattern, Body: bodyTerm})
		}
	}
	return ret
}

// elaboratePattern checks pattern against the type of the scrutinee, and
// binds the scrutinee when the pattern is a binder.
func (s *State) elaboratePattern(pattern surface.Pattern, headType, headValue semantics.Value) (core.Pattern, bool) {
	switch pattern := pattern.(type) {
	case *surface.NamePattern:
		if !s.globals.IsConstructor(pattern.Name) {
			s.pushLocal(pattern.Name, headType, headValue)
			return &core.BinderPattern{Name: pattern.Name}, true
		}
		entry, _ := s.globals.Get(pattern.Name)
		found := s.globalType(entry)
		if !s.isEqualType(found, headType) {
			s.report(diag.MismatchedTypes{
				Range:        pattern.Range,
				FoundType:    s.distillValue(found),
				ExpectedType: s.distillValue(headType),
			})
			return nil, false
		}
		return &core.ConstructorPattern{Name: pattern.Name}, true
	case *surface.LiteralPattern:
		if _, isError := pattern.Literal.(*surface.Error); isError || semantics.IsError(headType) {
			return nil, false
		}
		constant, ok := s.checkLiteral(pattern.Literal, headType)
		if !ok {
			return nil, false
		}
		return &core.ConstantPattern{Value: constant}, true
	}
	return nil, false
}
