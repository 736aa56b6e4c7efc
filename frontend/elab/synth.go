package elab

import (
	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
	"github.com/hashicorp/go-set/v3"
)

// SynthType elaborates term, returning it along with its type. Terms whose
// type cannot be synthesized are reported and elaborated to core.Error,
// with semantics.Error as their type.
func (s *State) SynthType(term surface.Term) (core.Term, semantics.Value) {
	if !s.enter(term) {
		return &core.Error{}, semantics.Error
	}
	defer s.leave()

	switch term := term.(type) {
	case *surface.Name:
		if index, typ, ok := s.lookupLocal(term.Name); ok {
			return &core.Local{Index: index}, typ
		}
		if entry, ok := s.globals.Get(term.Name); ok {
			return core.LiftBy(&core.Global{Name: term.Name}, s.universeOffset), s.globalType(entry)
		}
		s.report(diag.UnboundName{Range: term.Range, Name: term.Name})
		return &core.Error{}, semantics.Error

	case *surface.Ann:
		typeTerm, _, _ := s.IsType(term.Type)
		typ := s.Eval(typeTerm)
		return &core.Ann{Term: s.CheckType(term.Term, typ), Type: typeTerm}, typ

	case *surface.NumberLiteral:
		s.report(diag.AmbiguousTerm{Range: term.Range, Kind: diag.AmbiguousNumberLiteral})
		return &core.Error{}, semantics.Error

	case *surface.CharLiteral:
		char, ok := s.parseChar(term)
		if !ok {
			return &core.Error{}, semantics.Error
		}
		return &core.ConstantTerm{Value: char}, s.evalGlobal("Char")

	case *surface.StringLiteral:
		return &core.ConstantTerm{Value: core.String(term.Value)}, s.evalGlobal("String")

	case *surface.Sequence:
		s.report(diag.AmbiguousTerm{Range: term.Range, Kind: diag.AmbiguousSequence})
		return &core.Error{}, semantics.Error

	case *surface.RecordType:
		return s.synthRecordType(term)

	case *surface.RecordTerm:
		if len(term.Entries) > 0 {
			s.report(diag.AmbiguousTerm{Range: term.Range, Kind: diag.AmbiguousRecordTerm})
			return &core.Error{}, semantics.Error
		}
		return &core.RecordTerm{}, s.Eval(&core.RecordType{})

	case *surface.RecordElim:
		headTerm, headType := s.SynthType(term.Head)
		switch recordType := headType.(type) {
		case *semantics.RecordTypeValue:
			typ, ok := semantics.RecordElimType(s.globals, s.Eval(headTerm), term.Label.Name, recordType.Closure)
			if ok {
				return &core.RecordElim{Head: headTerm, Label: term.Label.Name}, typ
			}
		case *semantics.ErrorValue:
			return &core.Error{}, semantics.Error
		}
		s.report(diag.LabelNotFound{Range: term.Label.Range, Label: term.Label, HeadType: s.distillValue(headType)})
		return &core.Error{}, semantics.Error

	case *surface.FunctionType:
		return s.synthFunctionType(term)

	case *surface.Arrow:
		paramTerm, paramLevel, _ := s.IsType(term.Param)
		s.pushFreshLocal("", s.Eval(paramTerm))
		bodyTerm, bodyLevel, _ := s.IsType(term.Body)
		s.popLocal()
		return &core.FunctionType{ParamType: paramTerm, BodyType: bodyTerm}, &semantics.Universe{Level: max(paramLevel, bodyLevel)}

	case *surface.FunctionTerm:
		return s.synthFunctionTerm(term)

	case *surface.FunctionElim:
		return s.synthFunctionElim(term)

	case *surface.Lift:
		previous := s.universeOffset
		offset, ok := previous.Add(core.UniverseOffset(term.Offset))
		if !ok {
			s.report(diag.MaximumUniverseLevelReached{Range: term.Range})
			return &core.Error{}, semantics.Error
		}
		s.universeOffset = offset
		defer func() { s.universeOffset = previous }()
		return s.SynthType(term.Term)

	case *surface.If:
		cond := s.CheckType(term.Cond, s.evalGlobal("Bool"))
		thenTerm, typ := s.SynthType(term.Then)
		elseTerm := s.CheckType(term.Else, typ)
		return ifThenElse(cond, thenTerm, elseTerm), typ

	case *surface.Case:
		return s.synthCase(term)

	case *surface.Let:
		var typ semantics.Value
		let := s.elaborateLet(term, func(body surface.Term) core.Term {
			var bodyTerm core.Term
			bodyTerm, typ = s.SynthType(body)
			return bodyTerm
		})
		return let, typ

	case *surface.Hole:
		s.report(diag.UnableToElaborateHole{Range: term.Range})
		return &core.Error{}, semantics.Error

	case *surface.Error:
		return &core.Error{}, semantics.Error
	}
	s.logger.Warn("synthesizing type of unexpected surface term", "term", surface.TermString(term))
	return &core.Error{}, semantics.Error
}

func ifThenElse(cond, thenTerm, elseTerm core.Term) core.Term {
	return &core.Case{Head: cond, Clauses: []core.Clause{
		{Pattern: &core.ConstructorPattern{Name: "true"}, Body: thenTerm},
		{Pattern: &core.ConstructorPattern{Name: "false"}, Body: elseTerm},
	}}
}

func (s *State) synthRecordType(term *surface.RecordType) (core.Term, semantics.Value) {
	seen := set.New[string](len(term.Entries))
	var duplicates []surface.Ident
	entries := make([]core.TypeEntry, 0, len(term.Entries))
	level := core.UniverseLevel(0)

	for _, entry := range term.Entries {
		if !seen.Insert(entry.Label.Name) {
			duplicates = append(duplicates, entry.Label)
		}
		typeTerm, entryLevel, _ := s.IsType(entry.Type)
		level = max(level, entryLevel)
		entries = append(entries, core.TypeEntry{Label: entry.Label.Name, Type: typeTerm})

		binder := entry.Label
		if entry.Binder != nil {
			binder = *entry.Binder
		}
		s.pushFreshLocal(binder.Name, s.Eval(typeTerm))
	}
	s.popManyLocals(core.LocalSize(len(term.Entries)))

	if len(duplicates) > 0 {
		s.report(diag.InvalidRecordType{Range: term.Range, DuplicateLabels: duplicates})
		return &core.Error{}, semantics.Error
	}
	return &core.RecordType{Entries: entries}, &semantics.Universe{Level: level}
}

// synthFunctionType elaborates `Fun (a b : A) -> B` into nested core
// function types, one per parameter name. The parameter type is elaborated
// again for every name, since each one is under one more binder.
func (s *State) synthFunctionType(term *surface.FunctionType) (core.Term, semantics.Value) {
	type param struct {
		name string
		typ  core.Term
	}
	var params []param
	level := core.UniverseLevel(0)
	for _, group := range term.Params {
		for _, name := range group.Names {
			paramTerm, paramLevel, _ := s.IsType(group.Type)
			level = max(level, paramLevel)
			params = append(params, param{name: name.Name, typ: paramTerm})
			s.pushFreshLocal(name.Name, s.Eval(paramTerm))
		}
	}
	body, bodyLevel, _ := s.IsType(term.Body)
	s.popManyLocals(core.LocalSize(len(params)))

	for i := len(params) - 1; i >= 0; i-- {
		body = &core.FunctionType{ParamName: params[i].name, ParamType: params[i].typ, BodyType: body}
	}
	return body, &semantics.Universe{Level: max(level, bodyLevel)}
}

// synthFunctionTerm can only synthesize function terms whose parameters
// are all annotated. The result is annotated with its type so that it can
// be checked again later.
func (s *State) synthFunctionTerm(term *surface.FunctionTerm) (core.Term, semantics.Value) {
	for _, param := range term.Params {
		if param.Type == nil {
			s.report(diag.AmbiguousTerm{Range: term.Range, Kind: diag.AmbiguousFunctionTerm})
			return &core.Error{}, semantics.Error
		}
	}

	paramTypes := make([]core.Term, len(term.Params))
	for i, param := range term.Params {
		paramTypes[i], _, _ = s.IsType(param.Type)
		s.pushFreshLocal(param.Name.Name, s.Eval(paramTypes[i]))
	}
	body, bodyType := s.SynthType(term.Body)
	typ := s.ReadBack(bodyType)
	s.popManyLocals(core.LocalSize(len(term.Params)))

	for i := len(term.Params) - 1; i >= 0; i-- {
		name := term.Params[i].Name.Name
		body = &core.FunctionTerm{ParamName: name, Body: body}
		typ = &core.FunctionType{ParamName: name, ParamType: paramTypes[i], BodyType: typ}
	}
	return &core.Ann{Term: body, Type: typ}, s.Eval(typ)
}

func (s *State) synthFunctionElim(term *surface.FunctionElim) (core.Term, semantics.Value) {
	head, headType := s.SynthType(term.Head)
	for i, arg := range term.Args {
		switch functionType := headType.(type) {
		case *semantics.FunctionTypeValue:
			argTerm := s.CheckType(arg, functionType.ParamType)
			head = &core.FunctionElim{Head: head, Arg: argTerm}
			headType = functionType.Body.Apply(s.globals, s.Eval(argTerm))
		case *semantics.ErrorValue:
			return &core.Error{}, semantics.Error
		default:
			if i == 0 {
				s.report(diag.NotAFunction{Range: surface.RangeOf(term.Head), HeadType: s.distillValue(headType)})
				return &core.Error{}, semantics.Error
			}
			unexpected := make([]surface.Range, 0, len(term.Args)-i)
			for _, extra := range term.Args[i:] {
				unexpected = append(unexpected, surface.RangeOf(extra))
			}
			s.report(diag.TooManyArguments{
				Range:               term.Range,
				HeadType:            s.distillValue(headType),
				UnexpectedArguments: unexpected,
			})
			return &core.Error{}, semantics.Error
		}
	}
	return head, headType
}

func (s *State) synthCase(term *surface.Case) (core.Term, semantics.Value) {
	head, headType := s.SynthType(term.Head)
	if len(term.Clauses) == 0 {
		s.report(diag.AmbiguousEmptyCase{Range: term.Range})
		return &core.Error{}, semantics.Error
	}
	headValue := s.Eval(head)

	var typ semantics.Value
	clauses := s.elaborateClauses(term.Clauses, headType, headValue, func(body surface.Term) core.Term {
		if typ == nil {
			var bodyTerm core.Term
			bodyTerm, typ = s.SynthType(body)
			return bodyTerm
		}
		return s.CheckType(body, typ)
	})
	return &core.Case{Head: head, Clauses: clauses}, typ
}
