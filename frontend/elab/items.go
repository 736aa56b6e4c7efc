package elab

import (
	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
)

// Definition is a top-level definition added to the globals by
// ElaborateModule
type Definition struct {
	Name  string
	Range surface.Range
	Type  core.Term
	Term  core.Term
}

type declaration struct {
	rng surface.Range
	typ semantics.Value
}

// itemScope tracks the items seen so far in a let or a module
type itemScope struct {
	declarations map[string]declaration
	definitions  map[string]surface.Range
}

func newItemScope() *itemScope {
	return &itemScope{
		declarations: make(map[string]declaration),
		definitions:  make(map[string]surface.Range),
	}
}

// elaborateItem elaborates a declaration or a definition. Only definitions
// produce a term to bind, declarations are remembered in scope and give
// the type of the definition that follows them.
func (s *State) elaborateItem(scope *itemScope, item surface.Item) (definition core.Term, typ semantics.Value, ok bool) {
	switch item := item.(type) {
	case *surface.Declaration:
		name := item.Name.Name
		if previous, ok := scope.declarations[name]; ok {
			s.report(diag.DuplicateDeclaration{Range: item.Name.Range, Name: name, Original: previous.rng})
			return nil, nil, false
		}
		if previous, ok := scope.definitions[name]; ok {
			s.report(diag.DeclarationFollowedDefinition{Range: item.Name.Range, Name: name, Original: previous})
			return nil, nil, false
		}
		typeTerm, _, _ := s.IsType(item.Type)
		scope.declarations[name] = declaration{rng: item.Name.Range, typ: s.Eval(typeTerm)}
		return nil, nil, false

	case *surface.Definition:
		name := item.Name.Name
		if previous, ok := scope.definitions[name]; ok {
			s.report(diag.DuplicateDefinition{Range: item.Name.Range, Name: name, Original: previous})
			return nil, nil, false
		}
		scope.definitions[name] = item.Name.Range

		var body surface.Term = item.Body
		if len(item.Params) > 0 {
			body = &surface.FunctionTerm{Range: item.Range, Params: item.Params, Body: item.Body}
		}

		var expected semantics.Value
		declared, isDeclared := scope.declarations[name]
		if isDeclared {
			expected = declared.typ
		}
		if item.Type != nil {
			typeTerm, _, _ := s.IsType(item.Type)
			annotated := s.Eval(typeTerm)
			if isDeclared && !s.isEqualType(annotated, declared.typ) {
				s.report(diag.MismatchedTypes{
					Range:        surface.RangeOf(item.Type),
					FoundType:    s.distillValue(annotated),
					ExpectedType: s.distillValue(declared.typ),
				})
			}
			expected = annotated
		}

		if expected == nil {
			definition, typ = s.SynthType(body)
			return definition, typ, true
		}
		definition = s.CheckType(body, expected)
		return &core.Ann{Term: definition, Type: s.ReadBack(expected)}, expected, true
	}
	return nil, nil, false
}

// elaborateLet binds the definitions of a let one after the other, so each
// can refer to the ones before it, and elaborates the body with body.
func (s *State) elaborateLet(term *surface.Let, body func(surface.Term) core.Term) core.Term {
	type binding struct {
		name       string
		definition core.Term
	}
	scope := newItemScope()
	var bindings []binding
	for _, item := range term.Items {
		definition, typ, ok := s.elaborateItem(scope, item)
		if !ok {
			continue
		}
		name := item.ItemName().Name
		s.pushLocal(name, typ, s.Eval(definition))
		bindings = append(bindings, binding{name: name, definition: definition})
	}

	ret := body(term.Body)
	s.popManyLocals(core.LocalSize(len(bindings)))
	for i := len(bindings) - 1; i >= 0; i-- {
		ret = &core.Let{Name: bindings[i].name, Definition: bindings[i].definition, Body: ret}
	}
	return ret
}

// ElaborateModule elaborates top-level items, adding each definition to
// the globals of the state so that later items can refer to it.
// Declarations that are never defined become globals without a definition.
//
// Globals only grow: redefining an existing global is reported.
func (s *State) ElaborateModule(items []surface.Item) []Definition {
	s.Reset()
	scope := newItemScope()
	var definitions []Definition
	for _, item := range items {
		name := item.ItemName()
		_, inModule := scope.definitions[name.Name]
		if _, exists := s.globals.Get(name.Name); exists && !inModule {
			if _, isDeclaration := item.(*surface.Declaration); isDeclaration {
				s.report(diag.DuplicateDeclaration{Range: name.Range, Name: name.Name})
			} else {
				s.report(diag.DuplicateDefinition{Range: name.Range, Name: name.Name})
			}
			continue
		}

		definition, typ, ok := s.elaborateItem(scope, item)
		s.Reset()
		if !ok {
			continue
		}
		typeTerm := s.ReadBack(typ)
		s.globals = s.globals.With(name.Name, core.GlobalEntry{Type: typeTerm, Definition: definition})
		definitions = append(definitions, Definition{
			Name:  name.Name,
			Range: surface.RangeOf(item),
			Type:  typeTerm,
			Term:  definition,
		})
		s.logger.Debug("defined global", "name", name.Name, "type", typeTerm)
	}

	for _, item := range items {
		name := item.ItemName().Name
		declared, isDeclared := scope.declarations[name]
		if _, isDefined := scope.definitions[name]; !isDeclared || isDefined {
			continue
		}
		if _, exists := s.globals.Get(name); exists {
			continue
		}
		s.globals = s.globals.With(name, core.GlobalEntry{Type: s.ReadBack(declared.typ)})
	}
	return definitions
}
