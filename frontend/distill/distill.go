// Package distill turns core terms back into surface terms, so they can be
// shown to users. Locals get human readable names again, freshened so that
// no binder captures another.
package distill

import (
	"fmt"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/frontend/surface"
	"github.com/cottand/fern/internal/log"
	"github.com/cottand/fern/util"
)

var logger = log.DefaultLogger.With("section", "distill")

const defaultName = "t"

type usage struct {
	// base is the name this one was freshened from, if any
	base    string
	hasBase bool
	// count is how many names in scope were derived from this one,
	// including itself
	count int
}

// Context tracks the names in scope while distilling
type Context struct {
	usages map[string]*usage
	scopes util.Stack[string]
}

// NewContext returns a Context where the names of globals are taken, so
// that locals never shadow them.
func NewContext(globals *core.Globals) *Context {
	ctx := &Context{usages: make(map[string]*usage, globals.Len())}
	for name := range globals.All() {
		ctx.usages[name] = &usage{count: 1}
	}
	return ctx
}

// PushScope brings a local into scope and returns the name it was given:
// hint if it is free, otherwise hint with the smallest free `-N` suffix.
func (ctx *Context) PushScope(hint string) string {
	if hint == "" {
		hint = defaultName
	}
	base, taken := ctx.usages[hint]
	if !taken {
		ctx.usages[hint] = &usage{count: 1}
		ctx.scopes.Push(hint)
		return hint
	}

	suffix := base.count
	name := fmt.Sprintf("%s-%d", hint, suffix)
	for ctx.usages[name] != nil {
		suffix++
		name = fmt.Sprintf("%s-%d", hint, suffix)
	}
	base.count++
	ctx.usages[name] = &usage{base: hint, hasBase: true, count: 1}
	ctx.scopes.Push(name)
	return name
}

// PopScope releases the innermost local
func (ctx *Context) PopScope() {
	name, ok := ctx.scopes.Pop()
	if !ok {
		logger.Warn("popped an empty scope")
		return
	}
	u := ctx.usages[name]
	u.count--
	if u.count > 0 {
		return
	}
	delete(ctx.usages, name)
	if base := ctx.usages[u.base]; u.hasBase && base != nil {
		base.count--
	}
}

func (ctx *Context) PopScopes(count int) {
	for range count {
		ctx.PopScope()
	}
}

// TruncateScopes pops locals until only size of them are left
func (ctx *Context) TruncateScopes(size int) {
	ctx.PopScopes(ctx.scopes.Len() - size)
}

func (ctx *Context) ScopeSize() int {
	return ctx.scopes.Len()
}

func (ctx *Context) localName(index core.LocalIndex) (string, bool) {
	return ctx.scopes.Peek(int(index))
}

// Distill is a shorthand for distilling a closed term
func Distill(globals *core.Globals, term core.Term) surface.Term {
	return NewContext(globals).FromTerm(term)
}

// FromTerm distills term, where its free locals are the scopes currently
// pushed.
func (ctx *Context) FromTerm(term core.Term) surface.Term {
	switch term := term.(type) {
	case *core.Global:
		return &surface.Name{Name: term.Name}
	case *core.Local:
		name, ok := ctx.localName(term.Index)
		if !ok {
			logger.Warn("distilling unbound local", "index", term.Index)
			return &surface.Error{}
		}
		return &surface.Name{Name: name}
	case *core.Ann:
		return &surface.Ann{Term: ctx.FromTerm(term.Term), Type: ctx.FromTerm(term.Type)}
	case *core.TypeType:
		if term.Level == 0 {
			return &surface.Name{Name: "Type"}
		}
		return &surface.Lift{Term: &surface.Name{Name: "Type"}, Offset: uint32(term.Level)}
	case *core.Lift:
		return &surface.Lift{Term: ctx.FromTerm(term.Term), Offset: uint32(term.Offset)}
	case *core.FunctionType:
		return ctx.fromFunctionType(term)
	case *core.FunctionTerm:
		var params []surface.Param
		var body core.Term = term
		for {
			function, ok := body.(*core.FunctionTerm)
			if !ok {
				break
			}
			params = append(params, surface.Param{Name: surface.Ident{Name: ctx.PushScope(function.ParamName)}})
			body = function.Body
		}
		distilled := ctx.FromTerm(body)
		ctx.PopScopes(len(params))
		return &surface.FunctionTerm{Params: params, Body: distilled}
	case *core.FunctionElim:
		var args []core.Term
		var head core.Term = term
		for {
			elim, ok := head.(*core.FunctionElim)
			if !ok {
				break
			}
			args = append(args, elim.Arg)
			head = elim.Head
		}
		distilled := make([]surface.Term, len(args))
		for i, arg := range args {
			distilled[len(args)-1-i] = ctx.FromTerm(arg)
		}
		return &surface.FunctionElim{Head: ctx.FromTerm(head), Args: distilled}
	case *core.RecordType:
		entries := make([]surface.TypeEntry, len(term.Entries))
		for i, entry := range term.Entries {
			entries[i] = surface.TypeEntry{Label: surface.Ident{Name: entry.Label}, Type: ctx.FromTerm(entry.Type)}
			if name := ctx.PushScope(entry.Label); name != entry.Label {
				entries[i].Binder = &surface.Ident{Name: name}
			}
		}
		ctx.PopScopes(len(term.Entries))
		return &surface.RecordType{Entries: entries}
	case *core.RecordTerm:
		entries := make([]surface.TermEntry, len(term.Entries))
		for i, entry := range term.Entries {
			entries[i] = surface.TermEntry{Label: surface.Ident{Name: entry.Label}, Term: ctx.FromTerm(entry.Term)}
		}
		return &surface.RecordTerm{Entries: entries}
	case *core.RecordElim:
		return &surface.RecordElim{Head: ctx.FromTerm(term.Head), Label: surface.Ident{Name: term.Label}}
	case *core.Sequence:
		entries := make([]surface.Term, len(term.Entries))
		for i, entry := range term.Entries {
			entries[i] = ctx.FromTerm(entry)
		}
		return &surface.Sequence{Entries: entries}
	case *core.ConstantTerm:
		return fromConstant(term.Value)
	case *core.Case:
		return ctx.fromCase(term)
	case *core.Let:
		definition := ctx.FromTerm(term.Definition)
		name := ctx.PushScope(term.Name)
		body := ctx.FromTerm(term.Body)
		ctx.PopScope()
		return &surface.Let{
			Items: []surface.Item{&surface.Definition{Name: surface.Ident{Name: name}, Body: definition}},
			Body:  body,
		}
	case *core.Error:
		return &surface.Error{}
	}
	logger.Warn("distilling unexpected term", "type", fmt.Sprintf("%T", term))
	return &surface.Error{}
}

// fromFunctionType distills a chain of dependent function types into a
// single `Fun`, and a function type whose body ignores its parameter into
// an arrow.
func (ctx *Context) fromFunctionType(term *core.FunctionType) surface.Term {
	if !core.UsesLocal(term.BodyType, 0) {
		param := ctx.FromTerm(term.ParamType)
		ctx.PushScope(term.ParamName)
		body := ctx.FromTerm(term.BodyType)
		ctx.PopScope()
		return &surface.Arrow{Param: param, Body: body}
	}

	var groups []surface.ParamGroup
	var body core.Term = term
	for {
		function, ok := body.(*core.FunctionType)
		if !ok || !core.UsesLocal(function.BodyType, 0) {
			break
		}
		paramType := ctx.FromTerm(function.ParamType)
		name := ctx.PushScope(function.ParamName)
		groups = append(groups, surface.ParamGroup{Names: []surface.Ident{{Name: name}}, Type: paramType})
		body = function.BodyType
	}
	distilled := ctx.FromTerm(body)
	ctx.PopScopes(len(groups))
	return &surface.FunctionType{Params: groups, Body: distilled}
}

func (ctx *Context) fromCase(term *core.Case) surface.Term {
	head := ctx.FromTerm(term.Head)
	if len(term.Clauses) == 2 && isConstructor(term.Clauses[0].Pattern, "true") && isConstructor(term.Clauses[1].Pattern, "false") {
		return &surface.If{Cond: head, Then: ctx.FromTerm(term.Clauses[0].Body), Else: ctx.FromTerm(term.Clauses[1].Body)}
	}

	clauses := make([]surface.Clause, len(term.Clauses))
	for i, clause := range term.Clauses {
		switch pattern := clause.Pattern.(type) {
		case *core.ConstantPattern:
			clauses[i] = surface.Clause{
				Pattern: &surface.LiteralPattern{Literal: fromConstant(pattern.Value)},
				Body:    ctx.FromTerm(clause.Body),
			}
		case *core.ConstructorPattern:
			clauses[i] = surface.Clause{
				Pattern: &surface.NamePattern{Ident: surface.Ident{Name: pattern.Name}},
				Body:    ctx.FromTerm(clause.Body),
			}
		case *core.BinderPattern:
			name := ctx.PushScope(pattern.Name)
			clauses[i] = surface.Clause{
				Pattern: &surface.NamePattern{Ident: surface.Ident{Name: name}},
				Body:    ctx.FromTerm(clause.Body),
			}
			ctx.PopScope()
		}
	}
	return &surface.Case{Head: head, Clauses: clauses}
}

func isConstructor(pattern core.Pattern, name string) bool {
	constructor, ok := pattern.(*core.ConstructorPattern)
	return ok && constructor.Name == name
}

func fromConstant(constant core.Constant) surface.Term {
	switch constant := constant.(type) {
	case core.String:
		return &surface.StringLiteral{Value: string(constant)}
	case core.Char:
		return &surface.CharLiteral{Value: string(rune(constant))}
	default:
		return &surface.NumberLiteral{Text: constant.String()}
	}
}
