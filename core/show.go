package core

import (
	"fmt"
	"strings"
)

const (
	precTop = iota
	precApp
	precAtom
)

// TermString renders a term in a syntax close to the surface language.
// Locals print as their binder's name hint when one is available, and as
// `#index` otherwise.
func TermString(term Term) string {
	ctx := newShowContext()
	ctx.showTerm(term, precTop)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
	names []string
}

func newShowContext() *showContext {
	return &showContext{Builder: &strings.Builder{}}
}

func (ctx *showContext) push(name string) { ctx.names = append(ctx.names, name) }
func (ctx *showContext) pop(count int)    { ctx.names = ctx.names[:len(ctx.names)-count] }

func (ctx *showContext) paren(outer, inner int, f func()) {
	if outer > inner {
		ctx.WriteString("(")
		defer ctx.WriteString(")")
	}
	f()
}

func (ctx *showContext) showTerm(term Term, prec int) {
	switch term := term.(type) {
	case nil:
		ctx.WriteString("nil")
	case *Global:
		ctx.WriteString(term.Name)
	case *Local:
		level := len(ctx.names) - int(term.Index) - 1
		if level >= 0 && ctx.names[level] != "" {
			ctx.WriteString(ctx.names[level])
		} else {
			fmt.Fprintf(ctx, "#%d", term.Index)
		}
	case *Ann:
		ctx.paren(prec, precTop, func() {
			ctx.showTerm(term.Term, precApp)
			ctx.WriteString(" : ")
			ctx.showTerm(term.Type, precApp)
		})
	case *TypeType:
		if term.Level == 0 {
			ctx.WriteString("Type")
		} else {
			fmt.Fprintf(ctx, "Type^%d", term.Level)
		}
	case *Lift:
		ctx.showTerm(term.Term, precAtom)
		fmt.Fprintf(ctx, "^%d", term.Offset)
	case *FunctionType:
		ctx.paren(prec, precTop, func() {
			if term.ParamName == "" {
				ctx.showTerm(term.ParamType, precApp)
			} else {
				fmt.Fprintf(ctx, "Fun (%s : ", term.ParamName)
				ctx.showTerm(term.ParamType, precTop)
				ctx.WriteString(")")
			}
			ctx.WriteString(" -> ")
			ctx.push(term.ParamName)
			ctx.showTerm(term.BodyType, precTop)
			ctx.pop(1)
		})
	case *FunctionTerm:
		ctx.paren(prec, precTop, func() {
			fmt.Fprintf(ctx, "fun %s => ", term.ParamName)
			ctx.push(term.ParamName)
			ctx.showTerm(term.Body, precTop)
			ctx.pop(1)
		})
	case *FunctionElim:
		ctx.paren(prec, precApp, func() {
			ctx.showTerm(term.Head, precApp)
			ctx.WriteString(" ")
			ctx.showTerm(term.Arg, precAtom)
		})
	case *RecordType:
		ctx.WriteString("Record {")
		for i, entry := range term.Entries {
			if i > 0 {
				ctx.WriteString(",")
			}
			fmt.Fprintf(ctx, " %s : ", entry.Label)
			ctx.showTerm(entry.Type, precTop)
			ctx.push(entry.Label)
		}
		ctx.pop(len(term.Entries))
		if len(term.Entries) > 0 {
			ctx.WriteString(" ")
		}
		ctx.WriteString("}")
	case *RecordTerm:
		ctx.WriteString("record {")
		for i, entry := range term.Entries {
			if i > 0 {
				ctx.WriteString(",")
			}
			fmt.Fprintf(ctx, " %s = ", entry.Label)
			ctx.showTerm(entry.Term, precTop)
		}
		if len(term.Entries) > 0 {
			ctx.WriteString(" ")
		}
		ctx.WriteString("}")
	case *RecordElim:
		ctx.showTerm(term.Head, precAtom)
		ctx.WriteString("." + term.Label)
	case *Sequence:
		ctx.WriteString("[")
		for i, entry := range term.Entries {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showTerm(entry, precTop)
		}
		ctx.WriteString("]")
	case *ConstantTerm:
		ctx.WriteString(term.Value.String())
	case *Case:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("case ")
			ctx.showTerm(term.Head, precApp)
			ctx.WriteString(" {")
			for i, clause := range term.Clauses {
				if i > 0 {
					ctx.WriteString(";")
				}
				fmt.Fprintf(ctx, " %s => ", clause.Pattern)
				if _, ok := clause.Pattern.(*BinderPattern); ok {
					ctx.push(clause.Pattern.String())
					ctx.showTerm(clause.Body, precTop)
					ctx.pop(1)
				} else {
					ctx.showTerm(clause.Body, precTop)
				}
			}
			if len(term.Clauses) > 0 {
				ctx.WriteString(" ")
			}
			ctx.WriteString("}")
		})
	case *Let:
		ctx.paren(prec, precTop, func() {
			fmt.Fprintf(ctx, "let %s = ", term.Name)
			ctx.showTerm(term.Definition, precTop)
			ctx.WriteString("; in ")
			ctx.push(term.Name)
			ctx.showTerm(term.Body, precTop)
			ctx.pop(1)
		})
	case *Error:
		ctx.WriteString("!")
	default:
		fmt.Fprintf(ctx, "<unknown term %T>", term)
	}
}
