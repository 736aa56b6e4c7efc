package surface

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	precTop = iota
	precApp
	precAtom
)

// TermString renders a term in concrete syntax
func TermString(term Term) string {
	ctx := &showContext{Builder: &strings.Builder{}}
	ctx.showTerm(term, precTop)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
}

func (ctx *showContext) paren(outer, inner int, f func()) {
	if outer > inner {
		ctx.WriteString("(")
		defer ctx.WriteString(")")
	}
	f()
}

func (ctx *showContext) showParams(params []Param) {
	for _, param := range params {
		ctx.WriteString(" ")
		if param.Type == nil {
			ctx.WriteString(param.Name.Name)
			continue
		}
		fmt.Fprintf(ctx, "(%s : ", param.Name.Name)
		ctx.showTerm(param.Type, precTop)
		ctx.WriteString(")")
	}
}

func (ctx *showContext) showTerm(term Term, prec int) {
	switch term := term.(type) {
	case nil:
		ctx.WriteString("nil")
	case *Name:
		ctx.WriteString(term.Name)
	case *Ann:
		ctx.paren(prec, precTop, func() {
			ctx.showTerm(term.Term, precApp)
			ctx.WriteString(" : ")
			ctx.showTerm(term.Type, precApp)
		})
	case *NumberLiteral:
		ctx.WriteString(term.Text)
	case *CharLiteral:
		ctx.WriteString("'" + term.Value + "'")
	case *StringLiteral:
		ctx.WriteString(strconv.Quote(term.Value))
	case *Sequence:
		ctx.WriteString("[")
		for i, entry := range term.Entries {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showTerm(entry, precTop)
		}
		ctx.WriteString("]")
	case *RecordType:
		ctx.WriteString("Record {")
		for i, entry := range term.Entries {
			if i > 0 {
				ctx.WriteString(",")
			}
			ctx.WriteString(" " + entry.Label.Name)
			if entry.Binder != nil {
				ctx.WriteString(" as " + entry.Binder.Name)
			}
			ctx.WriteString(" : ")
			ctx.showTerm(entry.Type, precTop)
		}
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
			ctx.WriteString(" " + entry.Label.Name)
			if entry.Term != nil {
				ctx.WriteString(" = ")
				ctx.showTerm(entry.Term, precTop)
			}
		}
		if len(term.Entries) > 0 {
			ctx.WriteString(" ")
		}
		ctx.WriteString("}")
	case *RecordElim:
		ctx.showTerm(term.Head, precAtom)
		ctx.WriteString("." + term.Label.Name)
	case *FunctionType:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("Fun")
			for _, group := range term.Params {
				ctx.WriteString(" (")
				for i, name := range group.Names {
					if i > 0 {
						ctx.WriteString(" ")
					}
					ctx.WriteString(name.Name)
				}
				ctx.WriteString(" : ")
				ctx.showTerm(group.Type, precTop)
				ctx.WriteString(")")
			}
			ctx.WriteString(" -> ")
			ctx.showTerm(term.Body, precTop)
		})
	case *Arrow:
		ctx.paren(prec, precTop, func() {
			ctx.showTerm(term.Param, precApp)
			ctx.WriteString(" -> ")
			ctx.showTerm(term.Body, precTop)
		})
	case *FunctionTerm:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("fun")
			ctx.showParams(term.Params)
			ctx.WriteString(" => ")
			ctx.showTerm(term.Body, precTop)
		})
	case *FunctionElim:
		ctx.paren(prec, precApp, func() {
			ctx.showTerm(term.Head, precApp)
			for _, arg := range term.Args {
				ctx.WriteString(" ")
				ctx.showTerm(arg, precAtom)
			}
		})
	case *Lift:
		ctx.showTerm(term.Term, precAtom)
		fmt.Fprintf(ctx, "^%d", term.Offset)
	case *If:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("if ")
			ctx.showTerm(term.Cond, precTop)
			ctx.WriteString(" then ")
			ctx.showTerm(term.Then, precTop)
			ctx.WriteString(" else ")
			ctx.showTerm(term.Else, precTop)
		})
	case *Case:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("case ")
			ctx.showTerm(term.Head, precApp)
			ctx.WriteString(" {")
			for i, clause := range term.Clauses {
				if i > 0 {
					ctx.WriteString(";")
				}
				ctx.WriteString(" ")
				ctx.showPattern(clause.Pattern)
				ctx.WriteString(" => ")
				ctx.showTerm(clause.Body, precTop)
			}
			if len(term.Clauses) > 0 {
				ctx.WriteString(" ")
			}
			ctx.WriteString("}")
		})
	case *Let:
		ctx.paren(prec, precTop, func() {
			ctx.WriteString("let")
			for _, item := range term.Items {
				ctx.WriteString(" ")
				ctx.showItem(item)
				ctx.WriteString(";")
			}
			ctx.WriteString(" in ")
			ctx.showTerm(term.Body, precTop)
		})
	case *Hole:
		ctx.WriteString("_")
	case *Error:
		ctx.WriteString("!")
	default:
		fmt.Fprintf(ctx, "<unknown term %T>", term)
	}
}

func (ctx *showContext) showPattern(pattern Pattern) {
	switch pattern := pattern.(type) {
	case *NamePattern:
		ctx.WriteString(pattern.Name)
	case *LiteralPattern:
		ctx.showTerm(pattern.Literal, precAtom)
	}
}

func (ctx *showContext) showItem(item Item) {
	switch item := item.(type) {
	case *Declaration:
		ctx.WriteString(item.Name.Name + " : ")
		ctx.showTerm(item.Type, precTop)
	case *Definition:
		ctx.WriteString(item.Name.Name)
		ctx.showParams(item.Params)
		if item.Type != nil {
			ctx.WriteString(" : ")
			ctx.showTerm(item.Type, precTop)
		}
		ctx.WriteString(" = ")
		ctx.showTerm(item.Body, precTop)
	}
}

// ItemString renders a declaration or definition in concrete syntax
func ItemString(item Item) string {
	ctx := &showContext{Builder: &strings.Builder{}}
	ctx.showItem(item)
	return ctx.String()
}
