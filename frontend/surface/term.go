// Package surface is the user-facing syntax of the language, as produced by
// a parser and as printed back when showing terms to users.
package surface

import "go/token"

// Term is a surface term. Every term knows the source range it came from;
// terms created by the distiller have an invalid Range.
type Term interface {
	Positioner
	isTerm()
	String() string
}

// Ident is a name together with where it was written
type Ident struct {
	Range
	Name string
}

type Name struct {
	Range
	Name string
}

type Ann struct {
	Range
	Term Term
	Type Term
}

// NumberLiteral holds the literal as written, since its meaning depends
// on the type it gets checked against.
type NumberLiteral struct {
	Range
	Text string
}

type CharLiteral struct {
	Range
	Value string
}

type StringLiteral struct {
	Range
	Value string
}

// Sequence is `[a, b, c]`, elaborated to an Array or a List
type Sequence struct {
	Range
	Entries []Term
}

// TypeEntry is `label : Type` in a record type. If Binder is set, later
// entries refer to this one by Binder instead of by Label.
type TypeEntry struct {
	Label  Ident
	Binder *Ident
	Type   Term
}

type RecordType struct {
	Range
	Entries []TypeEntry
}

// TermEntry is `label = term` in a record term. Term is nil when the entry
// is punned, as in `record { x }`.
type TermEntry struct {
	Label Ident
	Term  Term
}

type RecordTerm struct {
	Range
	Entries []TermEntry
}

type RecordElim struct {
	Range
	Head  Term
	Label Ident
}

// ParamGroup is `(a b : Type)` in a function type
type ParamGroup struct {
	Names []Ident
	Type  Term
}

// FunctionType is `Fun (a : Type) (x : a) -> a`
type FunctionType struct {
	Range
	Params []ParamGroup
	Body   Term
}

// Arrow is the non-dependent function type `a -> b`
type Arrow struct {
	Range
	Param Term
	Body  Term
}

// Param is a parameter of a function term. Type is nil when it is not
// annotated.
type Param struct {
	Name Ident
	Type Term
}

type FunctionTerm struct {
	Range
	Params []Param
	Body   Term
}

type FunctionElim struct {
	Range
	Head Term
	Args []Term
}

// Lift is `term^offset`
type Lift struct {
	Range
	Term   Term
	Offset uint32
}

type If struct {
	Range
	Cond Term
	Then Term
	Else Term
}

type Clause struct {
	Pattern Pattern
	Body    Term
}

type Case struct {
	Range
	Head    Term
	Clauses []Clause
}

type Let struct {
	Range
	Items []Item
	Body  Term
}

// Hole is `_`, a term left for the elaborator to fill in
type Hole struct {
	Range
}

// Error stands for a term that could not be parsed or distilled
type Error struct {
	Range
}

func (*Name) isTerm()          {}
func (*Ann) isTerm()           {}
func (*NumberLiteral) isTerm() {}
func (*CharLiteral) isTerm()   {}
func (*StringLiteral) isTerm() {}
func (*Sequence) isTerm()      {}
func (*RecordType) isTerm()    {}
func (*RecordTerm) isTerm()    {}
func (*RecordElim) isTerm()    {}
func (*FunctionType) isTerm()  {}
func (*Arrow) isTerm()         {}
func (*FunctionTerm) isTerm()  {}
func (*FunctionElim) isTerm()  {}
func (*Lift) isTerm()          {}
func (*If) isTerm()            {}
func (*Case) isTerm()          {}
func (*Let) isTerm()           {}
func (*Hole) isTerm()          {}
func (*Error) isTerm()         {}

func (t *Name) String() string          { return TermString(t) }
func (t *Ann) String() string           { return TermString(t) }
func (t *NumberLiteral) String() string { return TermString(t) }
func (t *CharLiteral) String() string   { return TermString(t) }
func (t *StringLiteral) String() string { return TermString(t) }
func (t *Sequence) String() string      { return TermString(t) }
func (t *RecordType) String() string    { return TermString(t) }
func (t *RecordTerm) String() string    { return TermString(t) }
func (t *RecordElim) String() string    { return TermString(t) }
func (t *FunctionType) String() string  { return TermString(t) }
func (t *Arrow) String() string         { return TermString(t) }
func (t *FunctionTerm) String() string  { return TermString(t) }
func (t *FunctionElim) String() string  { return TermString(t) }
func (t *Lift) String() string          { return TermString(t) }
func (t *If) String() string            { return TermString(t) }
func (t *Case) String() string          { return TermString(t) }
func (t *Let) String() string           { return TermString(t) }
func (t *Hole) String() string          { return TermString(t) }
func (t *Error) String() string         { return TermString(t) }

// Pattern is the left-hand side of a case clause
type Pattern interface {
	Positioner
	isPattern()
}

// NamePattern is either a constructor like `true`, or a binder
type NamePattern struct {
	Ident
}

// LiteralPattern matches a number, char or string literal
type LiteralPattern struct {
	Literal Term
}

func (*NamePattern) isPattern()    {}
func (*LiteralPattern) isPattern() {}

func (p *LiteralPattern) Pos() token.Pos { return p.Literal.Pos() }
func (p *LiteralPattern) End() token.Pos { return p.Literal.End() }

// Item is a declaration or definition inside a let, or at the top level of
// a module
type Item interface {
	Positioner
	isItem()
	ItemName() Ident
}

// Declaration is `name : Type;`
type Declaration struct {
	Range
	Name Ident
	Type Term
}

// Definition is `name params : Type = body;`, where the parameters and the
// type are optional.
type Definition struct {
	Range
	Name   Ident
	Params []Param
	Type   Term
	Body   Term
}

func (*Declaration) isItem() {}
func (*Definition) isItem()  {}

func (d *Declaration) ItemName() Ident { return d.Name }
func (d *Definition) ItemName() Ident  { return d.Name }

// Module is a list of top-level items followed by an optional term
type Module struct {
	Items []Item
	Term  Term
}
