package core

// Term is a fully elaborated, explicitly typed core term.
//
// Terms are immutable once built, so sub-terms may be shared between
// parents freely.
type Term interface {
	isTerm()
	String() string
}

// Global refers to an entry of Globals
type Global struct {
	Name string
}

// Local refers to a bound variable by its de Bruijn index
type Local struct {
	Index LocalIndex
}

// Ann is a term annotated with its type
type Ann struct {
	Term Term
	Type Term
}

// TypeType is the universe at Level
type TypeType struct {
	Level UniverseLevel
}

// Lift processes Term at the ambient universe offset plus Offset
type Lift struct {
	Term   Term
	Offset UniverseOffset
}

// FunctionType is a dependent function type. ParamName is only a hint
// for printing, and may be empty.
type FunctionType struct {
	ParamName string
	ParamType Term
	BodyType  Term
}

type FunctionTerm struct {
	ParamName string
	Body      Term
}

type FunctionElim struct {
	Head Term
	Arg  Term
}

// TypeEntry is a field of a record type. Later entries may refer to the
// values of earlier ones, which are bound as locals.
type TypeEntry struct {
	Label string
	Type  Term
}

// RecordType is an ordered, dependent record type.
type RecordType struct {
	Entries []TypeEntry
}

type TermEntry struct {
	Label string
	Term  Term
}

type RecordTerm struct {
	Entries []TermEntry
}

type RecordElim struct {
	Head  Term
	Label string
}

// Sequence is an array or list literal, depending on the type it is
// checked against.
type Sequence struct {
	Entries []Term
}

type ConstantTerm struct {
	Value Constant
}

// Clause is one branch of a Case. If Pattern is a BinderPattern, Body has
// one extra local in scope.
type Clause struct {
	Pattern Pattern
	Body    Term
}

// Case matches Head against each clause's pattern in order.
type Case struct {
	Head    Term
	Clauses []Clause
}

// Let binds Definition as a local in Body
type Let struct {
	Name       string
	Definition Term
	Body       Term
}

// Error is a term whose checking already failed. It is compatible with
// everything so that one failure does not cascade.
type Error struct{}

func (*Global) isTerm()       {}
func (*Local) isTerm()        {}
func (*Ann) isTerm()          {}
func (*TypeType) isTerm()     {}
func (*Lift) isTerm()         {}
func (*FunctionType) isTerm() {}
func (*FunctionTerm) isTerm() {}
func (*FunctionElim) isTerm() {}
func (*RecordType) isTerm()   {}
func (*RecordTerm) isTerm()   {}
func (*RecordElim) isTerm()   {}
func (*Sequence) isTerm()     {}
func (*ConstantTerm) isTerm() {}
func (*Case) isTerm()         {}
func (*Let) isTerm()          {}
func (*Error) isTerm()        {}

func (t *Global) String() string { return TermString(t) }
func (t *Local) String() string { return TermString(t) }
func (t *Ann) String() string { return TermString(t) }
func (t *TypeType) String() string { return TermString(t) }
func (t *Lift) String() string { return TermString(t) }
func (t *FunctionType) String() string { return TermString(t) }
func (t *FunctionTerm) String() string { return TermString(t) }
func (t *FunctionElim) String() string { return TermString(t) }
func (t *RecordType) String() string { return TermString(t) }
func (t *RecordTerm) String() string { return TermString(t) }
func (t *RecordElim) String() string { return TermString(t) }
func (t *Sequence) String() string { return TermString(t) }
func (t *ConstantTerm) String() string { return TermString(t) }
func (t *Case) String() string { return TermString(t) }
func (t *Let) String() string { return TermString(t) }
func (t *Error) String() string { return TermString(t) }

// LiftBy wraps term in a Lift, unless offset is zero.
func LiftBy(term Term, offset UniverseOffset) Term {
	if offset == 0 {
		return term
	}
	return &Lift{Term: term, Offset: offset}
}

// Pattern is the left-hand side of a Clause
type Pattern interface {
	isPattern()
	String() string
}

// ConstantPattern matches a scalar constant
type ConstantPattern struct {
	Value Constant
}

// ConstructorPattern matches a global flagged as a constructor, like `true`.
type ConstructorPattern struct {
	Name string
}

// BinderPattern matches anything and binds it as a local.
type BinderPattern struct {
	Name string
}

func (*ConstantPattern) isPattern()    {}
func (*ConstructorPattern) isPattern() {}
func (*BinderPattern) isPattern()      {}

func (p *ConstantPattern) String() string    { return p.Value.String() }
func (p *ConstructorPattern) String() string { return p.Name }
func (p *BinderPattern) String() string      { return p.Name }

// Binds is the number of locals a pattern brings into scope.
func Binds(p Pattern) LocalSize {
	if _, ok := p.(*BinderPattern); ok {
		return 1
	}
	return 0
}
