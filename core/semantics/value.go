package semantics

import (
	"github.com/cottand/fern/core"
)

// Value is a core term evaluated to weak-head normal form.
type Value interface {
	isValue()
}

// Universe is the type of types at Level
type Universe struct {
	Level core.UniverseLevel
}

// Stuck is a neutral value: an elimination that cannot reduce further
// because its head is unknown. The Spine holds the pending eliminators
// in the order they were applied.
type Stuck struct {
	Head  Head
	Spine []Elim
}

type ConstantValue struct {
	Value core.Constant
}

type SequenceValue struct {
	Entries []Value
}

type RecordTypeValue struct {
	Closure RecordTypeClosure
}

// RecordTermValue is a fully evaluated record. Labels keeps the order the
// entries were written in.
type RecordTermValue struct {
	Labels  []string
	Entries map[string]Value
}

type FunctionTypeValue struct {
	ParamName string
	ParamType Value
	Body      Closure
}

type FunctionTermValue struct {
	ParamName string
	Body      Closure
}

// ErrorValue compares as equal to every other value
type ErrorValue struct{}

func (*Universe) isValue()          {}
func (*Stuck) isValue()             {}
func (*ConstantValue) isValue()     {}
func (*SequenceValue) isValue()     {}
func (*RecordTypeValue) isValue()   {}
func (*RecordTermValue) isValue()   {}
func (*FunctionTypeValue) isValue() {}
func (*FunctionTermValue) isValue() {}
func (*ErrorValue) isValue()        {}

// Head is what a Stuck value is blocked on
type Head interface {
	isHead()
}

// GlobalHead is a global without a definition, used at Offset
type GlobalHead struct {
	Name   string
	Offset core.UniverseOffset
}

type LocalHead struct {
	Level core.LocalLevel
}

func (GlobalHead) isHead() {}
func (LocalHead) isHead()  {}

// Elim is an eliminator waiting in the spine of a Stuck value
type Elim interface {
	isElim()
}

type RecordElim struct {
	Label string
}

type FunctionElim struct {
	Arg Value
}

// CaseElim is a case expression whose scrutinee is stuck
type CaseElim struct {
	Closure CaseClosure
}

func (*RecordElim) isElim()   {}
func (*FunctionElim) isElim() {}
func (*CaseElim) isElim()     {}

// Error is shared, since it carries no data
var Error Value = &ErrorValue{}

// Global returns a stuck global with an empty spine
func Global(name string, offset core.UniverseOffset) Value {
	return &Stuck{Head: GlobalHead{Name: name, Offset: offset}}
}

// Local returns a stuck local with an empty spine
func Local(level core.LocalLevel) Value {
	return &Stuck{Head: LocalHead{Level: level}}
}

func IsError(v Value) bool {
	_, ok := v.(*ErrorValue)
	return ok
}

// Closure is a term under one binder, together with the universe offset and
// the local values that were in scope when the binder was entered.
type Closure struct {
	offset core.UniverseOffset
	values core.Locals[Value]
	term   core.Term
}

func NewClosure(offset core.UniverseOffset, values core.Locals[Value], term core.Term) Closure {
	return Closure{offset: offset, values: values, term: term}
}

// Apply evaluates the body of the closure with arg bound to its parameter
func (c Closure) Apply(globals *core.Globals, arg Value) Value {
	values := c.values
	values.Push(arg)
	return Eval(globals, c.offset, &values, c.term)
}

// RecordTypeClosure holds the entries of a record type, evaluated one at
// a time because later entries may depend on the values of earlier ones.
type RecordTypeClosure struct {
	offset  core.UniverseOffset
	values  core.Locals[Value]
	entries []core.TypeEntry
}

func NewRecordTypeClosure(offset core.UniverseOffset, values core.Locals[Value], entries []core.TypeEntry) RecordTypeClosure {
	return RecordTypeClosure{offset: offset, values: values, entries: entries}
}

func (c RecordTypeClosure) Len() int {
	return len(c.entries)
}

// Entries evaluates each entry type in order, calling onEntry with it.
// The value onEntry returns is bound for the evaluation of the following
// entries.
func (c RecordTypeClosure) Entries(globals *core.Globals, onEntry func(label string, entryType Value) Value) {
	values := c.values
	for _, entry := range c.entries {
		entryType := Eval(globals, c.offset, &values, entry.Type)
		values.Push(onEntry(entry.Label, entryType))
	}
}

// Labels returns the labels of the record type in order
func (c RecordTypeClosure) Labels() []string {
	labels := make([]string, len(c.entries))
	for i, entry := range c.entries {
		labels[i] = entry.Label
	}
	return labels
}

// CaseClosure holds the clauses of a stuck case expression
type CaseClosure struct {
	offset  core.UniverseOffset
	values  core.Locals[Value]
	clauses []core.Clause
}
