package core

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// GlobalEntry is the declared type of a global, plus its definition if it
// has one. Globals without a definition stay stuck during evaluation.
type GlobalEntry struct {
	Type       Term
	Definition Term
	// Constructor marks globals that can be used as patterns in a Case
	Constructor bool
}

// Globals is an immutable mapping of global names to their entries.
// It only grows: With returns a new Globals and leaves the receiver intact,
// so terms elaborated against an older Globals stay valid.
type Globals struct {
	entries *immutable.SortedMap[string, GlobalEntry]
}

func NewGlobals() *Globals {
	return &Globals{entries: immutable.NewSortedMap[string, GlobalEntry](immutable.NewComparer(""))}
}

func (g *Globals) Get(name string) (GlobalEntry, bool) {
	if g == nil || g.entries == nil {
		return GlobalEntry{}, false
	}
	return g.entries.Get(name)
}

// With returns a copy of g where name is bound to entry
func (g *Globals) With(name string, entry GlobalEntry) *Globals {
	if g == nil || g.entries == nil {
		g = NewGlobals()
	}
	return &Globals{entries: g.entries.Set(name, entry)}
}

func (g *Globals) Len() int {
	if g == nil || g.entries == nil {
		return 0
	}
	return g.entries.Len()
}

// All iterates over globals sorted by name
func (g *Globals) All() iter.Seq2[string, GlobalEntry] {
	return func(yield func(string, GlobalEntry) bool) {
		if g == nil || g.entries == nil {
			return
		}
		for it := g.entries.Iterator(); !it.Done(); {
			name, entry, _ := it.Next()
			if !yield(name, entry) {
				return
			}
		}
	}
}

// IsConstructor reports whether name is a global usable in a ConstructorPattern
func (g *Globals) IsConstructor(name string) bool {
	entry, ok := g.Get(name)
	return ok && entry.Constructor
}

func arrow(param, body Term) Term {
	return &FunctionType{ParamType: param, BodyType: body}
}

// DefaultGlobals returns the prelude every module starts from.
func DefaultGlobals() *Globals {
	typ := &TypeType{Level: 0}
	globals := NewGlobals().
		With("Type", GlobalEntry{Type: &TypeType{Level: 1}, Definition: typ}).
		With("Bool", GlobalEntry{Type: typ}).
		With("true", GlobalEntry{Type: &Global{Name: "Bool"}, Constructor: true}).
		With("false", GlobalEntry{Type: &Global{Name: "Bool"}, Constructor: true}).
		With("Array", GlobalEntry{Type: arrow(&Global{Name: "U32"}, arrow(typ, typ))}).
		With("List", GlobalEntry{Type: arrow(typ, typ)})
	for _, name := range ScalarTypeNames {
		globals = globals.With(name, GlobalEntry{Type: typ})
	}
	return globals
}
