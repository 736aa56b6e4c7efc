// Package elab elaborates surface terms into core terms, checking them
// bidirectionally on the way.
//
// Elaboration never stops at the first problem: diagnostics are accumulated
// in the State and the offending term is replaced by core.Error, which is
// compatible with everything, so that checking can carry on with siblings.
package elab

import (
	"log/slog"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/distill"
	"github.com/cottand/fern/frontend/surface"
	"github.com/cottand/fern/internal/log"
)

// DefaultMaxDepth is how deeply terms may nest before elaboration gives up
// on them
const DefaultMaxDepth = 512

var logger = log.DefaultLogger.With("section", "elab")

// State is the environment surface terms are elaborated in. names, types
// and values always have the same size.
type State struct {
	globals        *core.Globals
	universeOffset core.UniverseOffset

	names  core.Locals[string]
	types  core.Locals[semantics.Value]
	values core.Locals[semantics.Value]

	messages *diag.Errors

	depth         int
	maxDepth      int
	depthReported bool

	logger *slog.Logger
}

type Option func(*State)

// WithMaxDepth sets the nesting limit, which is DefaultMaxDepth otherwise
func WithMaxDepth(depth int) Option {
	return func(s *State) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithLogger makes the State log to logger, for example to tag records
// with an id for the current run
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		s.logger = l
	}
}

func New(globals *core.Globals, opts ...Option) *State {
	s := &State{
		globals:  globals,
		maxDepth: DefaultMaxDepth,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = core.TermLogger(s.logger)
	return s
}

// Reset clears the locals of the state, so it can be reused for another
// top-level term. Diagnostics are kept until drained.
func (s *State) Reset() {
	s.universeOffset = 0
	s.names.Clear()
	s.types.Clear()
	s.values.Clear()
	s.depth = 0
	s.depthReported = false
}

// Globals returns the globals in scope, including the ones added by
// ElaborateModule
func (s *State) Globals() *core.Globals {
	return s.globals
}

// DrainMessages returns the diagnostics raised so far and forgets them
func (s *State) DrainMessages() []diag.Diagnostic {
	messages := s.messages.Errors()
	s.messages = nil
	return messages
}

func (s *State) report(d diag.Diagnostic) {
	s.logger.Debug("elaboration diagnostic", "msg", d.Error())
	s.messages = s.messages.With(diag.New(d))
}

func (s *State) size() core.LocalSize {
	return s.values.Size()
}

func (s *State) pushLocal(name string, typ, value semantics.Value) {
	s.names.Push(name)
	s.types.Push(typ)
	s.values.Push(value)
}

func (s *State) pushFreshLocal(name string, typ semantics.Value) semantics.Value {
	value := semantics.Local(s.size().NextLevel())
	s.pushLocal(name, typ, value)
	return value
}

func (s *State) popLocal() {
	s.names.Pop()
	s.types.Pop()
	s.values.Pop()
}

func (s *State) popManyLocals(count core.LocalSize) {
	s.names.PopMany(count)
	s.types.PopMany(count)
	s.values.PopMany(count)
}

// lookupLocal finds the innermost local called name
func (s *State) lookupLocal(name string) (core.LocalIndex, semantics.Value, bool) {
	for index := core.LocalIndex(0); uint32(index) < uint32(s.size()); index++ {
		if local, _ := s.names.Get(index); local == name {
			typ, _ := s.types.Get(index)
			return index, typ, true
		}
	}
	return 0, nil, false
}

// Eval evaluates an elaborated term in the current locals. Elaborated terms
// carry absolute universe offsets, so they are evaluated at offset 0 and not
// at the offset of the enclosing lift.
func (s *State) Eval(term core.Term) semantics.Value {
	return semantics.Eval(s.globals, 0, &s.values, term)
}

func (s *State) ReadBack(value semantics.Value) core.Term {
	return semantics.ReadBack(s.globals, s.size(), value)
}

// Normalize evaluates an elaborated term and reads it back, in the current
// locals
func (s *State) Normalize(term core.Term) core.Term {
	return semantics.Normalize(s.globals, 0, &s.values, term)
}

func (s *State) isSubtype(sub, super semantics.Value) bool {
	return semantics.IsSubtype(s.globals, s.size(), sub, super)
}

func (s *State) isEqualType(a, b semantics.Value) bool {
	return semantics.IsEqualType(s.globals, s.size(), a, b)
}

// Distill turns term back into surface syntax, naming its free locals after
// the locals currently in scope
func (s *State) Distill(term core.Term) surface.Term {
	ctx := distill.NewContext(s.globals)
	for _, name := range s.names.All() {
		ctx.PushScope(name)
	}
	return ctx.FromTerm(term)
}

func (s *State) distillValue(value semantics.Value) surface.Term {
	return s.Distill(s.ReadBack(value))
}

// globalType evaluates the type of a global at the current universe offset
func (s *State) globalType(entry core.GlobalEntry) semantics.Value {
	var empty core.Locals[semantics.Value]
	return semantics.Eval(s.globals, s.universeOffset, &empty, entry.Type)
}

func (s *State) evalGlobal(name string) semantics.Value {
	return s.Eval(&core.Global{Name: name})
}

// enter guards against terms nested too deeply. Every successful call must
// be matched by a call to leave.
func (s *State) enter(term surface.Term) bool {
	if s.depth >= s.maxDepth {
		if !s.depthReported {
			s.depthReported = true
			s.report(diag.DepthLimitReached{Range: surface.RangeOf(term), Limit: s.maxDepth})
		}
		return false
	}
	s.depth++
	return true
}

func (s *State) leave() {
	s.depth--
}

// IsType elaborates term, checking that it is a type. It returns the level
// of the universe the type lives in.
func (s *State) IsType(term surface.Term) (core.Term, core.UniverseLevel, bool) {
	coreTerm, typ := s.SynthType(term)
	switch typ := typ.(type) {
	case *semantics.Universe:
		return coreTerm, typ.Level, true
	case *semantics.ErrorValue:
		return &core.Error{}, 0, false
	default:
		s.report(diag.MismatchedTypes{Range: surface.RangeOf(term), FoundType: s.distillValue(typ)})
		return &core.Error{}, 0, false
	}
}
