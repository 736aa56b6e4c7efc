package diag

import (
	"fmt"
	"strings"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/frontend/surface"
)

// The diagnostics in this file are raised by the core type checker. They
// carry no source range, and are always bugs: elaborated terms should
// never fail to check.

type CoreMaximumUniverseLevelReached struct {
	surface.Range
	stack []byte
}

func (e CoreMaximumUniverseLevelReached) Error() string {
	return "maximum universe level reached"
}
func (e CoreMaximumUniverseLevelReached) Code() Code         { return MaximumUniverseLevelReachedCode }
func (e CoreMaximumUniverseLevelReached) Severity() Severity { return SeverityBug }
func (e CoreMaximumUniverseLevelReached) getStack() []byte   { return e.stack }
func (e CoreMaximumUniverseLevelReached) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type UnboundGlobal struct {
	surface.Range
	Name  string
	stack []byte
}

func (e UnboundGlobal) Error() string {
	return fmt.Sprintf("unbound global `%s`", e.Name)
}
func (e UnboundGlobal) Code() Code         { return UnboundGlobalCode }
func (e UnboundGlobal) Severity() Severity { return SeverityBug }
func (e UnboundGlobal) getStack() []byte   { return e.stack }
func (e UnboundGlobal) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type UnboundLocal struct {
	surface.Range
	Index core.LocalIndex
	stack []byte
}

func (e UnboundLocal) Error() string {
	return fmt.Sprintf("unbound local #%d", e.Index)
}
func (e UnboundLocal) Code() Code         { return UnboundLocalCode }
func (e UnboundLocal) Severity() Severity { return SeverityBug }
func (e UnboundLocal) getStack() []byte   { return e.stack }
func (e UnboundLocal) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NotAConstructor struct {
	surface.Range
	Name  string
	stack []byte
}

func (e NotAConstructor) Error() string {
	return fmt.Sprintf("`%s` is not a constructor", e.Name)
}
func (e NotAConstructor) Code() Code         { return NotAConstructorCode }
func (e NotAConstructor) Severity() Severity { return SeverityBug }
func (e NotAConstructor) getStack() []byte   { return e.stack }
func (e NotAConstructor) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreInvalidRecordType struct {
	surface.Range
	DuplicateLabels []string
	stack           []byte
}

func (e CoreInvalidRecordType) Error() string {
	return fmt.Sprintf("invalid record type: duplicate labels %s", quoteAll(e.DuplicateLabels))
}
func (e CoreInvalidRecordType) Code() Code         { return InvalidRecordTypeCode }
func (e CoreInvalidRecordType) Severity() Severity { return SeverityBug }
func (e CoreInvalidRecordType) getStack() []byte   { return e.stack }
func (e CoreInvalidRecordType) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreInvalidRecordTerm struct {
	surface.Range
	MissingLabels    []string
	UnexpectedLabels []string
	stack            []byte
}

func (e CoreInvalidRecordTerm) Error() string {
	var problems []string
	if len(e.MissingLabels) > 0 {
		problems = append(problems, "missing labels "+quoteAll(e.MissingLabels))
	}
	if len(e.UnexpectedLabels) > 0 {
		problems = append(problems, "unexpected labels "+quoteAll(e.UnexpectedLabels))
	}
	return "invalid record term: " + strings.Join(problems, "; ")
}
func (e CoreInvalidRecordTerm) Code() Code         { return InvalidRecordTermCode }
func (e CoreInvalidRecordTerm) Severity() Severity { return SeverityBug }
func (e CoreInvalidRecordTerm) getStack() []byte   { return e.stack }
func (e CoreInvalidRecordTerm) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreLabelNotFound struct {
	surface.Range
	Label    string
	HeadType core.Term
	stack    []byte
}

func (e CoreLabelNotFound) Error() string {
	return fmt.Sprintf("no field in type `%v` with label `%s`", e.HeadType, e.Label)
}
func (e CoreLabelNotFound) Code() Code         { return LabelNotFoundCode }
func (e CoreLabelNotFound) Severity() Severity { return SeverityBug }
func (e CoreLabelNotFound) getStack() []byte   { return e.stack }
func (e CoreLabelNotFound) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreNotAFunction struct {
	surface.Range
	HeadType core.Term
	stack    []byte
}

func (e CoreNotAFunction) Error() string {
	return fmt.Sprintf("expected a function, found a term of type `%v`", e.HeadType)
}
func (e CoreNotAFunction) Code() Code         { return NotAFunctionCode }
func (e CoreNotAFunction) Severity() Severity { return SeverityBug }
func (e CoreNotAFunction) getStack() []byte   { return e.stack }
func (e CoreNotAFunction) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreAmbiguousTerm struct {
	surface.Range
	Kind  AmbiguousKind
	stack []byte
}

func (e CoreAmbiguousTerm) Error() string {
	return fmt.Sprintf("ambiguous %s", e.Kind)
}
func (e CoreAmbiguousTerm) Code() Code         { return AmbiguousTermCode }
func (e CoreAmbiguousTerm) Severity() Severity { return SeverityBug }
func (e CoreAmbiguousTerm) getStack() []byte   { return e.stack }
func (e CoreAmbiguousTerm) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreNoSequenceConversion struct {
	surface.Range
	ExpectedType core.Term
	stack        []byte
}

func (e CoreNoSequenceConversion) Error() string {
	return fmt.Sprintf("no known sequence conversion for type `%v`", e.ExpectedType)
}
func (e CoreNoSequenceConversion) Code() Code         { return NoSequenceConversionCode }
func (e CoreNoSequenceConversion) Severity() Severity { return SeverityBug }
func (e CoreNoSequenceConversion) getStack() []byte   { return e.stack }
func (e CoreNoSequenceConversion) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type CoreMismatchedSequenceLength struct {
	surface.Range
	FoundLength    int
	ExpectedLength core.Term
	stack          []byte
}

func (e CoreMismatchedSequenceLength) Error() string {
	return fmt.Sprintf("mismatched sequence length: expected `%v` entries, found %d", e.ExpectedLength, e.FoundLength)
}
func (e CoreMismatchedSequenceLength) Code() Code         { return MismatchedSequenceLengthCode }
func (e CoreMismatchedSequenceLength) Severity() Severity { return SeverityBug }
func (e CoreMismatchedSequenceLength) getStack() []byte   { return e.stack }
func (e CoreMismatchedSequenceLength) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// CoreMismatchedTypes has a nil ExpectedType when any universe was expected
type CoreMismatchedTypes struct {
	surface.Range
	FoundType    core.Term
	ExpectedType core.Term
	stack        []byte
}

func (e CoreMismatchedTypes) Error() string {
	if e.ExpectedType == nil {
		return fmt.Sprintf("mismatched types: expected a type, found a term of type `%v`", e.FoundType)
	}
	return fmt.Sprintf("mismatched types: expected `%v`, found `%v`", e.ExpectedType, e.FoundType)
}
func (e CoreMismatchedTypes) Code() Code         { return MismatchedTypesCode }
func (e CoreMismatchedTypes) Severity() Severity { return SeverityBug }
func (e CoreMismatchedTypes) getStack() []byte   { return e.stack }
func (e CoreMismatchedTypes) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}
