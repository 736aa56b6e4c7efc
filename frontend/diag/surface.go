package diag

import (
	"fmt"
	"strings"

	"github.com/cottand/fern/frontend/surface"
)

// AmbiguousKind is the kind of term that could not be synthesized
type AmbiguousKind int

const (
	AmbiguousNumberLiteral AmbiguousKind = iota
	AmbiguousSequence
	AmbiguousFunctionTerm
	AmbiguousRecordTerm
	AmbiguousEmptyCaseKind
)

func (k AmbiguousKind) String() string {
	switch k {
	case AmbiguousNumberLiteral:
		return "numeric literal"
	case AmbiguousSequence:
		return "sequence"
	case AmbiguousFunctionTerm:
		return "function term"
	case AmbiguousRecordTerm:
		return "record term"
	case AmbiguousEmptyCaseKind:
		return "empty case"
	}
	return "term"
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "`" + name + "`"
	}
	return strings.Join(quoted, ", ")
}

func quoteIdents(idents []surface.Ident) string {
	names := make([]string, len(idents))
	for i, ident := range idents {
		names[i] = ident.Name
	}
	return quoteAll(names)
}

// InvalidSyntax is raised when a module cannot be decoded
type InvalidSyntax struct {
	surface.Range
	Message string
	stack   []byte
}

func (e InvalidSyntax) Error() string {
	return e.Message
}
func (e InvalidSyntax) Code() Code         { return InvalidSyntaxCode }
func (e InvalidSyntax) Severity() Severity { return SeverityError }
func (e InvalidSyntax) getStack() []byte   { return e.stack }
func (e InvalidSyntax) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type MaximumUniverseLevelReached struct {
	surface.Range
	stack []byte
}

func (e MaximumUniverseLevelReached) Error() string {
	return "maximum universe level reached"
}
func (e MaximumUniverseLevelReached) Code() Code         { return MaximumUniverseLevelReachedCode }
func (e MaximumUniverseLevelReached) Severity() Severity { return SeverityError }
func (e MaximumUniverseLevelReached) getStack() []byte   { return e.stack }
func (e MaximumUniverseLevelReached) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type UnboundName struct {
	surface.Range
	Name  string
	stack []byte
}

func (e UnboundName) Error() string {
	return fmt.Sprintf("cannot find `%s` in this scope", e.Name)
}
func (e UnboundName) Code() Code         { return UnboundNameCode }
func (e UnboundName) Severity() Severity { return SeverityError }
func (e UnboundName) getStack() []byte   { return e.stack }
func (e UnboundName) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type InvalidRecordType struct {
	surface.Range
	DuplicateLabels []surface.Ident
	stack           []byte
}

func (e InvalidRecordType) Error() string {
	return fmt.Sprintf("invalid record type: duplicate labels %s", quoteIdents(e.DuplicateLabels))
}
func (e InvalidRecordType) Code() Code         { return InvalidRecordTypeCode }
func (e InvalidRecordType) Severity() Severity { return SeverityError }
func (e InvalidRecordType) getStack() []byte   { return e.stack }
func (e InvalidRecordType) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// InvalidRecordTerm reports every label problem of one record term at once
type InvalidRecordTerm struct {
	surface.Range
	DuplicateLabels  []surface.Ident
	MissingLabels    []string
	UnexpectedLabels []surface.Ident
	stack            []byte
}

func (e InvalidRecordTerm) Error() string {
	var problems []string
	if len(e.DuplicateLabels) > 0 {
		problems = append(problems, "duplicate labels "+quoteIdents(e.DuplicateLabels))
	}
	if len(e.MissingLabels) > 0 {
		problems = append(problems, "missing labels "+quoteAll(e.MissingLabels))
	}
	if len(e.UnexpectedLabels) > 0 {
		problems = append(problems, "unexpected labels "+quoteIdents(e.UnexpectedLabels))
	}
	return "invalid record term: " + strings.Join(problems, "; ")
}
func (e InvalidRecordTerm) Code() Code         { return InvalidRecordTermCode }
func (e InvalidRecordTerm) Severity() Severity { return SeverityError }
func (e InvalidRecordTerm) getStack() []byte   { return e.stack }
func (e InvalidRecordTerm) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type LabelNotFound struct {
	surface.Range
	Label    surface.Ident
	HeadType surface.Term
	stack    []byte
}

func (e LabelNotFound) Error() string {
	return fmt.Sprintf("no field in type `%v` with label `%s`", e.HeadType, e.Label.Name)
}
func (e LabelNotFound) Code() Code         { return LabelNotFoundCode }
func (e LabelNotFound) Severity() Severity { return SeverityError }
func (e LabelNotFound) getStack() []byte   { return e.stack }
func (e LabelNotFound) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// TooManyParameters is raised when a function term has more parameters
// than its expected type
type TooManyParameters struct {
	surface.Range
	UnexpectedParameters []surface.Range
	stack                []byte
}

func (e TooManyParameters) Error() string {
	return fmt.Sprintf("too many parameters given for function term: %d unexpected", len(e.UnexpectedParameters))
}
func (e TooManyParameters) Code() Code         { return TooManyParametersCode }
func (e TooManyParameters) Severity() Severity { return SeverityError }
func (e TooManyParameters) getStack() []byte   { return e.stack }
func (e TooManyParameters) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NotAFunction struct {
	surface.Range
	HeadType surface.Term
	stack    []byte
}

func (e NotAFunction) Error() string {
	return fmt.Sprintf("expected a function, found a term of type `%v`", e.HeadType)
}
func (e NotAFunction) Code() Code         { return NotAFunctionCode }
func (e NotAFunction) Severity() Severity { return SeverityError }
func (e NotAFunction) getStack() []byte   { return e.stack }
func (e NotAFunction) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type TooManyArguments struct {
	surface.Range
	HeadType            surface.Term
	UnexpectedArguments []surface.Range
	stack               []byte
}

func (e TooManyArguments) Error() string {
	return fmt.Sprintf("term of type `%v` was applied to too many arguments: %d unexpected", e.HeadType, len(e.UnexpectedArguments))
}
func (e TooManyArguments) Code() Code         { return TooManyArgumentsCode }
func (e TooManyArguments) Severity() Severity { return SeverityError }
func (e TooManyArguments) getStack() []byte   { return e.stack }
func (e TooManyArguments) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type InvalidLiteral struct {
	surface.Range
	Literal  string
	TypeName string
	stack    []byte
}

func (e InvalidLiteral) Error() string {
	return fmt.Sprintf("failed to parse literal `%s` as `%s`", e.Literal, e.TypeName)
}
func (e InvalidLiteral) Code() Code         { return InvalidLiteralCode }
func (e InvalidLiteral) Severity() Severity { return SeverityError }
func (e InvalidLiteral) getStack() []byte   { return e.stack }
func (e InvalidLiteral) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NoLiteralConversion struct {
	surface.Range
	ExpectedType surface.Term
	stack        []byte
}

func (e NoLiteralConversion) Error() string {
	return fmt.Sprintf("no known literal conversion for type `%v`", e.ExpectedType)
}
func (e NoLiteralConversion) Code() Code         { return NoLiteralConversionCode }
func (e NoLiteralConversion) Severity() Severity { return SeverityError }
func (e NoLiteralConversion) getStack() []byte   { return e.stack }
func (e NoLiteralConversion) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type MismatchedSequenceLength struct {
	surface.Range
	FoundLength    int
	ExpectedLength surface.Term
	stack          []byte
}

func (e MismatchedSequenceLength) Error() string {
	return fmt.Sprintf("mismatched sequence length: expected `%v` entries, found %d", e.ExpectedLength, e.FoundLength)
}
func (e MismatchedSequenceLength) Code() Code         { return MismatchedSequenceLengthCode }
func (e MismatchedSequenceLength) Severity() Severity { return SeverityError }
func (e MismatchedSequenceLength) getStack() []byte   { return e.stack }
func (e MismatchedSequenceLength) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type NoSequenceConversion struct {
	surface.Range
	ExpectedType surface.Term
	stack        []byte
}

func (e NoSequenceConversion) Error() string {
	return fmt.Sprintf("no known sequence conversion for type `%v`", e.ExpectedType)
}
func (e NoSequenceConversion) Code() Code         { return NoSequenceConversionCode }
func (e NoSequenceConversion) Severity() Severity { return SeverityError }
func (e NoSequenceConversion) getStack() []byte   { return e.stack }
func (e NoSequenceConversion) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type AmbiguousTerm struct {
	surface.Range
	Kind  AmbiguousKind
	stack []byte
}

func (e AmbiguousTerm) Error() string {
	return fmt.Sprintf("ambiguous %s: try adding a type annotation", e.Kind)
}
func (e AmbiguousTerm) Code() Code         { return AmbiguousTermCode }
func (e AmbiguousTerm) Severity() Severity { return SeverityError }
func (e AmbiguousTerm) getStack() []byte   { return e.stack }
func (e AmbiguousTerm) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type AmbiguousEmptyCase struct {
	surface.Range
	stack []byte
}

func (e AmbiguousEmptyCase) Error() string {
	return "ambiguous empty case: try adding a type annotation"
}
func (e AmbiguousEmptyCase) Code() Code         { return AmbiguousEmptyCaseCode }
func (e AmbiguousEmptyCase) Severity() Severity { return SeverityError }
func (e AmbiguousEmptyCase) getStack() []byte   { return e.stack }
func (e AmbiguousEmptyCase) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type UnableToElaborateHole struct {
	surface.Range
	ExpectedType surface.Term
	stack        []byte
}

func (e UnableToElaborateHole) Error() string {
	if e.ExpectedType == nil {
		return "unable to elaborate hole"
	}
	return fmt.Sprintf("unable to elaborate hole, expected a term of type `%v`", e.ExpectedType)
}
func (e UnableToElaborateHole) Code() Code         { return UnableToElaborateHoleCode }
func (e UnableToElaborateHole) Severity() Severity { return SeverityError }
func (e UnableToElaborateHole) getStack() []byte   { return e.stack }
func (e UnableToElaborateHole) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

// MismatchedTypes is raised when a term does not have the type expected from
// it. A nil ExpectedType means any universe was expected.
type MismatchedTypes struct {
	surface.Range
	FoundType    surface.Term
	ExpectedType surface.Term
	stack        []byte
}

func (e MismatchedTypes) Error() string {
	if e.ExpectedType == nil {
		return fmt.Sprintf("mismatched types: expected a type, found a term of type `%v`", e.FoundType)
	}
	return fmt.Sprintf("mismatched types: expected `%v`, found `%v`", e.ExpectedType, e.FoundType)
}
func (e MismatchedTypes) Code() Code         { return MismatchedTypesCode }
func (e MismatchedTypes) Severity() Severity { return SeverityError }
func (e MismatchedTypes) getStack() []byte   { return e.stack }
func (e MismatchedTypes) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type DuplicateDeclaration struct {
	surface.Range
	Name     string
	Original surface.Range
	stack    []byte
}

func (e DuplicateDeclaration) Error() string {
	return fmt.Sprintf("duplicate declaration of `%s`", e.Name)
}
func (e DuplicateDeclaration) Code() Code         { return DuplicateDeclarationCode }
func (e DuplicateDeclaration) Severity() Severity { return SeverityError }
func (e DuplicateDeclaration) getStack() []byte   { return e.stack }
func (e DuplicateDeclaration) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type DeclarationFollowedDefinition struct {
	surface.Range
	Name     string
	Original surface.Range
	stack    []byte
}

func (e DeclarationFollowedDefinition) Error() string {
	return fmt.Sprintf("declaration of `%s` follows its definition", e.Name)
}
func (e DeclarationFollowedDefinition) Code() Code         { return DeclarationFollowedDefinitionCode }
func (e DeclarationFollowedDefinition) Severity() Severity { return SeverityError }
func (e DeclarationFollowedDefinition) getStack() []byte   { return e.stack }
func (e DeclarationFollowedDefinition) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type DuplicateDefinition struct {
	surface.Range
	Name     string
	Original surface.Range
	stack    []byte
}

func (e DuplicateDefinition) Error() string {
	return fmt.Sprintf("duplicate definition of `%s`", e.Name)
}
func (e DuplicateDefinition) Code() Code         { return DuplicateDefinitionCode }
func (e DuplicateDefinition) Severity() Severity { return SeverityError }
func (e DuplicateDefinition) getStack() []byte   { return e.stack }
func (e DuplicateDefinition) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}

type DepthLimitReached struct {
	surface.Range
	Limit int
	stack []byte
}

func (e DepthLimitReached) Error() string {
	return fmt.Sprintf("term is nested too deeply, the limit is %d", e.Limit)
}
func (e DepthLimitReached) Code() Code         { return DepthLimitReachedCode }
func (e DepthLimitReached) Severity() Severity { return SeverityError }
func (e DepthLimitReached) getStack() []byte   { return e.stack }
func (e DepthLimitReached) withStack(stack []byte) Diagnostic {
	e.stack = stack
	return e
}
