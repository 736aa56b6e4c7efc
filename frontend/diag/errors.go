package diag

import (
	"fmt"
	"go/token"
	"runtime/debug"
	"strings"

	"github.com/cottand/fern/frontend/surface"
)

// enableDebugErrorPrinting makes diagnostics include where they were raised when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

type Code int

const (
	None Code = iota
	InvalidSyntaxCode
	MaximumUniverseLevelReachedCode
	UnboundNameCode
	UnboundGlobalCode
	UnboundLocalCode
	InvalidRecordTypeCode
	InvalidRecordTermCode
	LabelNotFoundCode
	TooManyParametersCode
	NotAFunctionCode
	TooManyArgumentsCode
	InvalidLiteralCode
	NoLiteralConversionCode
	MismatchedSequenceLengthCode
	NoSequenceConversionCode
	AmbiguousTermCode
	AmbiguousEmptyCaseCode
	UnableToElaborateHoleCode
	MismatchedTypesCode
	DuplicateDeclarationCode
	DeclarationFollowedDefinitionCode
	DuplicateDefinitionCode
	DepthLimitReachedCode
	NotAConstructorCode
)

// Severity tells apart mistakes in user programs from defects in the
// elaborator itself
type Severity int

const (
	// SeverityError is a problem with the program being checked
	SeverityError Severity = iota
	// SeverityBug means elaborated output failed to re-validate
	SeverityBug
)

func (s Severity) String() string {
	switch s {
	case SeverityBug:
		return "bug"
	default:
		return "error"
	}
}

type Diagnostic interface {
	Error() string
	Code() Code
	Severity() Severity
	surface.Positioner

	withStack([]byte) Diagnostic
	getStack() []byte
}

// FormatWithCode renders d as `severity(Ecode): message`
func FormatWithCode(d Diagnostic) string {
	msg := fmt.Sprintf("%s(E%03d): %s", d.Severity(), d.Code(), d.Error())
	if enableDebugErrorPrinting && d.getStack() != nil {
		stack := string(d.getStack())
		if !enableDebugFullStacktrace {
			if lines := strings.Split(stack, "\n"); len(lines) > 6 {
				stack = lines[6]
			}
		}
		return fmt.Sprintf("%s: %s", stack, msg)
	}
	return msg
}

// FormatWithCodeAndSource prefixes FormatWithCode with the position of d
// in fSet, when it has one
func FormatWithCodeAndSource(d Diagnostic, fSet *token.FileSet) string {
	if fSet == nil || !d.Pos().IsValid() {
		return FormatWithCode(d)
	}
	return fmt.Sprintf("%s: %s", fSet.Position(d.Pos()), FormatWithCode(d))
}

// New records where d was raised, which FormatWithCode can print for debugging
func New[D Diagnostic](d D) Diagnostic {
	return d.withStack(debug.Stack())
}

// EnableDebugPrinting makes FormatWithCode print where each diagnostic was raised
func EnableDebugPrinting(enable bool) {
	enableDebugErrorPrinting = enable
}
