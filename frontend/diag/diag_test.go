package diag

import (
	"go/token"
	"log/slog"
	"strings"
	"testing"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/frontend/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCode(t *testing.T) {
	d := New(UnboundName{Name: "foo"})
	assert.Equal(t, "error(E003): cannot find `foo` in this scope", FormatWithCode(d))

	bug := New(UnboundLocal{Index: 2})
	assert.Equal(t, "bug(E005): unbound local #2", FormatWithCode(bug))
}

func TestFormatWithCodeAndSource(t *testing.T) {
	fSet := token.NewFileSet()
	file := fSet.AddFile("main.yaml", -1, 20)
	file.SetLinesForContent([]byte("line one\nline two\n"))

	d := New(UnboundName{Range: surface.Range{PosStart: file.Pos(14), PosEnd: file.Pos(17)}, Name: "x"})
	assert.Equal(t, "main.yaml:2:6: error(E003): cannot find `x` in this scope", FormatWithCodeAndSource(d, fSet))

	noPosition := New(CoreMaximumUniverseLevelReached{})
	assert.Equal(t, FormatWithCode(noPosition), FormatWithCodeAndSource(noPosition, fSet))
}

func TestDebugPrinting(t *testing.T) {
	EnableDebugPrinting(true)
	defer EnableDebugPrinting(false)

	formatted := FormatWithCode(New(AmbiguousEmptyCase{}))
	assert.True(t, strings.HasSuffix(formatted, "error(E017): ambiguous empty case: try adding a type annotation"))
	assert.NotEqual(t, "error(E017): ambiguous empty case: try adding a type annotation", formatted)
}

func TestErrorsAccumulator(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.Nil(t, errs.Errors())

	errs = errs.With(New(UnboundName{Name: "a"}))
	errs = errs.Merge(nil)
	errs = errs.Merge((&Errors{}).With(New(NotAConstructor{Name: "b"})))
	require.Len(t, errs.Errors(), 2)
	assert.True(t, errs.HasSeverity(SeverityBug))
	assert.True(t, errs.HasSeverity(SeverityError))

	var empty *Errors
	assert.Same(t, errs, empty.Merge(errs))
	assert.Equal(t, slog.KindGroup, errs.LogValue().Kind())
}

func TestMessages(t *testing.T) {
	tests := map[string]Diagnostic{
		"invalid record term: duplicate labels `x`; missing labels `y`, `z`": InvalidRecordTerm{
			DuplicateLabels: []surface.Ident{{Name: "x"}},
			MissingLabels:   []string{"y", "z"},
		},
		"invalid record term: unexpected labels `w`": CoreInvalidRecordTerm{UnexpectedLabels: []string{"w"}},
		"no field in type `Record {}` with label `x`": LabelNotFound{
			Label:    surface.Ident{Name: "x"},
			HeadType: &surface.RecordType{},
		},
		"expected a function, found a term of type `String`": NotAFunction{HeadType: &surface.Name{Name: "String"}},
		"failed to parse literal `256` as `U8`":             InvalidLiteral{Literal: "256", TypeName: "U8"},
		"ambiguous numeric literal: try adding a type annotation": AmbiguousTerm{Kind: AmbiguousNumberLiteral},
		"mismatched types: expected a type, found a term of type `String`": MismatchedTypes{
			FoundType: &surface.Name{Name: "String"},
		},
		"mismatched types: expected `Bool`, found `U8`": CoreMismatchedTypes{
			FoundType:    &core.Global{Name: "U8"},
			ExpectedType: &core.Global{Name: "Bool"},
		},
		"mismatched sequence length: expected `3` entries, found 2": MismatchedSequenceLength{
			FoundLength:    2,
			ExpectedLength: &surface.NumberLiteral{Text: "3"},
		},
		"unable to elaborate hole":                        UnableToElaborateHole{},
		"declaration of `x` follows its definition":       DeclarationFollowedDefinition{Name: "x"},
		"term is nested too deeply, the limit is 512":     DepthLimitReached{Limit: 512},
		"`Bool` is not a constructor":                     NotAConstructor{Name: "Bool"},
		"too many parameters given for function term: 2 unexpected": TooManyParameters{
			UnexpectedParameters: make([]surface.Range, 2),
		},
	}
	for expected, d := range tests {
		t.Run(expected, func(t *testing.T) {
			assert.Equal(t, expected, d.Error())
		})
	}
}

func TestSeverities(t *testing.T) {
	assert.Equal(t, SeverityError, MismatchedTypes{}.Severity())
	assert.Equal(t, SeverityBug, CoreMismatchedTypes{}.Severity())
	assert.Equal(t, MismatchedTypes{}.Code(), CoreMismatchedTypes{}.Code())
	assert.Equal(t, "bug", SeverityBug.String())
}
