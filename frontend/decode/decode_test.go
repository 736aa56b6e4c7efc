package decode

import (
	"fmt"
	"go/token"
	"strings"
	"testing"

	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTerm(t *testing.T, src string) (surface.Term, *diag.Errors) {
	t.Helper()
	return Term(token.NewFileSet(), "test.yaml", []byte(src))
}

func TestTerms(t *testing.T) {
	tests := map[string]string{
		"x":                               "x",
		"_":                               "_",
		"42":                              "42",
		"0x10":                            "0x10",
		"1.5":                             "1.5",
		"true":                            "true",
		"Type^1":                          "Type^1",
		"{ann: [x, String]}":              "x : String",
		"{app: [f, a, b]}":                "f a b",
		"{arrow: [a, b, c]}":              "a -> b -> c",
		"{char: a}":                       "'a'",
		"{string: hello}":                 `"hello"`,
		"[1, 2]":                          "[1, 2]",
		"{seq: []}":                       "[]",
		"{lift: [id, 2]}":                 "id^2",
		"{proj: [r, x]}":                  "r.x",
		"{if: [c, a, b]}":                 "if c then a else b",
		"{record: [{x: 1}, y]}":           "record { x = 1, y }",
		"{Record: [{t: Type}, {x as x-1: t}]}": "Record { t : Type, x as x-1 : t }",
		"{fun: {params: [{a: Type}, x], body: x}}":                 "fun (a : Type) x => x",
		"{Fun: {params: [{a b: Type}], body: {arrow: [a, b]}}}":    "Fun (a b : Type) -> a -> b",
		`{case: {head: s, clauses: [[{string: hi}, _], [s, s]]}}`: `case s { "hi" => _; s => s }`,
		"{let: {items: [{declare: foo, type: Type}, {define: foo, body: String}], body: [foo]}}": "let foo : Type; foo = String; in [foo]",
	}
	for src, expected := range tests {
		t.Run(src, func(t *testing.T) {
			term, errs := decodeTerm(t, src)
			require.False(t, errs.HasError(), "%v", errs.Errors())
			assert.Equal(t, expected, term.String())
		})
	}
}

func TestBlockStyle(t *testing.T) {
	src := `
app:
  - id
  - String
  - string: hello
`
	term, errs := decodeTerm(t, src)
	require.False(t, errs.HasError())
	assert.Equal(t, `id String "hello"`, term.String())
}

func TestInvalidSyntax(t *testing.T) {
	tests := map[string]string{
		"unknown form":        "{frob: x}",
		"too few entries":     "{ann: [x]}",
		"too many entries":    "{if: [a, b, c, d]}",
		"null":                "~",
		"several keys":        "{a: 1, b: 2}",
		"bad lift offset":     "{lift: [x, -1]}",
		"bad lift suffix":     "x^y",
		"missing body":        "{fun: {params: [x]}}",
		"unexpected key":      "{case: {head: x, wat: y}}",
		"bad pattern":         "{case: {head: x, clauses: [[{app: [f, x]}, x]]}}",
		"unterminated":        "[x, y",
		"empty":               "",
		"char is not scalar":  "{char: [a]}",
		"params not a list":   "{fun: {params: x, body: x}}",
		"bad parameter group": "{Fun: {params: [a], body: a}}",
		"alias":               "{app: [&f id, *f]}",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			var term surface.Term
			var errs *diag.Errors
			require.NotPanics(t, func() { term, errs = decodeTerm(t, src) })
			require.NotNil(t, term)
			require.True(t, errs.HasError())
			for _, err := range errs.Errors() {
				assert.Equal(t, diag.InvalidSyntaxCode, err.Code())
			}
		})
	}
}

func TestAliasesAreNotExpanded(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("term: &a0 {app: [f, x]}\nitems:\n")
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&sb, "  - define: d%d\n    body: &a%d {app: [*a%d, *a%d]}\n", i, i, i-1, i-1)
	}
	fSet := token.NewFileSet()
	module, errs := Module(fSet, "main.yaml", []byte(sb.String()))
	require.Len(t, module.Items, 40)
	require.Len(t, errs.Errors(), 80)
	for _, err := range errs.Errors() {
		assert.Equal(t, diag.InvalidSyntaxCode, err.Code())
	}
	_, ok := module.Term.(*surface.FunctionElim)
	assert.True(t, ok, "the anchored term itself is kept")
}

func TestRanges(t *testing.T) {
	fSet := token.NewFileSet()
	module, errs := Module(fSet, "main.yaml", []byte("items: []\nterm: {proj: [foo, bar]}\n"))
	require.False(t, errs.HasError())

	elim, ok := module.Term.(*surface.RecordElim)
	require.True(t, ok)

	head := fSet.Position(elim.Head.Pos())
	assert.Equal(t, "main.yaml", head.Filename)
	assert.Equal(t, 2, head.Line)
	assert.Equal(t, 15, head.Column)
	assert.Equal(t, 18, fSet.Position(elim.Head.End()).Column)

	label := fSet.Position(elim.Label.Pos())
	assert.Equal(t, 20, label.Column)
	assert.Equal(t, elim.Label.End(), elim.End())
}

func TestModule(t *testing.T) {
	src := `
items:
  - declare: id
    type: {Fun: {params: [{a: Type}], body: {arrow: [a, a]}}}
  - define: id
    params: [a, x]
    body: x
  - define: hello
    type: String
    body: {string: hello}
term: {app: [id, String, hello]}
`
	module, errs := Module(token.NewFileSet(), "main.yaml", []byte(src))
	require.False(t, errs.HasError(), "%v", errs.Errors())
	require.Len(t, module.Items, 3)

	declaration, ok := module.Items[0].(*surface.Declaration)
	require.True(t, ok)
	assert.Equal(t, "id", declaration.Name.Name)
	assert.Equal(t, "Fun (a : Type) -> a -> a", declaration.Type.String())

	id, ok := module.Items[1].(*surface.Definition)
	require.True(t, ok)
	assert.Len(t, id.Params, 2)
	assert.Nil(t, id.Type)

	hello, ok := module.Items[2].(*surface.Definition)
	require.True(t, ok)
	assert.Equal(t, "String", hello.Type.String())
	assert.Equal(t, "id String hello", module.Term.String())
}

func TestModuleItemErrors(t *testing.T) {
	src := `
items:
  - declare: x
  - define: y
    body: z
    wat: w
  - 42
`
	module, errs := Module(token.NewFileSet(), "main.yaml", []byte(src))
	require.Len(t, errs.Errors(), 3)
	require.Len(t, module.Items, 1)
	assert.Equal(t, "y", module.Items[0].ItemName().Name)
	assert.Nil(t, module.Term)
}
