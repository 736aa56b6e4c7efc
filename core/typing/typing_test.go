package typing

import (
	"testing"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func global(name string) core.Term          { return &core.Global{Name: name} }
func local(index core.LocalIndex) core.Term { return &core.Local{Index: index} }
func str(s string) core.Term                { return &core.ConstantTerm{Value: core.String(s)} }

func codes(ds []diag.Diagnostic) []diag.Code {
	var ret []diag.Code
	for _, d := range ds {
		ret = append(ret, d.Code())
	}
	return ret
}

var idType = &core.FunctionType{
	ParamName: "a",
	ParamType: global("Type"),
	BodyType:  &core.FunctionType{ParamName: "x", ParamType: local(0), BodyType: local(1)},
}

var idTerm = &core.FunctionTerm{ParamName: "a", Body: &core.FunctionTerm{ParamName: "x", Body: local(0)}}

func TestSynthGlobals(t *testing.T) {
	state := New(core.DefaultGlobals())

	level, ok := state.IsType(global("Type"))
	require.True(t, ok)
	assert.Equal(t, core.UniverseLevel(1), level)

	level, ok = state.IsType(global("String"))
	require.True(t, ok)
	assert.Equal(t, core.UniverseLevel(0), level)

	typ := state.SynthType(global("true"))
	assert.Equal(t, "Bool", state.ReadBack(typ).String())
	assert.Empty(t, state.DrainMessages())
}

func TestSynthUnbound(t *testing.T) {
	state := New(core.DefaultGlobals())

	assert.True(t, semantics.IsError(state.SynthType(global("nope"))))
	assert.True(t, semantics.IsError(state.SynthType(local(3))))
	assert.Equal(t, []diag.Code{diag.UnboundGlobalCode, diag.UnboundLocalCode}, codes(state.DrainMessages()))
	assert.Empty(t, state.DrainMessages())
}

func TestCheckIdentity(t *testing.T) {
	state := New(core.DefaultGlobals())
	level, ok := state.IsType(idType)
	require.True(t, ok)
	assert.Equal(t, core.UniverseLevel(1), level)

	state.CheckType(idTerm, state.Eval(idType))
	assert.Empty(t, state.DrainMessages())

	applied := &core.FunctionElim{
		Head: &core.FunctionElim{Head: &core.Ann{Term: idTerm, Type: idType}, Arg: global("String")},
		Arg:  str("hello"),
	}
	typ := state.SynthType(applied)
	assert.Empty(t, state.DrainMessages())
	assert.Equal(t, "String", state.ReadBack(typ).String())
}

func TestLiftedUniverse(t *testing.T) {
	state := New(core.DefaultGlobals())

	typ := state.SynthType(&core.Lift{Term: global("Type"), Offset: 2})
	assert.Equal(t, &semantics.Universe{Level: 3}, typ)

	typ = state.SynthType(&core.TypeType{Level: core.MaxUniverseLevel})
	assert.True(t, semantics.IsError(typ))
	assert.Equal(t, []diag.Code{diag.MaximumUniverseLevelReachedCode}, codes(state.DrainMessages()))
}

func TestCumulativeCheck(t *testing.T) {
	state := New(core.DefaultGlobals())

	state.CheckType(global("String"), &semantics.Universe{Level: 1})
	assert.Empty(t, state.DrainMessages())

	state.CheckType(global("Type"), &semantics.Universe{Level: 0})
	assert.Equal(t, []diag.Code{diag.MismatchedTypesCode}, codes(state.DrainMessages()))
}

func TestRecords(t *testing.T) {
	state := New(core.DefaultGlobals())
	recordType := &core.RecordType{Entries: []core.TypeEntry{
		{Label: "t", Type: global("Type")},
		{Label: "x", Type: local(0)},
	}}
	level, ok := state.IsType(recordType)
	require.True(t, ok)
	assert.Equal(t, core.UniverseLevel(1), level)

	record := &core.RecordTerm{Entries: []core.TermEntry{
		{Label: "t", Term: global("String")},
		{Label: "x", Term: str("hello")},
	}}
	projection := &core.RecordElim{Head: &core.Ann{Term: record, Type: recordType}, Label: "x"}
	typ := state.SynthType(projection)
	assert.Empty(t, state.DrainMessages())
	assert.Equal(t, "String", state.ReadBack(typ).String())
	assert.Equal(t, `"hello"`, state.Normalize(projection).String())

	wrong := &core.RecordTerm{Entries: []core.TermEntry{
		{Label: "t", Term: global("String")},
		{Label: "y", Term: str("hello")},
	}}
	state.CheckType(wrong, state.Eval(recordType))
	messages := state.DrainMessages()
	require.Len(t, messages, 1)
	invalid := messages[0].(diag.CoreInvalidRecordTerm)
	assert.Equal(t, []string{"x"}, invalid.MissingLabels)
	assert.Equal(t, []string{"y"}, invalid.UnexpectedLabels)
	assert.Equal(t, diag.SeverityBug, invalid.Severity())
}

func TestDuplicateRecordTypeLabels(t *testing.T) {
	state := New(core.DefaultGlobals())
	recordType := &core.RecordType{Entries: []core.TypeEntry{
		{Label: "x", Type: global("String")},
		{Label: "x", Type: global("String")},
	}}
	_, ok := state.IsType(recordType)
	assert.False(t, ok)
	assert.Equal(t, []diag.Code{diag.InvalidRecordTypeCode}, codes(state.DrainMessages()))
}

func TestRecordElimMissingLabel(t *testing.T) {
	state := New(core.DefaultGlobals())
	empty := &core.RecordTerm{}
	typ := state.SynthType(&core.RecordElim{Head: empty, Label: "x"})
	assert.True(t, semantics.IsError(typ))
	assert.Equal(t, []diag.Code{diag.LabelNotFoundCode}, codes(state.DrainMessages()))
}

func TestSequences(t *testing.T) {
	state := New(core.DefaultGlobals())
	arrayOf := func(n uint32) semantics.Value {
		return state.Eval(&core.FunctionElim{
			Head: &core.FunctionElim{Head: global("Array"), Arg: &core.ConstantTerm{Value: core.U32(n)}},
			Arg:  global("String"),
		})
	}
	seq := &core.Sequence{Entries: []core.Term{str("a"), str("b")}}

	state.CheckType(seq, arrayOf(2))
	assert.Empty(t, state.DrainMessages())

	state.CheckType(seq, arrayOf(3))
	assert.Equal(t, []diag.Code{diag.MismatchedSequenceLengthCode}, codes(state.DrainMessages()))

	state.CheckType(seq, state.Eval(&core.FunctionElim{Head: global("List"), Arg: global("String")}))
	assert.Empty(t, state.DrainMessages())

	state.CheckType(seq, state.Eval(global("String")))
	assert.Equal(t, []diag.Code{diag.NoSequenceConversionCode}, codes(state.DrainMessages()))

	state.SynthType(seq)
	assert.Equal(t, []diag.Code{diag.AmbiguousTermCode}, codes(state.DrainMessages()))
}

func TestNotAFunction(t *testing.T) {
	state := New(core.DefaultGlobals())
	typ := state.SynthType(&core.FunctionElim{Head: str("f"), Arg: str("x")})
	assert.True(t, semantics.IsError(typ))
	assert.Equal(t, []diag.Code{diag.NotAFunctionCode}, codes(state.DrainMessages()))
}

func TestCase(t *testing.T) {
	state := New(core.DefaultGlobals())
	ifThenElse := &core.Case{Head: global("true"), Clauses: []core.Clause{
		{Pattern: &core.ConstructorPattern{Name: "true"}, Body: str("yes")},
		{Pattern: &core.ConstructorPattern{Name: "false"}, Body: str("no")},
	}}
	typ := state.SynthType(ifThenElse)
	assert.Empty(t, state.DrainMessages())
	assert.Equal(t, "String", state.ReadBack(typ).String())
	assert.Equal(t, `"yes"`, state.Normalize(ifThenElse).String())

	binder := &core.Case{Head: str("x"), Clauses: []core.Clause{
		{Pattern: &core.ConstantPattern{Value: core.String("y")}, Body: str("y")},
		{Pattern: &core.BinderPattern{Name: "s"}, Body: local(0)},
	}}
	typ = state.SynthType(binder)
	assert.Empty(t, state.DrainMessages())
	assert.Equal(t, "String", state.ReadBack(typ).String())
	assert.Equal(t, `"x"`, state.Normalize(binder).String())

	notConstructor := &core.Case{Head: global("true"), Clauses: []core.Clause{
		{Pattern: &core.ConstructorPattern{Name: "Bool"}, Body: str("yes")},
	}}
	state.SynthType(notConstructor)
	assert.Equal(t, []diag.Code{diag.NotAConstructorCode}, codes(state.DrainMessages()))

	state.SynthType(&core.Case{Head: global("true")})
	assert.Equal(t, []diag.Code{diag.AmbiguousTermCode}, codes(state.DrainMessages()))
}

func TestLet(t *testing.T) {
	state := New(core.DefaultGlobals())
	let := &core.Let{
		Name:       "t",
		Definition: global("String"),
		Body:       &core.Ann{Term: str("hello"), Type: local(0)},
	}
	typ := state.SynthType(let)
	assert.Empty(t, state.DrainMessages())
	assert.Equal(t, "String", state.ReadBack(typ).String())
	assert.Equal(t, core.LocalSize(0), state.size())
}

func TestErrorIsCompatible(t *testing.T) {
	state := New(core.DefaultGlobals())
	state.CheckType(str("x"), semantics.Error)
	state.CheckType(&core.Error{}, state.Eval(global("U8")))
	_, ok := state.IsType(&core.Error{})
	assert.False(t, ok)
	assert.Empty(t, state.DrainMessages())
}

func TestClearKeepsMessages(t *testing.T) {
	state := New(core.DefaultGlobals())
	state.pushFreshLocal(semantics.Error)
	state.SynthType(global("nope"))
	state.Clear()
	assert.Equal(t, core.LocalSize(0), state.size())
	assert.Len(t, state.DrainMessages(), 1)
}
