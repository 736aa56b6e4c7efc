package semantics

import (
	"testing"

	"github.com/cottand/fern/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func global(name string) core.Term { return &core.Global{Name: name} }
func local(index core.LocalIndex) core.Term { return &core.Local{Index: index} }

func apply(head core.Term, args ...core.Term) core.Term {
	for _, arg := range args {
		head = &core.FunctionElim{Head: head, Arg: arg}
	}
	return head
}

// idType is `Fun (a : Type) -> a -> a`
var idType = &core.FunctionType{
	ParamName: "a",
	ParamType: &core.TypeType{},
	BodyType:  &core.FunctionType{ParamName: "x", ParamType: local(0), BodyType: local(1)},
}

var idTerm = &core.FunctionTerm{ParamName: "a", Body: &core.FunctionTerm{ParamName: "x", Body: local(0)}}

func normalize(t *testing.T, globals *core.Globals, term core.Term) core.Term {
	t.Helper()
	var values core.Locals[Value]
	normal := Normalize(globals, 0, &values, term)
	assert.Equal(t, core.LocalSize(0), values.Size())
	return normal
}

func TestEvalBeta(t *testing.T) {
	globals := core.DefaultGlobals()
	term := apply(idTerm, global("String"), &core.ConstantTerm{Value: core.String("hello")})

	got := normalize(t, globals, term)
	if diff := cmp.Diff(core.Term(&core.ConstantTerm{Value: core.String("hello")}), got); diff != "" {
		t.Errorf("unexpected normal form (-want +got):\n%s", diff)
	}
}

func TestEvalUnfoldsDefinitions(t *testing.T) {
	globals := core.DefaultGlobals().With("id", core.GlobalEntry{Type: idType, Definition: idTerm})

	got := normalize(t, globals, apply(global("id"), global("Type")))
	assert.Equal(t, "fun x => x", got.String())
	assert.True(t, core.Equal(&core.FunctionTerm{Body: local(0)}, got))
}

func TestStuckSpine(t *testing.T) {
	globals := core.DefaultGlobals().With("f", core.GlobalEntry{Type: idType})
	term := &core.RecordElim{Head: apply(global("f"), global("Bool"), global("true")), Label: "x"}

	value := Eval(globals, 0, &core.Locals[Value]{}, term)
	stuck, ok := value.(*Stuck)
	require.True(t, ok)
	assert.Equal(t, GlobalHead{Name: "f"}, stuck.Head)
	assert.Len(t, stuck.Spine, 3)

	assert.True(t, core.Equal(term, ReadBack(globals, 0, value)))
}

func TestSpinesDoNotAlias(t *testing.T) {
	head := &Stuck{Head: GlobalHead{Name: "f"}, Spine: make([]Elim, 0, 8)}

	left := EvalRecordElim(head, "a").(*Stuck)
	right := EvalRecordElim(head, "b").(*Stuck)

	assert.Equal(t, "a", left.Spine[0].(*RecordElim).Label)
	assert.Equal(t, "b", right.Spine[0].(*RecordElim).Label)
	assert.Empty(t, head.Spine)
}

func TestRecordProjection(t *testing.T) {
	globals := core.DefaultGlobals()
	record := &core.Ann{
		Term: &core.RecordTerm{Entries: []core.TermEntry{
			{Label: "t", Term: global("String")},
			{Label: "x", Term: &core.ConstantTerm{Value: core.String("hello")}},
		}},
		Type: &core.RecordType{Entries: []core.TypeEntry{
			{Label: "t", Type: &core.TypeType{}},
			{Label: "x", Type: local(0)},
		}},
	}

	got := normalize(t, globals, &core.RecordElim{Head: record, Label: "x"})
	assert.Equal(t, core.Term(&core.ConstantTerm{Value: core.String("hello")}), got)
}

func TestRecordElimType(t *testing.T) {
	globals := core.DefaultGlobals()
	recordType := Eval(globals, 0, &core.Locals[Value]{}, &core.RecordType{Entries: []core.TypeEntry{
		{Label: "t", Type: &core.TypeType{}},
		{Label: "x", Type: local(0)},
	}}).(*RecordTypeValue)
	head := &RecordTermValue{
		Labels:  []string{"t", "x"},
		Entries: map[string]Value{"t": Global("String", 0), "x": &ConstantValue{Value: core.String("hi")}},
	}

	entryType, ok := RecordElimType(globals, head, "x", recordType.Closure)
	require.True(t, ok)
	assert.True(t, IsEqualType(globals, 0, Global("String", 0), entryType))

	_, ok = RecordElimType(globals, head, "nope", recordType.Closure)
	assert.False(t, ok)
}

func TestNormalizationIsIdempotent(t *testing.T) {
	globals := core.DefaultGlobals().
		With("id", core.GlobalEntry{Type: idType, Definition: idTerm}).
		With("f", core.GlobalEntry{Type: idType})
	terms := []core.Term{
		idTerm,
		idType,
		apply(global("id"), idType, idTerm),
		&core.FunctionTerm{ParamName: "y", Body: apply(global("f"), global("Bool"), apply(global("id"), global("Bool"), local(0)))},
		&core.RecordType{Entries: []core.TypeEntry{{Label: "t", Type: &core.TypeType{}}, {Label: "x", Type: local(0)}}},
		&core.Lift{Term: global("Type"), Offset: 2},
	}
	for _, term := range terms {
		t.Run(term.String(), func(t *testing.T) {
			once := normalize(t, globals, term)
			twice := normalize(t, globals, once)
			assert.True(t, core.Equal(once, twice), "%v != %v", once, twice)
		})
	}
}

func TestAlphaEquivalence(t *testing.T) {
	globals := core.DefaultGlobals()
	a := Eval(globals, 0, &core.Locals[Value]{}, &core.FunctionTerm{ParamName: "x", Body: local(0)})
	b := Eval(globals, 0, &core.Locals[Value]{}, &core.FunctionTerm{ParamName: "y", Body: local(0)})
	assert.True(t, IsEqualNF(globals, 0, a, b))
}

func TestLiftShiftsUniverses(t *testing.T) {
	globals := core.DefaultGlobals()

	got := Eval(globals, 0, &core.Locals[Value]{}, &core.Lift{Term: global("Type"), Offset: 3})
	assert.Equal(t, &Universe{Level: 3}, got)

	overflow := Eval(globals, core.UniverseOffset(core.MaxUniverseLevel), &core.Locals[Value]{}, &core.Lift{Term: &core.TypeType{}, Offset: 1})
	assert.True(t, IsError(overflow))

	stuck := Eval(globals, 1, &core.Locals[Value]{}, global("String"))
	assert.Equal(t, "String^1", ReadBack(globals, 0, stuck).String())
}

func TestSubtypeCumulativity(t *testing.T) {
	globals := core.DefaultGlobals()
	for i := core.UniverseLevel(0); i < 4; i++ {
		for j := core.UniverseLevel(0); j < 4; j++ {
			assert.Equal(t, i <= j, IsSubtype(globals, 0, &Universe{Level: i}, &Universe{Level: j}), "Type^%d <= Type^%d", i, j)
			assert.Equal(t, i == j, IsEqualType(globals, 0, &Universe{Level: i}, &Universe{Level: j}))
		}
	}
}

func TestSubtypeFunctionsAreContravariant(t *testing.T) {
	globals := core.DefaultGlobals()
	eval := func(term core.Term) Value { return Eval(globals, 0, &core.Locals[Value]{}, term) }

	// Type^1 -> Type is a subtype of Type -> Type^1
	narrow := eval(&core.FunctionType{ParamType: &core.TypeType{Level: 1}, BodyType: &core.TypeType{Level: 0}})
	wide := eval(&core.FunctionType{ParamType: &core.TypeType{Level: 0}, BodyType: &core.TypeType{Level: 1}})

	assert.True(t, IsSubtype(globals, 0, narrow, wide))
	assert.False(t, IsSubtype(globals, 0, wide, narrow))
	assert.False(t, IsEqualType(globals, 0, narrow, wide))
}

func TestSubtypeRecords(t *testing.T) {
	globals := core.DefaultGlobals()
	eval := func(term core.Term) Value { return Eval(globals, 0, &core.Locals[Value]{}, term) }

	small := eval(&core.RecordType{Entries: []core.TypeEntry{{Label: "t", Type: &core.TypeType{}}}})
	big := eval(&core.RecordType{Entries: []core.TypeEntry{{Label: "t", Type: &core.TypeType{Level: 1}}}})
	other := eval(&core.RecordType{Entries: []core.TypeEntry{{Label: "u", Type: &core.TypeType{}}}})

	assert.True(t, IsSubtype(globals, 0, small, big))
	assert.False(t, IsSubtype(globals, 0, big, small))
	assert.False(t, IsSubtype(globals, 0, small, other))
}

func TestErrorIsCompatible(t *testing.T) {
	globals := core.DefaultGlobals()
	for _, v := range []Value{&Universe{}, Global("String", 0), &ConstantValue{Value: core.U8(1)}} {
		assert.True(t, IsEqualType(globals, 0, Error, v))
		assert.True(t, IsSubtype(globals, 0, v, Error))
		assert.True(t, IsEqualNF(globals, 0, v, Error))
	}
}

func boolCase(head core.Term) core.Term {
	return &core.Case{Head: head, Clauses: []core.Clause{
		{Pattern: &core.ConstructorPattern{Name: "true"}, Body: &core.ConstantTerm{Value: core.String("yes")}},
		{Pattern: &core.ConstructorPattern{Name: "false"}, Body: &core.ConstantTerm{Value: core.String("no")}},
	}}
}

func TestEvalCase(t *testing.T) {
	globals := core.DefaultGlobals()

	assert.Equal(t, `"yes"`, normalize(t, globals, boolCase(global("true"))).String())
	assert.Equal(t, `"no"`, normalize(t, globals, boolCase(global("false"))).String())

	strings := &core.Case{Head: &core.ConstantTerm{Value: core.String("helloo")}, Clauses: []core.Clause{
		{Pattern: &core.ConstantPattern{Value: core.String("hi")}, Body: &core.ConstantTerm{Value: core.String("haha")}},
		{Pattern: &core.BinderPattern{Name: "greeting"}, Body: local(0)},
	}}
	assert.Equal(t, `"helloo"`, normalize(t, globals, strings).String())

	empty := &core.Case{Head: global("true")}
	assert.Equal(t, core.Term(&core.Error{}), normalize(t, globals, empty))
}

func TestStuckCase(t *testing.T) {
	globals := core.DefaultGlobals()
	term := &core.FunctionTerm{ParamName: "b", Body: boolCase(local(0))}

	got := normalize(t, globals, term)
	assert.True(t, core.Equal(term, got), "%v", got)
}

func TestLetEvaluatesAway(t *testing.T) {
	globals := core.DefaultGlobals()
	term := &core.Let{
		Name:       "x",
		Definition: &core.ConstantTerm{Value: core.U8(3)},
		Body:       &core.Sequence{Entries: []core.Term{local(0), local(0)}},
	}

	got := normalize(t, globals, term)
	assert.Equal(t, "[3, 3]", got.String())
}

func TestReadBackUnboundLevelPanics(t *testing.T) {
	globals := core.DefaultGlobals()
	assert.Panics(t, func() { ReadBack(globals, 0, Local(2)) })
}
