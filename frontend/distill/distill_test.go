package distill

import (
	"testing"

	"github.com/cottand/fern/core"
	"github.com/stretchr/testify/assert"
)

func global(name string) core.Term          { return &core.Global{Name: name} }
func local(index core.LocalIndex) core.Term { return &core.Local{Index: index} }

func TestPushScopeFreshens(t *testing.T) {
	ctx := NewContext(core.NewGlobals())

	assert.Equal(t, "t", ctx.PushScope(""))
	assert.Equal(t, "t-1", ctx.PushScope("t"))
	assert.Equal(t, "t-2", ctx.PushScope(""))
	assert.Equal(t, 3, ctx.ScopeSize())
}

func TestPushScopeOfFreshName(t *testing.T) {
	ctx := NewContext(core.NewGlobals())

	assert.Equal(t, "test", ctx.PushScope("test"))
	assert.Equal(t, "test-1", ctx.PushScope("test"))
	assert.Equal(t, "test-1-1", ctx.PushScope("test-1"))
	assert.Equal(t, "test-2", ctx.PushScope("test"))
}

func TestGlobalsAreNotShadowed(t *testing.T) {
	ctx := NewContext(core.DefaultGlobals())

	assert.Equal(t, "Type-1", ctx.PushScope("Type"))
	assert.Equal(t, "Type-2", ctx.PushScope("Type"))
	ctx.PopScopes(2)
	assert.Equal(t, "Type-1", ctx.PushScope("Type"))
}

func TestPopScopeReleasesNames(t *testing.T) {
	ctx := NewContext(core.NewGlobals())

	ctx.PushScope("x")
	ctx.PushScope("x")
	ctx.PopScope()
	assert.Equal(t, "x-1", ctx.PushScope("x"))

	ctx.TruncateScopes(0)
	assert.Equal(t, 0, ctx.ScopeSize())
	assert.Equal(t, "x", ctx.PushScope("x"))

	// popping past the bottom is ignored
	ctx.PopScopes(3)
	assert.Equal(t, 0, ctx.ScopeSize())
}

func TestPushPopIsDeterministic(t *testing.T) {
	hints := []string{"a", "", "a", "b", "", "a-1", "a"}
	run := func() []string {
		ctx := NewContext(core.DefaultGlobals())
		var names []string
		for _, hint := range hints {
			names = append(names, ctx.PushScope(hint))
		}
		ctx.PopScopes(len(hints))
		for _, hint := range hints {
			names = append(names, ctx.PushScope(hint))
		}
		return names
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, first[:len(hints)], first[len(hints):])
	assert.Equal(t, []string{"a", "t", "a-1", "b", "t-1", "a-1-1", "a-2"}, first[:len(hints)])
}

func TestFromTerm(t *testing.T) {
	tests := map[string]core.Term{
		"Type":   &core.TypeType{},
		"Type^2": &core.TypeType{Level: 2},
		"id^1":   &core.Lift{Term: global("id"), Offset: 1},
		"Fun (a : Type) -> a -> a": &core.FunctionType{
			ParamName: "a",
			ParamType: global("Type"),
			BodyType:  &core.FunctionType{ParamName: "x", ParamType: local(0), BodyType: local(1)},
		},
		"Fun (a : Type) (b : a) -> b": &core.FunctionType{
			ParamName: "a",
			ParamType: global("Type"),
			BodyType:  &core.FunctionType{ParamName: "b", ParamType: local(0), BodyType: local(0)},
		},
		"String -> String": &core.FunctionType{ParamType: global("String"), BodyType: global("String")},
		"fun a x => x": &core.FunctionTerm{ParamName: "a", Body: &core.FunctionTerm{ParamName: "x", Body: local(0)}},
		"fun t t-1 => t":  &core.FunctionTerm{Body: &core.FunctionTerm{Body: local(1)}},
		"f a b":           &core.FunctionElim{Head: &core.FunctionElim{Head: global("f"), Arg: global("a")}, Arg: global("b")},
		"f (g a)":         &core.FunctionElim{Head: global("f"), Arg: &core.FunctionElim{Head: global("g"), Arg: global("a")}},
		"Record { t : Type, x : t }": &core.RecordType{Entries: []core.TypeEntry{
			{Label: "t", Type: global("Type")},
			{Label: "x", Type: local(0)},
		}},
		"Record { String as String-1 : Type, x : String-1 }": &core.RecordType{Entries: []core.TypeEntry{
			{Label: "String", Type: global("Type")},
			{Label: "x", Type: local(0)},
		}},
		`record { t = String, x = "hello" }`: &core.RecordTerm{Entries: []core.TermEntry{
			{Label: "t", Term: global("String")},
			{Label: "x", Term: &core.ConstantTerm{Value: core.String("hello")}},
		}},
		"r.x":        &core.RecordElim{Head: global("r"), Label: "x"},
		"[1, 'a']":   &core.Sequence{Entries: []core.Term{&core.ConstantTerm{Value: core.U8(1)}, &core.ConstantTerm{Value: core.Char('a')}}},
		"!":          &core.Error{},
		"x : String": &core.Ann{Term: global("x"), Type: global("String")},
		"if b then 1 else 2": &core.Case{Head: global("b"), Clauses: []core.Clause{
			{Pattern: &core.ConstructorPattern{Name: "true"}, Body: &core.ConstantTerm{Value: core.S32(1)}},
			{Pattern: &core.ConstructorPattern{Name: "false"}, Body: &core.ConstantTerm{Value: core.S32(2)}},
		}},
		`case s { "a" => 1; s-1 => s-1 }`: &core.Case{Head: global("s"), Clauses: []core.Clause{
			{Pattern: &core.ConstantPattern{Value: core.String("a")}, Body: &core.ConstantTerm{Value: core.S32(1)}},
			{Pattern: &core.BinderPattern{Name: "s"}, Body: local(0)},
		}},
		"let x = String; in [x]": &core.Let{Name: "x", Definition: global("String"), Body: &core.Sequence{Entries: []core.Term{local(0)}}},
	}
	globals := core.DefaultGlobals().
		With("s", core.GlobalEntry{Type: global("String")}).
		With("id", core.GlobalEntry{Type: global("Type")})

	for expected, term := range tests {
		t.Run(expected, func(t *testing.T) {
			ctx := NewContext(globals)
			assert.Equal(t, expected, ctx.FromTerm(term).String())
			assert.Equal(t, 0, ctx.ScopeSize())
		})
	}
}

func TestFromTermUsesScopes(t *testing.T) {
	ctx := NewContext(core.DefaultGlobals())
	ctx.PushScope("x")
	ctx.PushScope("y")
	assert.Equal(t, "f x y", ctx.FromTerm(&core.FunctionElim{
		Head: &core.FunctionElim{Head: global("f"), Arg: local(1)},
		Arg:  local(0),
	}).String())
	assert.Equal(t, "!", ctx.FromTerm(local(5)).String())
}
