package fern

import (
	"context"
	"testing"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/frontend/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll(t *testing.T) {
	checks := []Check{
		{Name: "synth", Term: &core.Global{Name: "true"}},
		{Name: "check", Term: &core.ConstantTerm{Value: core.String("hi")}, Type: &core.Global{Name: "String"}},
		{Name: "mismatch", Term: &core.ConstantTerm{Value: core.String("hi")}, Type: &core.Global{Name: "Bool"}},
		{Name: "unbound", Term: &core.Global{Name: "nope"}},
		{Name: "not a type", Term: &core.Error{}, Type: &core.ConstantTerm{Value: core.U8(1)}},
	}
	errs, err := CheckAll(context.Background(), core.DefaultGlobals(), checks)
	require.NoError(t, err)

	var codes []diag.Code
	for _, d := range errs.Errors() {
		codes = append(codes, d.Code())
		assert.Equal(t, diag.SeverityBug, d.Severity())
	}
	assert.Equal(t, []diag.Code{diag.MismatchedTypesCode, diag.UnboundGlobalCode, diag.MismatchedTypesCode}, codes)
}

func TestCheckAllNothingToCheck(t *testing.T) {
	errs, err := CheckAll(context.Background(), core.DefaultGlobals(), nil)
	require.NoError(t, err)
	assert.False(t, errs.HasError())
}

func TestCheckAllRecoversPanics(t *testing.T) {
	checks := []Check{
		{Name: "fine", Term: &core.Global{Name: "true"}},
		{Name: "broken", Term: &core.Let{Name: "x", Body: &core.Error{}}},
	}
	_, err := CheckAll(context.Background(), core.DefaultGlobals(), checks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking broken")
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckAll(ctx, core.DefaultGlobals(), []Check{{Name: "synth", Term: &core.Global{Name: "true"}}})
	assert.ErrorIs(t, err, context.Canceled)
}
