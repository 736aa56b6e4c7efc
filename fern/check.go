package fern

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/typing"
	"github.com/cottand/fern/frontend/diag"
	"golang.org/x/sync/errgroup"
)

// Check is a core term to validate. Type is nil when the type of Term
// should be synthesized instead.
type Check struct {
	Name string
	Term core.Term
	Type core.Term
}

// CheckAll validates checks concurrently with the core type checker. Each
// check gets its own typing.State, and globals is only read.
//
// Diagnostics are returned in the order of checks. The error is non-nil when
// ctx is cancelled or when a check panicked, which is a bug in the checker.
func CheckAll(ctx context.Context, globals *core.Globals, checks []Check) (*diag.Errors, error) {
	results := make([][]diag.Diagnostic, len(checks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, check := range checks {
		g.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("checking %s: %v", check.Name, r)
				}
			}()
			results[i] = checkOne(globals, check)
			return nil
		})
	}
	err := g.Wait()

	var errs *diag.Errors
	for i, result := range results {
		if len(result) > 0 {
			packageLogger.Debug("validation failed", "name", checks[i].Name, "diagnostics", len(result))
			errs = errs.With(result...)
		}
	}
	return errs, err
}

func checkOne(globals *core.Globals, check Check) []diag.Diagnostic {
	state := typing.New(globals)
	if check.Type == nil {
		state.SynthType(check.Term)
		return state.DrainMessages()
	}
	if _, ok := state.IsType(check.Type); ok {
		state.CheckType(check.Term, state.Eval(check.Type))
	}
	return state.DrainMessages()
}
