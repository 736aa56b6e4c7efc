// Package fern loads a module, elaborates it against the default globals and
// re-validates the result with the core type checker.
package fern

import (
	"context"
	"fmt"
	"go/token"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"testing/fstest"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/frontend/decode"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/elab"
	"github.com/cottand/fern/frontend/surface"
	"github.com/cottand/fern/internal/log"
	"github.com/google/uuid"
)

var packageLogger = log.DefaultLogger.With("section", "package")

// Package is a single module, elaborated into globals
type Package struct {
	name  string
	runID uuid.UUID

	fSet        *token.FileSet
	globals     *core.Globals
	definitions []elab.Definition

	// term is the elaborated `term:` of the module, if it has one
	term     core.Term
	termType core.Term

	errors *diag.Errors
	// validated is set once the core type checker accepted everything
	// elaboration produced
	validated bool
	logger    *slog.Logger
}

type readFileDirFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

type PkgLoadSettings struct {
	// Dir is the path of the folder in the filesystem where the package is located
	// the default is `.`
	Dir string
	// MaxDepth is how deeply terms may nest, elab.DefaultMaxDepth if 0
	MaxDepth int
	// Globals the module is elaborated against, core.DefaultGlobals if nil
	Globals *core.Globals
}

func isModuleFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// LoadPackage returns a Package, where dir is the root folder for that package
//
// Only single-file packages are supported: the first YAML file found is loaded.
// The returned error is only non-nil for I/O problems or bugs, problems in
// the module itself are reported by Package.Errors.
//
// When validating the elaborated module fails, the error is returned together
// with the partially loaded Package so its diagnostics can still be reported.
// Such a Package is incomplete: Result and NormalizeGlobal report !ok for it.
func LoadPackage(ctx context.Context, dir readFileDirFS, config PkgLoadSettings) (*Package, error) {
	dirPath := config.Dir
	if dirPath == "" {
		dirPath = "."
	}
	entries, err := dir.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && isModuleFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no module file found in %s", dirPath)
	}
	if len(files) > 1 {
		packageLogger.Warn("multiple module files found, but we do not support multi-file packages - using the first one", "file", files[0])
	}
	data, err := dir.ReadFile(path.Join(dirPath, files[0]))
	if err != nil {
		return nil, fmt.Errorf("read module file: %w", err)
	}
	filename := files[0]
	return load(ctx, filename, config, func(fSet *token.FileSet) (*surface.Module, *diag.Errors) {
		return decode.Module(fSet, filename, data)
	})
}

// LoadTerm loads a document holding a single term and no items, as the term
// of a module named after filename. The returned error means the same as
// for LoadPackage.
func LoadTerm(ctx context.Context, filename string, data []byte, config PkgLoadSettings) (*Package, error) {
	return load(ctx, filename, config, func(fSet *token.FileSet) (*surface.Module, *diag.Errors) {
		term, errs := decode.Term(fSet, filename, data)
		return &surface.Module{Term: term}, errs
	})
}

// load runs every phase on a single file, decoded by decodeModule. See
// LoadPackage for what a non-nil error means for the returned Package.
func load(ctx context.Context, filename string, config PkgLoadSettings, decodeModule func(*token.FileSet) (*surface.Module, *diag.Errors)) (*Package, error) {
	globals := config.Globals
	if globals == nil {
		globals = core.DefaultGlobals()
	}
	pkg := &Package{
		name:  strings.TrimSuffix(filename, path.Ext(filename)),
		runID: uuid.New(),
		fSet:  token.NewFileSet(),
	}
	pkg.logger = packageLogger.With("run", pkg.runID.String(), "file", filename)

	// decode phase
	module, decodeErrors := decodeModule(pkg.fSet)
	pkg.errors = pkg.errors.Merge(decodeErrors)

	// elaboration phase
	state := elab.New(globals, elab.WithMaxDepth(config.MaxDepth), elab.WithLogger(pkg.logger))
	pkg.definitions = state.ElaborateModule(module.Items)
	pkg.globals = state.Globals()
	if module.Term != nil {
		term, typ := state.SynthType(module.Term)
		pkg.term, pkg.termType = term, state.ReadBack(typ)
	}
	pkg.errors = pkg.errors.With(state.DrainMessages()...)
	pkg.logger.Debug("elaborated module", "definitions", len(pkg.definitions), "errors", pkg.errors)

	// validation phase: only well-formed output is worth re-checking
	if pkg.errors.HasSeverity(diag.SeverityError) {
		return pkg, nil
	}
	checkErrors, err := CheckAll(ctx, pkg.globals, pkg.checks())
	pkg.errors = pkg.errors.Merge(checkErrors)
	if err != nil {
		return pkg, fmt.Errorf("validate elaborated module: %w", err)
	}
	pkg.validated = !pkg.errors.HasError()
	return pkg, nil
}

// checks lists everything elaboration produced, for the core type checker
// to validate
func (p *Package) checks() []Check {
	checks := make([]Check, 0, len(p.definitions)+1)
	for _, definition := range p.definitions {
		checks = append(checks, Check{Name: definition.Name, Term: definition.Term, Type: definition.Type})
	}
	if p.term != nil {
		checks = append(checks, Check{Name: p.name, Term: p.term, Type: p.termType})
	}
	return checks
}

// NewPackageFromBytes does all passes end-to-end for a single file, meant for testing
func NewPackageFromBytes(data []byte, filename string) (*Package, *diag.Errors, error) {
	filesystem := fstest.MapFS{
		filename: &fstest.MapFile{
			Data: data,
		},
	}
	pkg, err := LoadPackage(context.Background(), filesystem, PkgLoadSettings{})
	if err != nil && pkg == nil {
		return nil, nil, err
	}
	return pkg, pkg.errors, err
}

func (p *Package) Name() string {
	return p.name
}

// RunID identifies this load in the logs
func (p *Package) RunID() uuid.UUID {
	return p.runID
}

func (p *Package) FileSet() *token.FileSet {
	return p.fSet
}

func (p *Package) Errors() *diag.Errors {
	return p.errors
}

// Globals returns the default globals together with the ones the module defines
func (p *Package) Globals() *core.Globals {
	return p.globals
}

func (p *Package) Definitions() []elab.Definition {
	return p.definitions
}

// FormatErrors renders every diagnostic with its source position, one per line
func (p *Package) FormatErrors() string {
	sb := &strings.Builder{}
	for i, err := range p.errors.Errors() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(diag.FormatWithCodeAndSource(err, p.fSet))
	}
	return sb.String()
}

// Result returns the normal form of the module term and its type, in surface
// syntax. Nothing is returned when the module has no term or when diagnostics
// of any severity were reported.
func (p *Package) Result() (term, typ surface.Term, ok bool) {
	if p.term == nil || !p.usable() {
		return nil, nil, false
	}
	state := elab.New(p.globals)
	return state.Distill(state.Normalize(p.term)), state.Distill(p.termType), true
}

// NormalizeGlobal returns the normal form of the definition of the global
// name and its type, in surface syntax. term is nil for globals without a
// definition.
func (p *Package) NormalizeGlobal(name string) (term, typ surface.Term, ok bool) {
	if !p.usable() {
		return nil, nil, false
	}
	entry, ok := p.globals.Get(name)
	if !ok {
		return nil, nil, false
	}
	state := elab.New(p.globals)
	if entry.Definition != nil {
		term = state.Distill(state.Normalize(entry.Definition))
	}
	return term, state.Distill(entry.Type), true
}

// usable reports whether the elaborated globals and term can be trusted: bugs
// found by the core type checker count as much as errors in the module
func (p *Package) usable() bool {
	return p.validated && !p.errors.HasError()
}
