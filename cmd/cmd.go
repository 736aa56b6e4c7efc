package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cottand/fern/fern"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/internal/config"
	"github.com/cottand/fern/internal/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var cmdLogger = log.DefaultLogger.With("section", "cmd")

var (
	configPath string
	logLevel   string
	maxDepth   int
)

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the config file")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level, overrides the config file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "how deeply terms may nest, overrides the config file")
}

// loadConfig reads the config file and applies the flags on top of it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Apply()
	return cfg, nil
}

type dirFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

// targetDir returns the folder of target, a module file or a folder
// holding one
func targetDir(target string) (string, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("could not get absolute path of target: %w", err)
	}
	stat, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("could not stat target: %w", err)
	}
	if stat.IsDir() {
		return target, nil
	}
	return filepath.Dir(target), nil
}

func loadPackage(ctx context.Context, target string, cfg *config.Config) (*fern.Package, error) {
	dir, err := targetDir(target)
	if err != nil {
		return nil, err
	}
	folderFS := os.DirFS(dir).(dirFS)
	pkg, err := fern.LoadPackage(ctx, folderFS, fern.PkgLoadSettings{MaxDepth: cfg.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("could not load package (this is a bug and not a compile error): %w", err)
	}
	cmdLogger.Debug("loaded package", "name", pkg.Name(), "run", pkg.RunID())
	return pkg, nil
}

// loadTerm loads target, a file holding a single bare term
func loadTerm(ctx context.Context, target string, cfg *config.Config) (*fern.Package, error) {
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("could not read term file: %w", err)
	}
	pkg, err := fern.LoadTerm(ctx, filepath.Base(target), data, fern.PkgLoadSettings{MaxDepth: cfg.MaxDepth})
	if err != nil {
		return nil, fmt.Errorf("could not load term (this is a bug and not a compile error): %w", err)
	}
	cmdLogger.Debug("loaded term", "name", pkg.Name(), "run", pkg.RunID())
	return pkg, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// writeErrors prints every diagnostic of pkg, and returns an error if there
// were any
func writeErrors(w io.Writer, pkg *fern.Package, color bool) error {
	errs := pkg.Errors().Errors()
	if len(errs) == 0 {
		return nil
	}
	sb := &strings.Builder{}
	for _, err := range errs {
		line := diag.FormatWithCodeAndSource(err, pkg.FileSet())
		if color {
			line = ansiRed + line + ansiReset
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	_, _ = io.WriteString(w, sb.String())
	return fmt.Errorf("found %d problems in %s", len(errs), pkg.Name())
}
