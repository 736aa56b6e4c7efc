package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var NormalizeCmd = &cobra.Command{
	Use:          "normalize ./folder|file.yaml",
	Short:        "Print the normal form of the term of a fern module, of one of its globals, or of a bare term file",
	RunE:         runNormalize,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	globalName string
	bareTerm   bool
)

func init() {
	addCommonFlags(NormalizeCmd)
	NormalizeCmd.Flags().StringVarP(&globalName, "global", "g", "", "normalize this global instead of the module term")
	NormalizeCmd.Flags().BoolVarP(&bareTerm, "term", "t", false, "the target is a file holding a single term instead of a module")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	load := loadPackage
	if bareTerm {
		if globalName != "" {
			return fmt.Errorf("a bare term has no globals to normalize")
		}
		load = loadTerm
	}
	pkg, err := load(cmd.Context(), args[0], cfg)
	if err != nil {
		return err
	}
	if err := writeErrors(cmd.ErrOrStderr(), pkg, cfg.UseColor(isTerminal(cmd.ErrOrStderr()))); err != nil {
		return err
	}

	if globalName != "" {
		term, typ, ok := pkg.NormalizeGlobal(globalName)
		if !ok {
			return fmt.Errorf("no global named `%s`", globalName)
		}
		if term == nil {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s : %s\n", globalName, typ)
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s : %s = %s\n", globalName, typ, term)
		return nil
	}

	term, typ, ok := pkg.Result()
	if !ok {
		return fmt.Errorf("module %s has no term to normalize", pkg.Name())
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s : %s\n", term, typ)
	return nil
}
