package cmd

import (
	"fmt"
	"strings"

	"github.com/cottand/fern/frontend/distill"
	"github.com/spf13/cobra"
)

var GlobalsCmd = &cobra.Command{
	Use:          "globals ./folder|file.yaml",
	Short:        "List the globals in scope of a fern module with their types",
	RunE:         runGlobals,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

func init() {
	addCommonFlags(GlobalsCmd)
}

func runGlobals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pkg, err := loadPackage(cmd.Context(), args[0], cfg)
	if err != nil {
		return err
	}
	if err := writeErrors(cmd.ErrOrStderr(), pkg, cfg.UseColor(isTerminal(cmd.ErrOrStderr()))); err != nil {
		return err
	}

	globals := pkg.Globals()
	sb := &strings.Builder{}
	for name, entry := range globals.All() {
		_, _ = fmt.Fprintf(sb, "%s : %s\n", name, distill.Distill(globals, entry.Type))
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}
