package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cottand/fern/cmd"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "fern [subcommand]",
	Short:        "fern 🌿\n a small dependently typed language with explicit universe shifting",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.NormalizeCmd)
	rootCmd.AddCommand(cmd.GlobalsCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}
