package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cottand/fern/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check ./folder|file.yaml",
	Short:        "Elaborate a fern module and report any problems",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var watch bool

func init() {
	addCommonFlags(CheckCmd)
	CheckCmd.Flags().BoolVarP(&watch, "watch", "w", false, "check again whenever the module changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !watch {
		return checkOnce(cmd, args[0], cfg)
	}
	return watchAndCheck(cmd, args[0], cfg)
}

func checkOnce(cmd *cobra.Command, target string, cfg *config.Config) error {
	pkg, err := loadPackage(cmd.Context(), target, cfg)
	if err != nil {
		return err
	}
	if err := writeErrors(cmd.ErrOrStderr(), pkg, cfg.UseColor(isTerminal(cmd.ErrOrStderr()))); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d definitions ok\n", pkg.Name(), len(pkg.Definitions()))
	return nil
}

// debounce is how long to wait for writes to settle before checking again
const debounce = 100 * time.Millisecond

func watchAndCheck(cmd *cobra.Command, target string, cfg *config.Config) error {
	dir, err := targetDir(target)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	report := func() {
		if err := checkOnce(cmd, target, cfg); err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
	report()

	ctx := cmd.Context()
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isModuleEvent(event) {
				continue
			}
			cmdLogger.Debug("module changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdLogger.Warn("watcher error", "err", err)
		case <-timer.C:
			report()
		}
	}
}

func isModuleEvent(event fsnotify.Event) bool {
	ext := filepath.Ext(event.Name)
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
