// Package cli implements the Cobra command for the dctx CLI tool. Unlike
// the teacher's subcommand tree, dctx exposes a single command: the root
// command itself does the work, taking an optional target path and a
// clipboard flag.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dircontxt/dctx/internal/buildinfo"
	"github.com/dircontxt/dctx/internal/clipboard"
	"github.com/dircontxt/dctx/internal/config"
	"github.com/dircontxt/dctx/internal/dctxerr"
	"github.com/dircontxt/dctx/internal/snapshot"
)

var (
	clipboardFlag bool
	versionFlag   bool
	verboseFlag   bool
	quietFlag     bool
)

var rootCmd = &cobra.Command{
	Use:           "dctx [path]",
	Short:         "Snapshot a directory into a versioned, diff-aware archive for LLM consumption.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg, _, err := config.ResolveLoggingConfig(config.GlobalLoggingConfigPath())
		if err != nil {
			logCfg.Level, logCfg.Format = "info", "text"
		}

		level := config.ParseLevel(logCfg.Level)
		switch {
		case verboseFlag:
			level = slog.LevelDebug
		case quietFlag:
			level = slog.LevelError
		}

		config.SetupLogging(level, logCfg.Format)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "dctx %s (%s, built %s, %s/%s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date, buildinfo.OS(), buildinfo.Arch())
			return nil
		}

		target := "."
		if len(args) == 1 {
			target = args[0]
		}

		res, err := snapshot.Run(target, snapshot.Options{Clipboard: clipboardFlag})
		if err != nil {
			return err
		}

		if clipboardFlag {
			if err := clipboard.Write(res.ManifestText); err != nil {
				return dctxerr.Fatal("copying manifest to clipboard", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "manifest copied to clipboard")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s written (%s)\n", res.NewVersion, res.Paths.Archive)
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&clipboardFlag, "clipboard", "c", false, "emit the manifest to the system clipboard and delete the archive")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "print version information and exit")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "only log errors")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return dctxerr.ExitSuccess
}

func extractExitCode(err error) int {
	if err == nil {
		return dctxerr.ExitSuccess
	}
	var dctxErr *dctxerr.Error
	if errors.As(err, &dctxErr) {
		return dctxErr.ExitCode()
	}
	return dctxerr.ExitError
}

// RootCmd returns the root cobra.Command, used by tests.
func RootCmd() *cobra.Command {
	return rootCmd
}
