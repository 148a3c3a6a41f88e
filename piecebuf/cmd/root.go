// Package cmd provides the command-line interface for piecebuf.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// NewRootCommand creates the piecebuf command with all its subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "piecebuf",
		Short: "Manage a queue of upcoming pieces and a reserve stack.",
		Long: `piecebuf keeps five upcoming pieces in a circular queue and up ` +
			`to three pieces in a reserve stack. Pieces can be played, ` +
			`reserved, used and swapped from an interactive menu.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadEnvironment,
		RunE:              runSession,
	}

	rootCmd.PersistentFlags().String(flagEnvFile, ".env",
		"File with PIECEBUF_* settings, ignored when missing")
	addSessionFlags(rootCmd)

	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// Execute runs the root command and exits the process, running the
// registered exit handlers.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
