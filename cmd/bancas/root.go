package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bancas",
		Short: "Bancas - legislative seat allocation and election simulation",
		Long: `Bancas allocates legislative seats from vote counts using the
highest-quotient method and simulates election outcomes under uncertain
vote-share beliefs.

A structure file describes the jurisdiction (sections, seats, alliances);
a scenario file supplies turnout assumptions and belief vectors. From those
it can run a single deterministic allocation or a Monte Carlo ensemble.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newAllocateCommand())
	cmd.AddCommand(newSimulateCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newNewCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
