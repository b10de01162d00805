package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/electoral-sim/bancas/internal/reporting"
	"github.com/electoral-sim/bancas/internal/simulation"
)

func newSimulateCommand() *cobra.Command {
	var (
		draws      int
		seed       int64
		workers    int
		outputPath string
		csvPath    string
		interpret  bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <escenario.yaml>",
		Short: "Run a Monte Carlo election simulation",
		Long: `Run N randomized elections from a scenario's belief vectors.

Every draw samples vote shares from a Dirichlet distribution concentrated
around the scenario's global beliefs, runs the full apportionment for both
chambers, and feeds the seat totals into an ensemble. The report shows
per-alliance means, 5th/95th percentiles, a bootstrap confidence interval
on the mean, majority odds, and the medoid (most representative) draw.

Scenario simulation parameters (draws, alpha_scale, phi, seed, workers) can
be overridden from the command line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, args[0], simulateFlags{
				draws:      draws,
				seed:       seed,
				seedSet:    cmd.Flags().Changed("seed"),
				workers:    workers,
				outputPath: outputPath,
				csvPath:    csvPath,
				interpret:  interpret,
				verbose:    verbose,
			})
		},
	}

	cmd.Flags().IntVar(&draws, "draws", 0, "Number of draws (overrides scenario)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (overrides scenario; negative for time-derived)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers (overrides scenario)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for the full outcome")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Output CSV file for per-alliance statistics")
	cmd.Flags().BoolVar(&interpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report draw progress")

	return cmd
}

type simulateFlags struct {
	draws      int
	seed       int64
	seedSet    bool
	workers    int
	outputPath string
	csvPath    string
	interpret  bool
	verbose    bool
}

func runSimulate(cmd *cobra.Command, scenarioPath string, flags simulateFlags) error {
	scenario, structure, composition, err := loadInputs(scenarioPath)
	if err != nil {
		return err
	}

	params, err := scenario.SimulationParams()
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	// CLI flags override scenario parameters.
	if flags.draws > 0 {
		params.Draws = flags.draws
	}
	if flags.workers > 0 {
		params.Workers = flags.workers
	}
	seed := int64(-1) // time-derived unless pinned
	if params.Seed != nil {
		seed = *params.Seed
	}
	if flags.seedSet {
		seed = flags.seed
	}

	engine, err := simulation.NewEngine(structure, scenario, params)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	opts := simulation.RunOptions{
		Draws:   params.Draws,
		Seed:    seed,
		Workers: params.Workers,
	}
	if flags.verbose {
		out := cmd.OutOrStdout()
		step := params.Draws / 10
		if step == 0 {
			step = 1
		}
		opts.OnProgress = func(done, total int) {
			if done%step == 0 || done == total {
				fmt.Fprintf(out, "draw %d/%d\n", done, total) //nolint:errcheck
			}
		}
	}

	outcome, err := engine.Run(cmd.Context(), scenario.Name, opts)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatSimulationSummary(outcome, composition)) //nolint:errcheck

	if flags.interpret {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s", reporting.FormatSimulationReport(outcome)) //nolint:errcheck
	}

	if flags.outputPath != "" {
		if err := reporting.WriteOutcomeJSON(outcome, flags.outputPath); err != nil {
			return fmt.Errorf("saving output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", flags.outputPath) //nolint:errcheck
	}
	if flags.csvPath != "" {
		if err := reporting.WriteSummaryCSV(outcome, flags.csvPath); err != nil {
			return fmt.Errorf("saving csv: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Statistics saved to: %s\n", flags.csvPath) //nolint:errcheck
	}

	return nil
}
