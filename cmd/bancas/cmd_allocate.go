package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/electoral-sim/bancas/internal/congress"
	"github.com/electoral-sim/bancas/internal/models"
	"github.com/electoral-sim/bancas/internal/reporting"
	"github.com/electoral-sim/bancas/internal/simulation"
	"github.com/electoral-sim/bancas/internal/utils"
)

func newAllocateCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "allocate <escenario.yaml>",
		Short: "Run one deterministic seat allocation",
		Long: `Run a single randomness-free allocation from a scenario's belief vectors.

Each section's beliefs are renormalized over the alliances competing there,
turned into vote counts using the scenario's turnout and valid-vote rates,
and apportioned with the highest-quotient method. When the structure
declares a composition file, the report also projects the full chamber by
adding the seats that do not renew this cycle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(cmd, args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output JSON file for the allocation")

	return cmd
}

// loadInputs loads and cross-validates the scenario, its structure, and the
// optional composition, resolving referenced paths against the scenario's
// directory.
func loadInputs(scenarioPath string) (*models.Scenario, *models.Structure, *congress.Composition, error) {
	scenario, err := models.LoadScenario(scenarioPath)
	if err != nil {
		return nil, nil, nil, &ValidationError{Message: fmt.Sprintf("loading scenario: %v", err)}
	}

	baseDir := filepath.Dir(scenarioPath)
	structurePath := utils.ResolvePath(scenario.StructureFile, baseDir)
	structure, err := models.LoadStructure(structurePath)
	if err != nil {
		return nil, nil, nil, &ValidationError{Message: fmt.Sprintf("loading structure: %v", err)}
	}

	var composition *congress.Composition
	if structure.CompositionFile != "" {
		compositionPath := utils.ResolvePath(structure.CompositionFile, filepath.Dir(structurePath))
		composition, err = congress.Load(compositionPath, structure)
		if err != nil {
			return nil, nil, nil, &ValidationError{Message: fmt.Sprintf("loading composition: %v", err)}
		}
	}

	return scenario, structure, composition, nil
}

func runAllocate(cmd *cobra.Command, scenarioPath, outputPath string) error {
	scenario, structure, composition, err := loadInputs(scenarioPath)
	if err != nil {
		return err
	}

	outcome, err := simulation.RunDeterministic(structure, scenario)
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatAllocationReport(outcome, composition)) //nolint:errcheck

	if outputPath != "" {
		if err := reporting.WriteOutcomeJSON(outcome, outputPath); err != nil {
			return fmt.Errorf("saving output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", outputPath) //nolint:errcheck
	}

	return nil
}
