package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/electoral-sim/bancas/internal/wizard"
)

func newNewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <escenario.yaml>",
		Short: "Create a new scenario file interactively",
		Long: `Create a new scenario file through an interactive wizard.

The wizard collects the scenario name, the structure file it applies to,
turnout assumptions, the global belief vector, and the simulation block.
On a terminal it runs as a form; with piped input it reads one answer per
line, so scenarios can also be scripted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNewCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runNewCommand(cmd *cobra.Command, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	spec, err := wizard.RunScenarioWizard(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	content, err := wizard.GenerateScenarioYAML(spec)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nCreated %s\n", path)                           //nolint:errcheck
	fmt.Fprintf(w, "Validate it with: bancas check %s\n", path)      //nolint:errcheck
	fmt.Fprintf(w, "Then simulate with: bancas simulate %s\n", path) //nolint:errcheck

	return nil
}
