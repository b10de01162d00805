package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/electoral-sim/bancas/internal/validation"
)

func newCheckCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <escenario.yaml>",
		Short: "Check a scenario and its referenced files",
		Long: `Check a scenario file before running it.

Performs the following checks:
  1. Schema validation of the scenario file
  2. Schema validation of the referenced structure file
  3. Presence of the structure's composition CSV, when declared
  4. Typed consistency validation (rates in range, beliefs summing to 100,
     alliances competing in known sections)`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCommand(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")

	return cmd
}

// checkReport collects everything the check found for one scenario file.
type checkReport struct {
	Timestamp     string              `json:"timestamp"`
	ScenarioPath  string              `json:"scenario_path"`
	ScenarioErrs  []string            `json:"scenario_errors,omitempty"`
	ReferenceErrs map[string][]string `json:"reference_errors,omitempty"`
	ModelErrs     []string            `json:"model_errors,omitempty"`
	Valid         bool                `json:"valid"`
}

func runCheckCommand(cmd *cobra.Command, scenarioPath, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	scenarioErrs, refErrs, err := validation.ValidateScenarioFile(scenarioPath)
	if err != nil {
		return err
	}

	report := checkReport{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		ScenarioPath:  scenarioPath,
		ScenarioErrs:  scenarioErrs,
		ReferenceErrs: refErrs,
	}

	// Typed loads catch cross-file issues the schemas cannot express, but
	// only once the schema level is clean.
	if len(scenarioErrs) == 0 && len(refErrs) == 0 {
		if _, _, _, loadErr := loadInputs(scenarioPath); loadErr != nil {
			report.ModelErrs = append(report.ModelErrs, loadErr.Error())
		}
	}

	report.Valid = len(report.ScenarioErrs) == 0 && len(report.ReferenceErrs) == 0 && len(report.ModelErrs) == 0

	if format == "json" {
		if err := outputCheckJSON(cmd, report); err != nil {
			return err
		}
	} else {
		displayCheckReport(cmd, report)
	}

	if !report.Valid {
		return &ValidationError{Message: fmt.Sprintf("%s failed validation", scenarioPath)}
	}
	return nil
}

func outputCheckJSON(cmd *cobra.Command, report checkReport) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}

//nolint:errcheck // display function, write errors to stdout are not actionable
func displayCheckReport(cmd *cobra.Command, report checkReport) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "\nScenario Check: %s\n", report.ScenarioPath)
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(report.ScenarioErrs) == 0 {
		fmt.Fprintf(w, "✅ Scenario schema valid\n")
	} else {
		fmt.Fprintf(w, "❌ Scenario schema: %d error(s)\n", len(report.ScenarioErrs))
		for _, e := range report.ScenarioErrs {
			fmt.Fprintf(w, "   ❌  %s\n", e)
		}
	}

	if len(report.ReferenceErrs) == 0 {
		fmt.Fprintf(w, "✅ Referenced files valid\n")
	} else {
		fmt.Fprintf(w, "❌ Referenced files: %d file(s) with errors\n", len(report.ReferenceErrs))
		for file, errs := range report.ReferenceErrs {
			fmt.Fprintf(w, "   %s:\n", file)
			for _, e := range errs {
				fmt.Fprintf(w, "     ❌  %s\n", e)
			}
		}
	}

	if len(report.ModelErrs) > 0 {
		fmt.Fprintf(w, "❌ Consistency: %d error(s)\n", len(report.ModelErrs))
		for _, e := range report.ModelErrs {
			fmt.Fprintf(w, "   ❌  %s\n", e)
		}
	} else if len(report.ScenarioErrs) == 0 && len(report.ReferenceErrs) == 0 {
		fmt.Fprintf(w, "✅ Consistency checks passed\n")
	}

	fmt.Fprintf(w, "\n")
	if report.Valid {
		fmt.Fprintf(w, "✅ Ready to run: bancas simulate %s\n", report.ScenarioPath)
	} else {
		fmt.Fprintf(w, "⚠️  Fix the errors above before running.\n")
	}
}
