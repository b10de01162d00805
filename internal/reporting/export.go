package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/electoral-sim/bancas/internal/models"
)

// WriteOutcomeJSON writes an outcome (deterministic or simulated) as
// indented JSON, for downstream tooling.
func WriteOutcomeJSON(outcome any, path string) error {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling outcome: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// summaryHeader is the column layout of a summary CSV export.
var summaryHeader = []string{"camara", "alianza", "media", "p5", "p95", "medoide", "ic_inf", "ic_sup", "mayoria"}

// WriteSummaryCSV writes the per-alliance statistics of both chambers as one
// flat CSV, one row per (chamber, alliance).
func WriteSummaryCSV(outcome *models.SimulationOutcome, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary csv: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}

	for _, cs := range []models.ChamberSummary{outcome.Deputies, outcome.Senators} {
		for _, s := range cs.Summaries {
			record := []string{
				string(cs.Chamber),
				s.Alliance,
				strconv.FormatFloat(s.Mean, 'f', 2, 64),
				strconv.FormatFloat(s.P5, 'f', 1, 64),
				strconv.FormatFloat(s.P95, 'f', 1, 64),
				strconv.Itoa(s.MedoidSeats),
				strconv.FormatFloat(s.MeanCI.Lower, 'f', 2, 64),
				strconv.FormatFloat(s.MeanCI.Upper, 'f', 2, 64),
				strconv.FormatFloat(cs.MajorityShare[s.Alliance], 'f', 3, 64),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
