package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/electoral-sim/bancas/internal/congress"
	"github.com/electoral-sim/bancas/internal/models"
)

// formatDuration formats a duration in a consistent, human-readable way.
// This ensures stable output regardless of Go version changes.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// allianceColumnWidth computes the display width of the alliance column from
// the longest name, clamped to sane bounds.
func allianceColumnWidth(names []string) int {
	const minWidth = 10
	const maxWidth = 30

	width := minWidth
	for _, n := range names {
		if w := runewidth.StringWidth(n); w > width {
			width = w
		}
	}
	if width > maxWidth {
		width = maxWidth
	}
	return width
}

// sortedTotalKeys returns alliance names of a totals map, most seats first,
// name ascending on ties.
func sortedTotalKeys(totals map[string]int) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// FormatAllocationReport renders a deterministic allocation as an aligned
// text report, one block per chamber. held, when non-nil, adds a projected
// full-chamber table combining carried-over seats with the allocation.
func FormatAllocationReport(outcome *models.DeterministicOutcome, held *congress.Composition) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Scenario: %s\n", outcome.Scenario))

	for _, co := range []models.ChamberOutcome{outcome.Deputies, outcome.Senators} {
		b.WriteString(fmt.Sprintf("\n%s\n", strings.ToUpper(string(co.Chamber))))
		b.WriteString(strings.Repeat("─", 46) + "\n")

		if len(co.SeatRows) == 0 {
			b.WriteString("  (no seats contested)\n")
			continue
		}

		names := make([]string, 0, len(co.SeatRows))
		sections := make([]string, 0, len(co.SeatRows))
		for _, r := range co.SeatRows {
			names = append(names, r.Alliance)
			sections = append(sections, r.Section)
		}
		nameWidth := allianceColumnWidth(names)
		sectionWidth := allianceColumnWidth(sections)

		b.WriteString(fmt.Sprintf("%s  %s  %s\n", padRight("Section", sectionWidth), padRight("Alliance", nameWidth), "Seats"))
		for _, r := range co.SeatRows {
			b.WriteString(fmt.Sprintf("%s  %s  %d\n", padRight(r.Section, sectionWidth), padRight(r.Alliance, nameWidth), r.Seats))
		}

		b.WriteString("\nTotals:\n")
		writeTotals(&b, co.Totals, nameWidth)

		if held != nil {
			projected := congress.AddHeldSeats(held.HeldTotals(co.Chamber), co.Totals)
			b.WriteString("\nProjected full chamber (held + allocated):\n")
			writeTotals(&b, projected, nameWidth)
		}
	}

	return b.String()
}

func writeTotals(b *strings.Builder, totals map[string]int, nameWidth int) {
	for _, name := range sortedTotalKeys(totals) {
		b.WriteString(fmt.Sprintf("  %s  %d\n", padRight(name, nameWidth), totals[name]))
	}
}

// FormatSimulationSummary renders a Monte Carlo outcome as a markdown
// report: one statistics table per chamber plus, when held is non-nil, the
// projected full chamber built from the medoid draw.
func FormatSimulationSummary(outcome *models.SimulationOutcome, held *congress.Composition) string {
	var b strings.Builder

	duration := time.Duration(outcome.DurationMs) * time.Millisecond

	b.WriteString("## Simulation Results\n\n")
	b.WriteString(fmt.Sprintf("**Scenario:** %s | **Draws:** %d | **Seed:** %d | **Duration:** %s\n",
		outcome.Scenario, outcome.Draws, outcome.Seed, formatDuration(duration)))

	for _, cs := range []models.ChamberSummary{outcome.Deputies, outcome.Senators} {
		b.WriteString(fmt.Sprintf("\n### %s (%d seats contested)\n\n", cs.Chamber, cs.ContestedSeats))

		if len(cs.Summaries) == 0 {
			b.WriteString("No alliances competed.\n")
			continue
		}

		b.WriteString("| Alliance | Mean | P5 | P95 | Medoid | 95% CI (mean) | Majority |\n")
		b.WriteString("|----------|------|----|-----|--------|---------------|----------|\n")
		for _, s := range cs.Summaries {
			b.WriteString(fmt.Sprintf("| %s | %.1f | %.0f | %.0f | %d | [%.1f, %.1f] | %.0f%% |\n",
				s.Alliance, s.Mean, s.P5, s.P95, s.MedoidSeats,
				s.MeanCI.Lower, s.MeanCI.Upper, cs.MajorityShare[s.Alliance]*100))
		}

		b.WriteString(fmt.Sprintf("\nMedoid draw: #%d\n", cs.MedoidIndex))

		if held != nil {
			projected := congress.AddHeldSeats(held.HeldTotals(cs.Chamber), cs.Totals)
			b.WriteString("\n**Projected full chamber (held + medoid):**\n\n")
			b.WriteString("| Alliance | Seats |\n")
			b.WriteString("|----------|-------|\n")
			for _, name := range sortedTotalKeys(projected) {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", name, projected[name]))
			}
		}
	}

	return b.String()
}
