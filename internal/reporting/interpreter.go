package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/electoral-sim/bancas/internal/ensemble"
	"github.com/electoral-sim/bancas/internal/models"
)

// InterpretMajorityShare returns a plain-language label for the fraction of
// draws (0 to 1) in which an alliance won a majority of the contested seats.
func InterpretMajorityShare(share float64) string {
	pct := share * 100
	switch {
	case pct > 90:
		return fmt.Sprintf("near-certain majority (%.0f%% of draws)", pct)
	case pct >= 60:
		return fmt.Sprintf("likely majority (%.0f%% of draws)", pct)
	case pct >= 40:
		return fmt.Sprintf("toss-up (%.0f%% of draws)", pct)
	case pct > 10:
		return fmt.Sprintf("unlikely majority (%.0f%% of draws)", pct)
	default:
		return fmt.Sprintf("no realistic majority path (%.0f%% of draws)", pct)
	}
}

// InterpretSpread explains how settled an alliance's seat range is. The P5
// to P95 spread is judged against the chamber's contested seats.
func InterpretSpread(s ensemble.Summary, contestedSeats int) string {
	spread := s.P95 - s.P5
	if contestedSeats <= 0 {
		return "No seats contested."
	}
	ratio := spread / float64(contestedSeats)
	switch {
	case ratio <= 0.05:
		return fmt.Sprintf("Very settled: 90%% of draws land between %.0f and %.0f seats.", s.P5, s.P95)
	case ratio <= 0.15:
		return fmt.Sprintf("Fairly settled: 90%% of draws land between %.0f and %.0f seats.", s.P5, s.P95)
	default:
		return fmt.Sprintf("Wide open: draws range from %.0f to %.0f seats; beliefs leave this alliance's result largely undecided.", s.P5, s.P95)
	}
}

// FormatSimulationReport produces a full plain-language interpretation of a
// Monte Carlo outcome, one block per chamber.
func FormatSimulationReport(outcome *models.SimulationOutcome) string {
	var b strings.Builder

	duration := time.Duration(outcome.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("Scenario:  %s\n", outcome.Scenario))
	b.WriteString(fmt.Sprintf("Draws:     %d (seed %d)\n", outcome.Draws, outcome.Seed))
	b.WriteString(fmt.Sprintf("Duration:  %v\n", duration))

	for _, chamber := range []models.ChamberSummary{outcome.Deputies, outcome.Senators} {
		b.WriteString(formatChamberInterpretation(chamber))
	}

	return b.String()
}

func formatChamberInterpretation(cs models.ChamberSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n%s (%d seats contested):\n", strings.ToUpper(string(cs.Chamber)), cs.ContestedSeats))

	if len(cs.Summaries) == 0 {
		b.WriteString("  No alliances competed.\n")
		return b.String()
	}

	ranked := make([]ensemble.Summary, len(cs.Summaries))
	copy(ranked, cs.Summaries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Mean > ranked[j].Mean })

	leader := ranked[0]
	b.WriteString(fmt.Sprintf("  Strongest alliance: %s, averaging %.1f seats.\n", leader.Alliance, leader.Mean))
	if len(ranked) > 1 {
		lead := leader.Mean - ranked[1].Mean
		if lead < 1 {
			b.WriteString(fmt.Sprintf("  The race with %s is effectively tied (%.1f-seat average lead).\n", ranked[1].Alliance, lead))
		} else {
			b.WriteString(fmt.Sprintf("  Lead over %s: %.1f seats on average.\n", ranked[1].Alliance, lead))
		}
	}

	for _, s := range ranked {
		b.WriteString(fmt.Sprintf("  %s: %s\n", s.Alliance, InterpretSpread(s, cs.ContestedSeats)))
		if share, ok := cs.MajorityShare[s.Alliance]; ok {
			b.WriteString(fmt.Sprintf("    Majority odds: %s\n", InterpretMajorityShare(share)))
		}
	}

	return b.String()
}
