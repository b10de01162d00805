// Package ballot turns belief vectors (intended vote-share percentages)
// into concrete per-alliance vote counts for one section.
package ballot

import (
	"math"

	"github.com/electoral-sim/bancas/internal/apportion"
)

// PlaceholderAlliance is emitted when no eligible alliance remains for a
// section, so the apportionment engine still receives a non-empty row set.
// Seats landing on it are reported as unassigned.
const PlaceholderAlliance = "(sin asignar)"

// Normalize renormalizes a belief vector to sum to 100 among the alliances
// eligible in the given section, dropping ineligible ones first. eligibility
// maps alliance → set of sections where it competes; an alliance missing
// from the map competes nowhere. Returns an empty map when no eligible
// alliance has positive share.
func Normalize(beliefs map[string]float64, section string, eligibility map[string]map[string]bool) map[string]float64 {
	eligible := make(map[string]float64)
	total := 0.0
	for alliance, pct := range beliefs {
		sections, ok := eligibility[alliance]
		if !ok || !sections[section] {
			continue
		}
		eligible[alliance] = pct
		total += pct
	}
	if total == 0 {
		return map[string]float64{}
	}
	out := make(map[string]float64, len(eligible))
	for alliance, pct := range eligible {
		out[alliance] = 100 * pct / total
	}
	return out
}

// ValidVotes computes the number of valid ballots cast in a section.
func ValidVotes(electorate int, turnoutRate, validVoteRate float64) int {
	return int(math.Floor(float64(electorate) * turnoutRate * validVoteRate))
}

// Materialize converts a normalized belief vector into vote rows for one
// section. Each alliance receives floor(validVotes*pct/100) votes; the
// truncation slippage is accepted, not redistributed. An empty vector
// yields a single zero-vote placeholder row so the apportionment engine's
// non-empty precondition holds.
func Materialize(normalized map[string]float64, section string, seats, validVotes int) []apportion.VoteRow {
	if len(normalized) == 0 {
		return []apportion.VoteRow{{
			Section:  section,
			Alliance: PlaceholderAlliance,
			Votes:    0,
			Seats:    seats,
		}}
	}
	rows := make([]apportion.VoteRow, 0, len(normalized))
	for alliance, pct := range normalized {
		rows = append(rows, apportion.VoteRow{
			Section:  section,
			Alliance: alliance,
			Votes:    int(math.Floor(float64(validVotes) * pct / 100)),
			Seats:    seats,
		})
	}
	return rows
}

// FromProportions is the simulation-mode counterpart of Materialize: it
// scales a drawn proportion vector (entries in [0,1], ordered to match
// alliances) by the section's valid votes.
func FromProportions(alliances []string, proportions []float64, section string, seats, validVotes int) []apportion.VoteRow {
	if len(alliances) == 0 {
		return []apportion.VoteRow{{
			Section:  section,
			Alliance: PlaceholderAlliance,
			Votes:    0,
			Seats:    seats,
		}}
	}
	rows := make([]apportion.VoteRow, len(alliances))
	for i, alliance := range alliances {
		rows[i] = apportion.VoteRow{
			Section:  section,
			Alliance: alliance,
			Votes:    int(math.Floor(float64(validVotes) * proportions[i])),
			Seats:    seats,
		}
	}
	return rows
}
