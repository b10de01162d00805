package simulation

import (
	"time"

	"github.com/electoral-sim/bancas/internal/apportion"
	"github.com/electoral-sim/bancas/internal/ballot"
	"github.com/electoral-sim/bancas/internal/models"
)

// RunDeterministic performs one randomness-free allocation for both chambers.
// Each section's belief vector (its override, or the global fallback) is
// renormalized over the alliances eligible there, materialized into vote
// counts, and apportioned.
func RunDeterministic(structure *models.Structure, scenario *models.Scenario) (*models.DeterministicOutcome, error) {
	eligibility := structure.Eligibility()

	outcome := &models.DeterministicOutcome{
		Scenario:  scenario.Name,
		Timestamp: time.Now(),
	}

	for _, chamber := range models.Chambers {
		rows, err := allocateChamber(structure, scenario, chamber, eligibility)
		if err != nil {
			return nil, err
		}
		result := models.ChamberOutcome{
			Chamber:  chamber,
			SeatRows: rows,
			Totals:   models.GroupSeatTotals(rows),
		}
		if chamber == models.ChamberDeputies {
			outcome.Deputies = result
		} else {
			outcome.Senators = result
		}
	}
	return outcome, nil
}

func allocateChamber(structure *models.Structure, scenario *models.Scenario, chamber models.Chamber, eligibility map[string]map[string]bool) ([]apportion.SeatRow, error) {
	bySection := structure.SeatsByChamber(chamber)

	var votes []apportion.VoteRow
	for _, name := range structure.SectionNames() {
		seats, ok := bySection[name]
		if !ok {
			continue
		}
		beliefs := ballot.Normalize(scenario.Beliefs.ForSection(name), name, eligibility)
		validVotes := ballot.ValidVotes(structure.Sections[name].Electorate, scenario.Turnout, scenario.ValidVotes)
		votes = append(votes, ballot.Materialize(beliefs, name, seats, validVotes)...)
	}
	if len(votes) == 0 {
		return nil, nil
	}
	return apportion.AllocateAll(votes)
}
