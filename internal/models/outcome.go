package models

import (
	"time"

	"github.com/electoral-sim/bancas/internal/apportion"
	"github.com/electoral-sim/bancas/internal/ensemble"
)

// ChamberOutcome is one chamber's deterministic allocation: the per-section
// seat rows and the totals grouped by alliance.
type ChamberOutcome struct {
	Chamber  Chamber             `json:"chamber"`
	SeatRows []apportion.SeatRow `json:"seat_rows"`
	Totals   map[string]int      `json:"totals"`
}

// DeterministicOutcome is the result of a one-shot, randomness-free run.
type DeterministicOutcome struct {
	Scenario  string         `json:"scenario"`
	Timestamp time.Time      `json:"timestamp"`
	Deputies  ChamberOutcome `json:"diputados"`
	Senators  ChamberOutcome `json:"senadores"`
}

// ChamberSummary is one chamber's Monte Carlo reduction: per-alliance
// statistics over the ensemble plus the medoid draw's raw seat rows.
type ChamberSummary struct {
	Chamber     Chamber             `json:"chamber"`
	Summaries   []ensemble.Summary  `json:"summaries"`
	MedoidIndex int                 `json:"medoid_index"`
	MedoidRows  []apportion.SeatRow `json:"medoid_rows"`
	Totals      map[string]int      `json:"medoid_totals"`
	// MajorityShare is, per alliance, the fraction of draws in which it won
	// a strict majority of the chamber's contested seats.
	MajorityShare map[string]float64 `json:"majority_share"`
	// ContestedSeats is the number of seats in play this cycle.
	ContestedSeats int `json:"contested_seats"`
}

// SimulationOutcome is the result of an N-draw Monte Carlo run.
type SimulationOutcome struct {
	Scenario   string         `json:"scenario"`
	Timestamp  time.Time      `json:"timestamp"`
	Draws      int            `json:"draws"`
	Seed       int64          `json:"seed"`
	DurationMs int64          `json:"duration_ms"`
	Deputies   ChamberSummary `json:"diputados"`
	Senators   ChamberSummary `json:"senadores"`
}

// GroupSeatTotals reduces per-section seat rows to alliance totals.
func GroupSeatTotals(rows []apportion.SeatRow) map[string]int {
	totals := make(map[string]int)
	for _, r := range rows {
		totals[r.Alliance] += r.Seats
	}
	return totals
}
