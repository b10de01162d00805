// Package congress loads the sitting composition of both chambers from a
// seat-level CSV and derives the held (non-renewing) seats that carry over
// into the next legislature regardless of the election result.
package congress

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/electoral-sim/bancas/internal/models"
)

// CSV column names of a composition file. Each row is one sitting seat.
const (
	colChamber = "camara"
	colSection = "seccion"
	colParty   = "partido_politico"
	colRenews  = "renueva"
)

// seatCount is chamber → section → alliance → seats.
type seatCount map[models.Chamber]map[string]map[string]int

// Composition holds the sitting seats of both chambers, bucketed by section
// and alliance. Seats whose party is not in any declared alliance are
// bucketed under the party's own normalized name.
type Composition struct {
	current seatCount
	held    seatCount
}

// Load reads a composition CSV and resolves each seat's party to its
// alliance through the structure's party map.
func Load(path string, structure *models.Structure) (*Composition, error) {
	rows, err := loadRows(path)
	if err != nil {
		return nil, err
	}

	partyToAlliance := structure.PartyToAlliance()
	comp := &Composition{current: newSeatCount(), held: newSeatCount()}

	for i, row := range rows {
		chamber := models.ChamberSenators
		if strings.ToLower(strings.TrimSpace(row[colChamber])) == string(models.ChamberDeputies) {
			chamber = models.ChamberDeputies
		}
		section := strings.TrimSpace(row[colSection])
		if section == "" {
			return nil, fmt.Errorf("composition: row %d has no section", i+2)
		}

		party := models.NormalizeParty(row[colParty])
		alliance, ok := partyToAlliance[party]
		if !ok {
			alliance = party
		}

		comp.current.add(chamber, section, alliance)
		if strings.ToUpper(strings.TrimSpace(row[colRenews])) == "NO" {
			comp.held.add(chamber, section, alliance)
		}
	}
	return comp, nil
}

func newSeatCount() seatCount {
	out := make(seatCount, len(models.Chambers))
	for _, chamber := range models.Chambers {
		out[chamber] = make(map[string]map[string]int)
	}
	return out
}

func (sc seatCount) add(chamber models.Chamber, section, alliance string) {
	bySection := sc[chamber]
	if bySection[section] == nil {
		bySection[section] = make(map[string]int)
	}
	bySection[section][alliance]++
}

// Current returns the full sitting composition of a chamber: section →
// alliance → seats.
func (c *Composition) Current(chamber models.Chamber) map[string]map[string]int {
	return c.current[chamber]
}

// Held returns the non-renewing seats of a chamber: section → alliance →
// seats. These carry over unchanged through the election.
func (c *Composition) Held(chamber models.Chamber) map[string]map[string]int {
	return c.held[chamber]
}

// HeldTotals reduces a chamber's held seats to alliance totals.
func (c *Composition) HeldTotals(chamber models.Chamber) map[string]int {
	totals := make(map[string]int)
	for _, byAlliance := range c.held[chamber] {
		for alliance, seats := range byAlliance {
			totals[alliance] += seats
		}
	}
	return totals
}

// AddHeldSeats combines a chamber's held-seat totals with freshly contested
// totals into the projected full-chamber composition.
func AddHeldSeats(held, contested map[string]int) map[string]int {
	out := make(map[string]int, len(held)+len(contested))
	for alliance, seats := range held {
		out[alliance] += seats
	}
	for alliance, seats := range contested {
		out[alliance] += seats
	}
	return out
}

// loadRows reads a CSV with a header row into column-keyed maps and checks
// the composition columns are present.
func loadRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("composition: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("composition: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("composition: %s is empty (no header row)", path)
	}

	headers := records[0]
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[strings.TrimSpace(h)] = true
	}
	for _, required := range []string{colChamber, colSection, colParty, colRenews} {
		if !seen[required] {
			return nil, fmt.Errorf("composition: %s is missing column %q", path, required)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("composition: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[strings.TrimSpace(h)] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
