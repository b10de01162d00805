package apportion

import (
	"errors"
	"fmt"
	"sort"
)

// VoteRow is one alliance's vote count within a single section.
// Seats carries the section's seats-to-allocate and must be identical
// across all rows of the same section.
type VoteRow struct {
	Section  string
	Alliance string
	Votes    int
	Seats    int
}

// SeatRow is the allocation outcome for one alliance in one section.
type SeatRow struct {
	Section  string
	Alliance string
	Seats    int
}

// Precondition violations. These are caller errors, not recoverable states.
var (
	ErrNoRows        = errors.New("apportion: no vote rows for section")
	ErrZeroSeats     = errors.New("apportion: section has zero seats to allocate")
	ErrNegativeVotes = errors.New("apportion: negative vote count")
)

// tally is the per-alliance working state for one section.
type tally struct {
	alliance  string
	votes     int
	whole     int
	remainder int
	seats     int
}

// Allocate distributes a single section's seats among its alliances using
// the highest-quotient / largest-remainder hybrid:
//
//  1. q0 = max(1, totalVotes/seats)
//  2. each alliance gets votes/q0 seats, remainder votes%q0
//  3. leftover seats go to the largest (remainder, votes) among alliances
//     holding at least one whole quotient
//  4. if nobody reached the quotient, halve q until at least one seat lands
//     (Art. 110 rule), trimming any overshoot from the smallest ranks
//  5. any residual difference is settled against the top-voted alliance
//
// The returned rows are sorted by alliance and always sum to the section's
// seats-to-allocate.
func Allocate(rows []VoteRow) ([]SeatRow, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	section := rows[0].Section
	seats := rows[0].Seats
	if seats <= 0 {
		return nil, fmt.Errorf("%w: section %q", ErrZeroSeats, section)
	}

	tallies := make([]*tally, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	totalVotes := 0
	for _, r := range rows {
		if r.Section != section {
			return nil, fmt.Errorf("apportion: mixed sections %q and %q in one allocation", section, r.Section)
		}
		if r.Seats != seats {
			return nil, fmt.Errorf("apportion: inconsistent seat counts %d and %d for section %q", seats, r.Seats, section)
		}
		if r.Votes < 0 {
			return nil, fmt.Errorf("%w: alliance %q in section %q", ErrNegativeVotes, r.Alliance, section)
		}
		if seen[r.Alliance] {
			return nil, fmt.Errorf("apportion: duplicate alliance %q in section %q", r.Alliance, section)
		}
		seen[r.Alliance] = true
		tallies = append(tallies, &tally{alliance: r.Alliance, votes: r.Votes})
		totalVotes += r.Votes
	}

	q := totalVotes / seats
	if q < 1 {
		q = 1
	}
	applyQuotient(tallies, q)

	if missing := seats - assigned(tallies); missing > 0 {
		awardByRemainder(tallies, missing)
	}

	// Art. 110: nobody reached the quotient. Halving cannot seat anyone when
	// the section has no votes at all, so that case falls through to the
	// top-up below.
	if assigned(tallies) == 0 && totalVotes > 0 {
		for assigned(tallies) == 0 {
			q = q / 2
			if q < 1 {
				q = 1
			}
			applyQuotient(tallies, q)

			missing := seats - assigned(tallies)
			if missing > 0 {
				awardByRemainder(tallies, missing)
			} else if missing < 0 {
				stripFromSmallest(tallies, -missing)
			}
		}
	}

	// Settle any residual against the top-voted alliance. A positive gap is
	// added outright; a negative one is trimmed from the smallest ranks so
	// no alliance ever goes below zero.
	if diff := seats - assigned(tallies); diff > 0 {
		topVoted(tallies).seats += diff
	} else if diff < 0 {
		stripFromSmallest(tallies, -diff)
	}

	if got := assigned(tallies); got != seats {
		return nil, fmt.Errorf("apportion: section %q allocated %d seats, want %d", section, got, seats)
	}

	out := make([]SeatRow, len(tallies))
	for i, t := range tallies {
		out[i] = SeatRow{Section: section, Alliance: t.alliance, Seats: t.seats}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alliance < out[j].Alliance })
	return out, nil
}

// AllocateAll groups rows by section, allocates each section independently,
// and returns the concatenated result sorted by section then alliance.
func AllocateAll(rows []VoteRow) ([]SeatRow, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	bySection := make(map[string][]VoteRow)
	var order []string
	for _, r := range rows {
		if _, ok := bySection[r.Section]; !ok {
			order = append(order, r.Section)
		}
		bySection[r.Section] = append(bySection[r.Section], r)
	}
	sort.Strings(order)

	var out []SeatRow
	for _, sec := range order {
		seatRows, err := Allocate(bySection[sec])
		if err != nil {
			return nil, err
		}
		out = append(out, seatRows...)
	}
	return out, nil
}

func applyQuotient(tallies []*tally, q int) {
	for _, t := range tallies {
		t.whole = t.votes / q
		t.remainder = t.votes % q
		t.seats = t.whole
	}
}

func assigned(tallies []*tally) int {
	total := 0
	for _, t := range tallies {
		total += t.seats
	}
	return total
}

// awardByRemainder grants one seat each to the n best-ranked alliances among
// those holding at least one whole quotient. Rank order is remainder desc,
// votes desc, alliance asc. The order is total, so ties are reproducible.
func awardByRemainder(tallies []*tally, n int) {
	elig := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		if t.whole >= 1 {
			elig = append(elig, t)
		}
	}
	sort.Slice(elig, func(i, j int) bool {
		if elig[i].remainder != elig[j].remainder {
			return elig[i].remainder > elig[j].remainder
		}
		if elig[i].votes != elig[j].votes {
			return elig[i].votes > elig[j].votes
		}
		return elig[i].alliance < elig[j].alliance
	})
	if n > len(elig) {
		n = len(elig)
	}
	for i := 0; i < n; i++ {
		elig[i].seats++
	}
}

// stripFromSmallest removes n seats, one at a time, from the worst-ranked
// current holders (remainder asc, votes asc, alliance asc).
func stripFromSmallest(tallies []*tally, n int) {
	for n > 0 {
		holders := make([]*tally, 0, len(tallies))
		for _, t := range tallies {
			if t.seats > 0 {
				holders = append(holders, t)
			}
		}
		if len(holders) == 0 {
			return
		}
		sort.Slice(holders, func(i, j int) bool {
			if holders[i].remainder != holders[j].remainder {
				return holders[i].remainder < holders[j].remainder
			}
			if holders[i].votes != holders[j].votes {
				return holders[i].votes < holders[j].votes
			}
			return holders[i].alliance < holders[j].alliance
		})
		for _, h := range holders {
			if n == 0 {
				break
			}
			h.seats--
			n--
		}
	}
}

func topVoted(tallies []*tally) *tally {
	top := tallies[0]
	for _, t := range tallies[1:] {
		if t.votes > top.votes || (t.votes == top.votes && t.alliance < top.alliance) {
			top = t
		}
	}
	return top
}
