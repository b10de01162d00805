// Package ensemble accumulates per-draw seat totals from a simulation run
// and reduces them to per-alliance summary statistics plus a representative
// (medoid) draw.
package ensemble

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/electoral-sim/bancas/internal/statistics"
)

// ErrEmpty is returned when a reduction is requested over zero draws.
var ErrEmpty = errors.New("ensemble: no draws")

// Ensemble is an ordered collection of per-alliance seat-total vectors, one
// per draw. The alliance column order is fixed at construction so runs are
// reproducible regardless of map iteration order. Accumulation is
// single-writer: the simulation runner appends completed draws in draw order
// after its join point.
type Ensemble struct {
	alliances []string
	index     map[string]int
	draws     [][]float64
}

// New creates an empty ensemble whose columns are the given alliances in
// sorted order.
func New(alliances []string) *Ensemble {
	cols := make([]string, len(alliances))
	copy(cols, alliances)
	sort.Strings(cols)

	index := make(map[string]int, len(cols))
	for i, a := range cols {
		index[a] = i
	}
	return &Ensemble{alliances: cols, index: index}
}

// Alliances returns the column order.
func (e *Ensemble) Alliances() []string {
	out := make([]string, len(e.alliances))
	copy(out, e.alliances)
	return out
}

// Len returns the number of accumulated draws.
func (e *Ensemble) Len() int { return len(e.draws) }

// Append adds one draw's grouped seat totals. Alliances not present in the
// column set (such as unassigned placeholder seats) are dropped.
func (e *Ensemble) Append(seatTotals map[string]int) {
	vec := make([]float64, len(e.alliances))
	for alliance, seats := range seatTotals {
		if i, ok := e.index[alliance]; ok {
			vec[i] = float64(seats)
		}
	}
	e.draws = append(e.draws, vec)
}

// Vector returns the seat-total vector of draw i.
func (e *Ensemble) Vector(i int) []float64 {
	out := make([]float64, len(e.draws[i]))
	copy(out, e.draws[i])
	return out
}

// Medoid returns the index and vector of the draw minimizing the sum of
// Manhattan distances to every other draw. A medoid is used instead of the
// coordinate-wise mean so the representative outcome is an actually
// simulated, internally consistent scenario with integer seat counts.
// Ties break toward the earliest draw.
func (e *Ensemble) Medoid() (int, []float64, error) {
	if len(e.draws) == 0 {
		return 0, nil, ErrEmpty
	}

	best := 0
	bestSum := totalDistance(e.draws, 0)
	for i := 1; i < len(e.draws); i++ {
		if sum := totalDistance(e.draws, i); sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return best, e.Vector(best), nil
}

func totalDistance(draws [][]float64, i int) float64 {
	sum := 0.0
	for j := range draws {
		if j == i {
			continue
		}
		sum += floats.Distance(draws[i], draws[j], 1)
	}
	return sum
}

// Summary holds per-alliance descriptive statistics over the ensemble.
type Summary struct {
	Alliance    string                        `json:"alliance"`
	Mean        float64                       `json:"mean"`
	P5          float64                       `json:"p5"`
	P95         float64                       `json:"p95"`
	MedoidSeats int                           `json:"medoid_seats"`
	MeanCI      statistics.ConfidenceInterval `json:"mean_ci"`
}

// Summarize reduces the ensemble to one Summary per alliance (mean, 5th and
// 95th percentile, medoid seat count, bootstrap CI on the mean) and returns
// the medoid draw index alongside. Percentiles linearly interpolate between
// sample values rather than stepping, so small ensembles report fractional
// seat bounds. bootstrapSeed seeds the resampler; pass a negative value for
// a non-deterministic one.
func (e *Ensemble) Summarize(bootstrapSeed int64) ([]Summary, int, error) {
	medoidIdx, medoidVec, err := e.Medoid()
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]Summary, len(e.alliances))
	column := make([]float64, len(e.draws))
	for i, alliance := range e.alliances {
		for j, draw := range e.draws {
			column[j] = draw[i]
		}
		sorted := make([]float64, len(column))
		copy(sorted, column)
		sort.Float64s(sorted)

		seed := bootstrapSeed
		if seed >= 0 {
			// Decorrelate per-alliance resampling streams.
			seed += int64(i)
		}

		summaries[i] = Summary{
			Alliance:    alliance,
			Mean:        stat.Mean(column, nil),
			P5:          stat.Quantile(0.05, stat.LinInterp, sorted, nil),
			P95:         stat.Quantile(0.95, stat.LinInterp, sorted, nil),
			MedoidSeats: int(medoidVec[i]),
			MeanCI:      statistics.BootstrapCIWithSeed(column, 0.95, seed),
		}
	}
	return summaries, medoidIdx, nil
}

// ShareAtLeast returns the fraction of draws in which the alliance reached
// at least the given seat count. Unknown alliances yield an error.
func (e *Ensemble) ShareAtLeast(alliance string, seats int) (float64, error) {
	i, ok := e.index[alliance]
	if !ok {
		return 0, fmt.Errorf("ensemble: unknown alliance %q", alliance)
	}
	if len(e.draws) == 0 {
		return 0, ErrEmpty
	}
	hits := 0
	for _, draw := range e.draws {
		if draw[i] >= float64(seats) {
			hits++
		}
	}
	return float64(hits) / float64(len(e.draws)), nil
}
