// Package simulation draws randomized vote shares and runs the vote
// materializer and apportionment engine across all sections of both
// chambers, either once (deterministic mode) or N times into an ensemble.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/electoral-sim/bancas/internal/apportion"
	"github.com/electoral-sim/bancas/internal/ballot"
	"github.com/electoral-sim/bancas/internal/ensemble"
	"github.com/electoral-sim/bancas/internal/models"
)

// minConcentration keeps Dirichlet concentration parameters strictly
// positive; zero-share alliances would otherwise make the sampler reject.
const minConcentration = 1e-3

// sectionSeats is one section's contested seats and valid-vote count,
// precomputed per chamber in sorted section order so the random stream is
// consumed identically on every draw.
type sectionSeats struct {
	name       string
	seats      int
	validVotes int
}

// Draw is one self-consistent simulated outcome: both chambers' seat rows
// produced from a single randomized belief assignment.
type Draw struct {
	Deputies []apportion.SeatRow
	Senators []apportion.SeatRow
}

// Engine runs Dirichlet-randomized elections over a fixed structure and
// scenario. It holds no mutable state between draws; every draw consumes
// only its injected random source.
type Engine struct {
	alliances []string
	alpha     []float64
	phi       *float64
	deputies  []sectionSeats
	senators  []sectionSeats
}

// NewEngine prepares a simulation engine. Concentration parameters derive
// from the scenario's global beliefs: alpha_i = pct_i * alphaScale / 100,
// floored at a small positive value. Invalid parameters are rejected here,
// before any draw runs.
func NewEngine(structure *models.Structure, scenario *models.Scenario, params *models.SimulationParams) (*Engine, error) {
	if params.AlphaScale <= 0 {
		return nil, fmt.Errorf("simulation: alpha_scale must be positive, got %v", params.AlphaScale)
	}
	if params.Phi != nil && *params.Phi <= 0 {
		return nil, fmt.Errorf("simulation: phi must be positive, got %v", *params.Phi)
	}
	if len(scenario.Beliefs.Global) == 0 {
		return nil, fmt.Errorf("simulation: scenario has no global belief vector")
	}

	alliances := make([]string, 0, len(scenario.Beliefs.Global))
	for alliance := range scenario.Beliefs.Global {
		alliances = append(alliances, alliance)
	}
	sort.Strings(alliances)

	alpha := make([]float64, len(alliances))
	for i, alliance := range alliances {
		a := scenario.Beliefs.Global[alliance] * params.AlphaScale / 100
		if a < minConcentration {
			a = minConcentration
		}
		alpha[i] = a
	}

	return &Engine{
		alliances: alliances,
		alpha:     alpha,
		phi:       params.Phi,
		deputies:  sectionList(structure, scenario, models.ChamberDeputies),
		senators:  sectionList(structure, scenario, models.ChamberSenators),
	}, nil
}

func sectionList(structure *models.Structure, scenario *models.Scenario, chamber models.Chamber) []sectionSeats {
	bySection := structure.SeatsByChamber(chamber)
	names := make([]string, 0, len(bySection))
	for name := range bySection {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]sectionSeats, len(names))
	for i, name := range names {
		out[i] = sectionSeats{
			name:       name,
			seats:      bySection[name],
			validVotes: ballot.ValidVotes(structure.Sections[name].Electorate, scenario.Turnout, scenario.ValidVotes),
		}
	}
	return out
}

// Alliances returns the engine's alliance column order.
func (e *Engine) Alliances() []string {
	out := make([]string, len(e.alliances))
	copy(out, e.alliances)
	return out
}

// newSampler returns a per-section proportion sampler bound to src. In flat
// mode every section draws from Dirichlet(alpha) independently. In
// hierarchical mode one province-level vector P is drawn per call, and each
// section then draws from Dirichlet(P*phi): large phi pulls sections toward
// the shared province vector, small phi lets them disperse around it.
func (e *Engine) newSampler(src rand.Source) func() []float64 {
	if e.phi == nil {
		dir := distmv.NewDirichlet(e.alpha, src)
		return func() []float64 { return dir.Rand(nil) }
	}

	province := distmv.NewDirichlet(e.alpha, src).Rand(nil)
	scaled := make([]float64, len(province))
	for i, p := range province {
		v := p * *e.phi
		if v <= 0 {
			v = minConcentration
		}
		scaled[i] = v
	}
	dir := distmv.NewDirichlet(scaled, src)
	return func() []float64 { return dir.Rand(nil) }
}

// DrawOnce produces one self-consistent simulated outcome for both chambers.
func (e *Engine) DrawOnce(src rand.Source) (*Draw, error) {
	sample := e.newSampler(src)

	deputies, err := e.drawChamber(sample, e.deputies)
	if err != nil {
		return nil, err
	}
	senators, err := e.drawChamber(sample, e.senators)
	if err != nil {
		return nil, err
	}
	return &Draw{Deputies: deputies, Senators: senators}, nil
}

func (e *Engine) drawChamber(sample func() []float64, sections []sectionSeats) ([]apportion.SeatRow, error) {
	var rows []apportion.VoteRow
	for _, sec := range sections {
		proportions := sample()
		rows = append(rows, ballot.FromProportions(e.alliances, proportions, sec.name, sec.seats, sec.validVotes)...)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return apportion.AllocateAll(rows)
}

// RunOptions configures a Monte Carlo run.
type RunOptions struct {
	Draws   int
	Seed    int64 // negative means time-derived
	Workers int
	// OnProgress, when set, is invoked after each completed draw. It is
	// serialized across workers.
	OnProgress func(done, total int)
}

// Run executes N independent draws (optionally across a bounded worker
// pool), joins them into per-chamber ensembles, and reduces each to summary
// statistics plus the medoid draw. A fixed seed yields an identical outcome
// regardless of worker count: each draw derives its own PCG stream from
// (seed, draw index), and draws are accumulated in index order after the
// join point.
func (e *Engine) Run(ctx context.Context, scenarioName string, opts RunOptions) (*models.SimulationOutcome, error) {
	if opts.Draws < 1 {
		return nil, fmt.Errorf("simulation: draws must be at least 1, got %d", opts.Draws)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	seed := opts.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	draws := make([]*Draw, opts.Draws)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var progressMu sync.Mutex
	done := 0

	for i := range draws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := rand.NewPCG(uint64(seed), uint64(i))
			draw, err := e.DrawOnce(src)
			if err != nil {
				return fmt.Errorf("draw %d: %w", i, err)
			}
			draws[i] = draw

			if opts.OnProgress != nil {
				progressMu.Lock()
				done++
				opts.OnProgress(done, opts.Draws)
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deputies, err := e.summarizeChamber(models.ChamberDeputies, draws, seed)
	if err != nil {
		return nil, err
	}
	senators, err := e.summarizeChamber(models.ChamberSenators, draws, seed)
	if err != nil {
		return nil, err
	}

	return &models.SimulationOutcome{
		Scenario:   scenarioName,
		Timestamp:  start,
		Draws:      opts.Draws,
		Seed:       seed,
		DurationMs: time.Since(start).Milliseconds(),
		Deputies:   *deputies,
		Senators:   *senators,
	}, nil
}

func (e *Engine) summarizeChamber(chamber models.Chamber, draws []*Draw, seed int64) (*models.ChamberSummary, error) {
	sections := e.deputies
	if chamber == models.ChamberSenators {
		sections = e.senators
	}
	contested := 0
	for _, sec := range sections {
		contested += sec.seats
	}

	ens := ensemble.New(e.alliances)
	for _, d := range draws {
		rows := d.Deputies
		if chamber == models.ChamberSenators {
			rows = d.Senators
		}
		ens.Append(models.GroupSeatTotals(rows))
	}

	summaries, medoidIdx, err := ens.Summarize(seed)
	if err != nil {
		return nil, err
	}

	majority := contested/2 + 1
	majorityShare := make(map[string]float64, len(e.alliances))
	for _, alliance := range e.alliances {
		share, err := ens.ShareAtLeast(alliance, majority)
		if err != nil {
			return nil, err
		}
		majorityShare[alliance] = share
	}

	medoidRows := draws[medoidIdx].Deputies
	if chamber == models.ChamberSenators {
		medoidRows = draws[medoidIdx].Senators
	}

	return &models.ChamberSummary{
		Chamber:        chamber,
		Summaries:      summaries,
		MedoidIndex:    medoidIdx,
		MedoidRows:     medoidRows,
		Totals:         models.GroupSeatTotals(medoidRows),
		MajorityShare:  majorityShare,
		ContestedSeats: contested,
	}, nil
}
