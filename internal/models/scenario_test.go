package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electoral-sim/bancas/internal/apportion"
)

func validScenario() *Scenario {
	return &Scenario{
		Name:          "base",
		StructureFile: "estructura.yaml",
		Turnout:       0.65,
		ValidVotes:    0.94,
		Beliefs: Beliefs{
			Global: map[string]float64{"A": 40, "B": 35, "C": 25},
		},
	}
}

func TestScenarioValidate(t *testing.T) {
	require.NoError(t, validScenario().Validate())

	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"missing_structure", func(s *Scenario) { s.StructureFile = "" }},
		{"zero_turnout", func(s *Scenario) { s.Turnout = 0 }},
		{"turnout_above_one", func(s *Scenario) { s.Turnout = 1.5 }},
		{"zero_valid_votes", func(s *Scenario) { s.ValidVotes = 0 }},
		{"no_beliefs", func(s *Scenario) { s.Beliefs.Global = nil }},
		{"negative_belief", func(s *Scenario) { s.Beliefs.Global["A"] = -1 }},
		{"beliefs_sum_off", func(s *Scenario) { s.Beliefs.Global["A"] = 50 }},
		{"negative_section_belief", func(s *Scenario) {
			s.Beliefs.Sections = map[string]map[string]float64{"Primera": {"A": -5}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestBeliefsForSectionFallsBackToGlobal(t *testing.T) {
	b := Beliefs{
		Global:   map[string]float64{"A": 60, "B": 40},
		Sections: map[string]map[string]float64{"Tercera": {"A": 30, "B": 70}},
	}

	assert.Equal(t, map[string]float64{"A": 30, "B": 70}, b.ForSection("Tercera"))
	assert.Equal(t, map[string]float64{"A": 60, "B": 40}, b.ForSection("Primera"))
}

func TestSimulationParamsDefaults(t *testing.T) {
	sc := validScenario()
	params, err := sc.SimulationParams()
	require.NoError(t, err)

	assert.Equal(t, DefaultDraws, params.Draws)
	assert.Equal(t, DefaultAlphaScale, params.AlphaScale)
	assert.Equal(t, DefaultWorkers, params.Workers)
	assert.Nil(t, params.Phi)
	assert.Nil(t, params.Seed)
}

func TestSimulationParamsDecode(t *testing.T) {
	sc := validScenario()
	sc.Simulation = map[string]any{
		"draws":       500,
		"alpha_scale": 30,
		"phi":         50,
		"seed":        42,
		"workers":     4,
	}

	params, err := sc.SimulationParams()
	require.NoError(t, err)
	assert.Equal(t, 500, params.Draws)
	assert.Equal(t, 30.0, params.AlphaScale)
	require.NotNil(t, params.Phi)
	assert.Equal(t, 50.0, *params.Phi)
	require.NotNil(t, params.Seed)
	assert.Equal(t, int64(42), *params.Seed)
	assert.Equal(t, 4, params.Workers)
}

func TestSimulationParamsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		block map[string]any
	}{
		{"zero_draws", map[string]any{"draws": 0}},
		{"negative_alpha_scale", map[string]any{"alpha_scale": -1}},
		{"zero_phi", map[string]any{"phi": 0}},
		{"zero_workers", map[string]any{"workers": 0}},
		{"unknown_key", map[string]any{"drws": 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := validScenario()
			sc.Simulation = tt.block
			_, err := sc.SimulationParams()
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "escenario.yaml")
	content := `
name: base 2025
structure: estructura.yaml
turnout: 0.65
valid_votes: 0.94
beliefs:
  global:
    Alianza A: 40
    Frente B: 35
    Tercera Via: 25
  sections:
    Tercera:
      Alianza A: 30
      Frente B: 45
      Tercera Via: 25
simulation:
  draws: 200
  seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "base 2025", sc.Name)
	assert.Equal(t, 0.65, sc.Turnout)

	params, err := sc.SimulationParams()
	require.NoError(t, err)
	assert.Equal(t, 200, params.Draws)
	require.NotNil(t, params.Seed)
	assert.Equal(t, int64(7), *params.Seed)
}

func TestGroupSeatTotals(t *testing.T) {
	rows := []apportion.SeatRow{
		{Section: "Primera", Alliance: "A", Seats: 3},
		{Section: "Primera", Alliance: "B", Seats: 2},
		{Section: "Segunda", Alliance: "A", Seats: 1},
		{Section: "Segunda", Alliance: "B", Seats: 4},
	}
	assert.Equal(t, map[string]int{"A": 4, "B": 6}, GroupSeatTotals(rows))
}
