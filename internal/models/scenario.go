package models

import (
	"fmt"
	"math"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Scenario is one run configuration: which structure it applies to, the
// assumed turnout and valid-vote rates, the belief vectors, and (for Monte
// Carlo runs) the simulation parameter block.
type Scenario struct {
	Name          string         `yaml:"name"`
	StructureFile string         `yaml:"structure"`
	Turnout       float64        `yaml:"turnout"`
	ValidVotes    float64        `yaml:"valid_votes"`
	Beliefs       Beliefs        `yaml:"beliefs"`
	Simulation    map[string]any `yaml:"simulation,omitempty"`
}

// Beliefs holds the global belief vector (alliance → percentage, summing to
// 100) plus optional per-section overrides. The global vector is the
// mandatory fallback for sections without an override.
type Beliefs struct {
	Global   map[string]float64            `yaml:"global"`
	Sections map[string]map[string]float64 `yaml:"sections,omitempty"`
}

// ForSection returns the belief vector applying to a section: its override
// when present, the global vector otherwise.
func (b Beliefs) ForSection(section string) map[string]float64 {
	if override, ok := b.Sections[section]; ok {
		return override
	}
	return b.Global
}

// SimulationParams is the typed form of a scenario's simulation block.
type SimulationParams struct {
	Draws      int      `mapstructure:"draws"`
	AlphaScale float64  `mapstructure:"alpha_scale"`
	Phi        *float64 `mapstructure:"phi"`
	Seed       *int64   `mapstructure:"seed"`
	Workers    int      `mapstructure:"workers"`
}

// Simulation parameter defaults.
const (
	DefaultDraws      = 1000
	DefaultAlphaScale = 25.0
	DefaultWorkers    = 1
)

// LoadScenario loads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario's rates and belief vectors. Belief
// percentages must be non-negative and the global vector must sum to 100;
// per-section overrides are renormalized downstream, so only negativity is
// rejected there.
func (sc *Scenario) Validate() error {
	if sc.StructureFile == "" {
		return fmt.Errorf("scenario: structure file is required")
	}
	if sc.Turnout <= 0 || sc.Turnout > 1 {
		return fmt.Errorf("scenario: turnout must be in (0, 1], got %v", sc.Turnout)
	}
	if sc.ValidVotes <= 0 || sc.ValidVotes > 1 {
		return fmt.Errorf("scenario: valid_votes must be in (0, 1], got %v", sc.ValidVotes)
	}
	if len(sc.Beliefs.Global) == 0 {
		return fmt.Errorf("scenario: global belief vector is required")
	}

	total := 0.0
	for alliance, pct := range sc.Beliefs.Global {
		if pct < 0 {
			return fmt.Errorf("scenario: negative belief %v for alliance %q", pct, alliance)
		}
		total += pct
	}
	if math.Abs(total-100) > 1e-6 {
		return fmt.Errorf("scenario: global beliefs must sum to 100, got %v", total)
	}

	for section, vector := range sc.Beliefs.Sections {
		for alliance, pct := range vector {
			if pct < 0 {
				return fmt.Errorf("scenario: negative belief %v for alliance %q in section %q", pct, alliance, section)
			}
		}
	}
	return nil
}

// SimulationParams decodes the scenario's loose simulation block into typed
// parameters, applying defaults and rejecting out-of-range values before any
// draw runs.
func (sc *Scenario) SimulationParams() (*SimulationParams, error) {
	params := &SimulationParams{
		Draws:      DefaultDraws,
		AlphaScale: DefaultAlphaScale,
		Workers:    DefaultWorkers,
	}

	if len(sc.Simulation) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      params,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(sc.Simulation); err != nil {
			return nil, fmt.Errorf("scenario: invalid simulation block: %w", err)
		}
	}

	if params.Draws < 1 {
		return nil, fmt.Errorf("scenario: draws must be at least 1, got %d", params.Draws)
	}
	if params.AlphaScale <= 0 {
		return nil, fmt.Errorf("scenario: alpha_scale must be positive, got %v", params.AlphaScale)
	}
	if params.Phi != nil && *params.Phi <= 0 {
		return nil, fmt.Errorf("scenario: phi must be positive, got %v", *params.Phi)
	}
	if params.Workers < 1 {
		return nil, fmt.Errorf("scenario: workers must be at least 1, got %d", params.Workers)
	}
	return params, nil
}
