// Package wizard interactively collects the fields of a new scenario file.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// BeliefEntry is one alliance's expected vote share in percent.
type BeliefEntry struct {
	Alliance string
	Pct      float64
}

// ScenarioSpec holds all fields collected during the interactive wizard.
type ScenarioSpec struct {
	Name          string
	StructureFile string
	Turnout       float64
	ValidVotes    float64
	Beliefs       []BeliefEntry
	Draws         int
	AlphaScale    float64
	Phi           *float64
	Seed          *int64
}

// Wizard defaults for the simulation block.
const (
	defaultDraws      = 1000
	defaultAlphaScale = 25.0
)

const scenarioTemplate = `name: {{ .Name }}
structure: {{ .StructureFile }}
turnout: {{ .Turnout }}
valid_votes: {{ .ValidVotes }}
beliefs:
  global:
{{- range .Beliefs }}
    {{ .Alliance }}: {{ .Pct }}
{{- end }}
simulation:
  draws: {{ .Draws }}
  alpha_scale: {{ .AlphaScale }}
{{- if .Phi }}
  phi: {{ .Phi }}
{{- end }}
{{- if .Seed }}
  seed: {{ .Seed }}
{{- end }}
`

// RunScenarioWizard collects a scenario spec. On a terminal it runs a huh
// form; piped input falls back to plain line-based prompts so the wizard
// stays scriptable.
func RunScenarioWizard(in io.Reader, out io.Writer) (*ScenarioSpec, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return runForm(in, out)
	}
	return runPlain(in, out)
}

func runForm(in io.Reader, out io.Writer) (*ScenarioSpec, error) {
	var (
		name       string
		structFile string
		turnout    string
		validVotes string
		beliefsRaw string
		draws      string
		alphaScale string
		phi        string
		seed       string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario name").
				Placeholder("base 2025").
				Value(&name).
				Validate(requireNonEmpty("scenario name is required")),
			huh.NewInput().
				Title("Structure file").
				Description("Path to the structure YAML, relative to the scenario file").
				Placeholder("estructura.yaml").
				Value(&structFile).
				Validate(requireNonEmpty("structure file is required")),
			huh.NewInput().
				Title("Turnout rate").
				Description("Fraction of the electorate expected to vote, in (0, 1]").
				Placeholder("0.65").
				Value(&turnout).
				Validate(validateRate),
			huh.NewInput().
				Title("Valid-vote rate").
				Description("Fraction of cast ballots that are valid, in (0, 1]").
				Placeholder("0.94").
				Value(&validVotes).
				Validate(validateRate),
			huh.NewInput().
				Title("Global beliefs").
				Description("Comma-separated alliance=pct pairs, summing to 100").
				Placeholder("Alianza A=40, Frente B=35, Tercera Via=25").
				Value(&beliefsRaw).
				Validate(func(s string) error {
					_, err := ParseBeliefs(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Draws").
				Description("Monte Carlo draws (blank for 1000)").
				Value(&draws),
			huh.NewInput().
				Title("Alpha scale").
				Description("Belief concentration (blank for 25)").
				Value(&alphaScale),
			huh.NewInput().
				Title("Phi").
				Description("Hierarchical cohesion; blank for independent sections").
				Value(&phi),
			huh.NewInput().
				Title("Seed").
				Description("Blank for a time-derived seed").
				Value(&seed),
		),
	).
		WithInput(in).
		WithOutput(out)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return buildSpec(name, structFile, turnout, validVotes, beliefsRaw, draws, alphaScale, phi, seed)
}

// plainPrompt is one question of the line-based fallback.
type plainPrompt struct {
	label string
	value *string
}

func runPlain(in io.Reader, out io.Writer) (*ScenarioSpec, error) {
	var name, structFile, turnout, validVotes, beliefsRaw, draws, alphaScale, phi, seed string

	prompts := []plainPrompt{
		{"Scenario name", &name},
		{"Structure file", &structFile},
		{"Turnout rate (0-1]", &turnout},
		{"Valid-vote rate (0-1]", &validVotes},
		{"Global beliefs (alliance=pct, ...)", &beliefsRaw},
		{"Draws [1000]", &draws},
		{"Alpha scale [25]", &alphaScale},
		{"Phi [none]", &phi},
		{"Seed [random]", &seed},
	}

	scanner := bufio.NewScanner(in)
	for _, p := range prompts {
		fmt.Fprintf(out, "%s: ", p.label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("unexpected end of input")
		}
		*p.value = strings.TrimSpace(scanner.Text())
	}

	return buildSpec(name, structFile, turnout, validVotes, beliefsRaw, draws, alphaScale, phi, seed)
}

func buildSpec(name, structFile, turnout, validVotes, beliefsRaw, draws, alphaScale, phi, seed string) (*ScenarioSpec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	structFile = strings.TrimSpace(structFile)
	if structFile == "" {
		return nil, fmt.Errorf("structure file is required")
	}

	turnoutRate, err := parseRate(turnout, "turnout")
	if err != nil {
		return nil, err
	}
	validRate, err := parseRate(validVotes, "valid_votes")
	if err != nil {
		return nil, err
	}

	beliefs, err := ParseBeliefs(beliefsRaw)
	if err != nil {
		return nil, err
	}

	spec := &ScenarioSpec{
		Name:          name,
		StructureFile: structFile,
		Turnout:       turnoutRate,
		ValidVotes:    validRate,
		Beliefs:       beliefs,
		Draws:         defaultDraws,
		AlphaScale:    defaultAlphaScale,
	}

	if s := strings.TrimSpace(draws); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("draws must be a positive integer, got %q", s)
		}
		spec.Draws = n
	}
	if s := strings.TrimSpace(alphaScale); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("alpha scale must be a positive number, got %q", s)
		}
		spec.AlphaScale = v
	}
	if s := strings.TrimSpace(phi); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("phi must be a positive number, got %q", s)
		}
		spec.Phi = &v
	}
	if s := strings.TrimSpace(seed); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed must be an integer, got %q", s)
		}
		spec.Seed = &v
	}

	return spec, nil
}

// ParseBeliefs parses a comma-separated list of alliance=pct pairs and
// checks the percentages sum to 100.
func ParseBeliefs(raw string) ([]BeliefEntry, error) {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one belief entry is required")
	}

	entries := make([]BeliefEntry, 0, len(parts))
	total := 0.0
	for _, part := range parts {
		alliance, pctRaw, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("belief entry %q must be alliance=pct", part)
		}
		alliance = strings.TrimSpace(alliance)
		if alliance == "" {
			return nil, fmt.Errorf("belief entry %q has no alliance name", part)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(pctRaw), 64)
		if err != nil || pct < 0 {
			return nil, fmt.Errorf("belief entry %q has an invalid percentage", part)
		}
		entries = append(entries, BeliefEntry{Alliance: alliance, Pct: pct})
		total += pct
	}
	if math.Abs(total-100) > 1e-6 {
		return nil, fmt.Errorf("beliefs must sum to 100, got %v", total)
	}
	return entries, nil
}

// GenerateScenarioYAML renders a scenario file from the given spec.
func GenerateScenarioYAML(spec *ScenarioSpec) (string, error) {
	tmpl, err := template.New("scenario").Parse(scenarioTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func requireNonEmpty(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}

func validateRate(s string) error {
	_, err := parseRate(s, "rate")
	return err
}

func parseRate(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 1 {
		return 0, fmt.Errorf("%s must be a number in (0, 1], got %q", field, s)
	}
	return v, nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
