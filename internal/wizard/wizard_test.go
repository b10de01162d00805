package wizard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electoral-sim/bancas/internal/utils"
)

func TestRunScenarioWizard_ValidInput(t *testing.T) {
	input := strings.Join([]string{
		"base 2025",
		"estructura.yaml",
		"0.65",
		"0.94",
		"Alianza A=40, Frente B=35, Tercera Via=25",
		"500",
		"30",
		"50",
		"42",
	}, "\n") + "\n"
	out := &bytes.Buffer{}

	spec, err := RunScenarioWizard(strings.NewReader(input), out)
	require.NoError(t, err)

	assert.Equal(t, "base 2025", spec.Name)
	assert.Equal(t, "estructura.yaml", spec.StructureFile)
	assert.Equal(t, 0.65, spec.Turnout)
	assert.Equal(t, 0.94, spec.ValidVotes)
	assert.Equal(t, []BeliefEntry{
		{Alliance: "Alianza A", Pct: 40},
		{Alliance: "Frente B", Pct: 35},
		{Alliance: "Tercera Via", Pct: 25},
	}, spec.Beliefs)
	assert.Equal(t, 500, spec.Draws)
	assert.Equal(t, 30.0, spec.AlphaScale)
	require.NotNil(t, spec.Phi)
	assert.Equal(t, 50.0, *spec.Phi)
	require.NotNil(t, spec.Seed)
	assert.Equal(t, int64(42), *spec.Seed)
}

func TestRunScenarioWizard_Defaults(t *testing.T) {
	input := strings.Join([]string{
		"base",
		"estructura.yaml",
		"0.7",
		"0.95",
		"A=60, B=40",
		"", // draws
		"", // alpha scale
		"", // phi
		"", // seed
	}, "\n") + "\n"
	out := &bytes.Buffer{}

	spec, err := RunScenarioWizard(strings.NewReader(input), out)
	require.NoError(t, err)

	assert.Equal(t, defaultDraws, spec.Draws)
	assert.Equal(t, defaultAlphaScale, spec.AlphaScale)
	assert.Nil(t, spec.Phi)
	assert.Nil(t, spec.Seed)
}

func TestRunScenarioWizard_EmptyName(t *testing.T) {
	input := "\nestructura.yaml\n0.65\n0.94\nA=100\n\n\n\n\n"
	out := &bytes.Buffer{}

	_, err := RunScenarioWizard(strings.NewReader(input), out)
	assert.EqualError(t, err, "scenario name is required")
}

func TestRunScenarioWizard_MissingStructure(t *testing.T) {
	input := "base\n\n0.65\n0.94\nA=100\n\n\n\n\n"
	out := &bytes.Buffer{}

	_, err := RunScenarioWizard(strings.NewReader(input), out)
	assert.EqualError(t, err, "structure file is required")
}

func TestRunScenarioWizard_BadRate(t *testing.T) {
	input := "base\nestructura.yaml\n1.5\n0.94\nA=100\n\n\n\n\n"
	out := &bytes.Buffer{}

	_, err := RunScenarioWizard(strings.NewReader(input), out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "turnout")
}

func TestRunScenarioWizard_UnexpectedEOF(t *testing.T) {
	input := "base\nestructura.yaml\n"
	out := &bytes.Buffer{}

	_, err := RunScenarioWizard(strings.NewReader(input), out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of input")
}

func TestParseBeliefs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []BeliefEntry
		wantErr string
	}{
		{
			name:  "valid",
			input: "A=60, B=40",
			want:  []BeliefEntry{{Alliance: "A", Pct: 60}, {Alliance: "B", Pct: 40}},
		},
		{
			name:  "spaces in names",
			input: "Alianza A = 55.5, Frente B = 44.5",
			want:  []BeliefEntry{{Alliance: "Alianza A", Pct: 55.5}, {Alliance: "Frente B", Pct: 44.5}},
		},
		{name: "empty", input: "", wantErr: "at least one belief"},
		{name: "missing equals", input: "A 60, B 40", wantErr: "must be alliance=pct"},
		{name: "bad percentage", input: "A=x, B=40", wantErr: "invalid percentage"},
		{name: "negative", input: "A=120, B=-20", wantErr: "invalid percentage"},
		{name: "sum off", input: "A=60, B=30", wantErr: "must sum to 100"},
		{name: "no name", input: "=60, B=40", wantErr: "no alliance name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBeliefs(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateScenarioYAML(t *testing.T) {
	spec := &ScenarioSpec{
		Name:          "base 2025",
		StructureFile: "estructura.yaml",
		Turnout:       0.65,
		ValidVotes:    0.94,
		Beliefs: []BeliefEntry{
			{Alliance: "Alianza A", Pct: 40},
			{Alliance: "Frente B", Pct: 35},
			{Alliance: "Tercera Via", Pct: 25},
		},
		Draws:      500,
		AlphaScale: 30,
		Phi:        utils.Ptr(50.0),
		Seed:       utils.Ptr(int64(42)),
	}

	result, err := GenerateScenarioYAML(spec)
	require.NoError(t, err)

	assert.Contains(t, result, "name: base 2025")
	assert.Contains(t, result, "structure: estructura.yaml")
	assert.Contains(t, result, "turnout: 0.65")
	assert.Contains(t, result, "Alianza A: 40")
	assert.Contains(t, result, "draws: 500")
	assert.Contains(t, result, "phi: 50")
	assert.Contains(t, result, "seed: 42")
}

func TestGenerateScenarioYAML_OmitsOptionalFields(t *testing.T) {
	spec := &ScenarioSpec{
		Name:          "base",
		StructureFile: "estructura.yaml",
		Turnout:       0.7,
		ValidVotes:    0.95,
		Beliefs:       []BeliefEntry{{Alliance: "A", Pct: 100}},
		Draws:         1000,
		AlphaScale:    25,
	}

	result, err := GenerateScenarioYAML(spec)
	require.NoError(t, err)

	assert.NotContains(t, result, "phi:")
	assert.NotContains(t, result, "seed:")
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "hello", []string{"hello"}},
		{"multiple", "a, b, c", []string{"a", "b", "c"}},
		{"with blanks", "a,, b, ,c", []string{"a", "b", "c"}},
		{"whitespace only", "  ,  ,  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
