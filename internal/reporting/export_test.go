package reporting

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electoral-sim/bancas/internal/ensemble"
	"github.com/electoral-sim/bancas/internal/models"
)

func sampleOutcome() *models.SimulationOutcome {
	return &models.SimulationOutcome{
		Scenario: "base",
		Draws:    100,
		Seed:     7,
		Deputies: models.ChamberSummary{
			Chamber:        models.ChamberDeputies,
			ContestedSeats: 9,
			Summaries: []ensemble.Summary{
				{Alliance: "A", Mean: 5.2, P5: 4, P95: 7, MedoidSeats: 5},
				{Alliance: "B", Mean: 3.8, P5: 2, P95: 5, MedoidSeats: 4},
			},
			MajorityShare: map[string]float64{"A": 0.61, "B": 0.12},
		},
		Senators: models.ChamberSummary{
			Chamber:        models.ChamberSenators,
			ContestedSeats: 3,
			Summaries: []ensemble.Summary{
				{Alliance: "A", Mean: 2.1, P5: 1, P95: 3, MedoidSeats: 2},
				{Alliance: "B", Mean: 0.9, P5: 0, P95: 2, MedoidSeats: 1},
			},
			MajorityShare: map[string]float64{"A": 0.7, "B": 0.05},
		},
	}
}

func TestWriteOutcomeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outcome.json")
	require.NoError(t, WriteOutcomeJSON(sampleOutcome(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.SimulationOutcome
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "base", decoded.Scenario)
	assert.Equal(t, int64(7), decoded.Seed)
	assert.Len(t, decoded.Deputies.Summaries, 2)
}

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resumen.csv")
	require.NoError(t, WriteSummaryCSV(sampleOutcome(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5) // header + 2 alliances x 2 chambers
	assert.Equal(t, summaryHeader, records[0])
	assert.Equal(t, "diputados", records[1][0])
	assert.Equal(t, "A", records[1][1])
	assert.Equal(t, "5.20", records[1][2])
	assert.Equal(t, "0.610", records[1][8])
	assert.Equal(t, "senadores", records[3][0])
}
