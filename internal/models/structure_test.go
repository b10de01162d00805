package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStructure() *Structure {
	return &Structure{
		Name: "Provincia",
		Sections: map[string]SectionSpec{
			"Primera": {Electorate: 500000, Deputies: 8, Senators: 0},
			"Segunda": {Electorate: 300000, Deputies: 0, Senators: 5},
			"Capital": {Electorate: 200000, Deputies: 3, Senators: 3},
		},
		Alliances: map[string]AllianceSpec{
			"Alianza A": {Parties: []string{"Partido Uno", "partido dos "}},
			"Frente B":  {Sections: []string{"Primera", "Capital"}},
		},
	}
}

func TestStructureValidate(t *testing.T) {
	require.NoError(t, validStructure().Validate())

	tests := []struct {
		name   string
		mutate func(*Structure)
	}{
		{"no_sections", func(s *Structure) { s.Sections = nil }},
		{"zero_electorate", func(s *Structure) {
			s.Sections["Primera"] = SectionSpec{Electorate: 0, Deputies: 8}
		}},
		{"negative_seats", func(s *Structure) {
			s.Sections["Primera"] = SectionSpec{Electorate: 100, Deputies: -1}
		}},
		{"no_contested_seats", func(s *Structure) {
			for name, sec := range s.Sections {
				sec.Deputies, sec.Senators = 0, 0
				s.Sections[name] = sec
			}
		}},
		{"no_alliances", func(s *Structure) { s.Alliances = nil }},
		{"unknown_section_in_alliance", func(s *Structure) {
			s.Alliances["Frente B"] = AllianceSpec{Sections: []string{"Inexistente"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStructure()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSeatsByChamberSkipsUncontested(t *testing.T) {
	s := validStructure()

	dip := s.SeatsByChamber(ChamberDeputies)
	assert.Equal(t, map[string]int{"Primera": 8, "Capital": 3}, dip)

	sen := s.SeatsByChamber(ChamberSenators)
	assert.Equal(t, map[string]int{"Segunda": 5, "Capital": 3}, sen)

	assert.Equal(t, 11, s.ChamberSize(ChamberDeputies))
	assert.Equal(t, 8, s.ChamberSize(ChamberSenators))
}

func TestEligibilityExpandsWildcard(t *testing.T) {
	elig := validStructure().Eligibility()

	// Empty section list → competes everywhere.
	assert.True(t, elig["Alianza A"]["Primera"])
	assert.True(t, elig["Alianza A"]["Segunda"])
	assert.True(t, elig["Alianza A"]["Capital"])

	// Explicit list → only those sections.
	assert.True(t, elig["Frente B"]["Primera"])
	assert.False(t, elig["Frente B"]["Segunda"])
}

func TestPartyToAllianceNormalizes(t *testing.T) {
	m := validStructure().PartyToAlliance()
	assert.Equal(t, "Alianza A", m["PARTIDO UNO"])
	assert.Equal(t, "Alianza A", m["PARTIDO DOS"])
}

func TestLoadStructure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "estructura.yaml")
	content := `
name: Provincia
sections:
  Primera:
    electorate: 500000
    deputies: 8
  Segunda:
    electorate: 300000
    senators: 5
alliances:
  Alianza A:
    parties: [Partido Uno]
  Frente B:
    sections: [Primera]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadStructure(path)
	require.NoError(t, err)
	assert.Equal(t, "Provincia", s.Name)
	assert.Equal(t, []string{"Primera", "Segunda"}, s.SectionNames())
	assert.Equal(t, 8, s.Sections["Primera"].Deputies)
}

func TestLoadStructureRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "estructura.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nsections: {}\n"), 0o644))

	_, err := LoadStructure(path)
	require.Error(t, err)
}
