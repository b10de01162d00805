package models

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Chamber identifies one of the two legislative chambers.
type Chamber string

const (
	ChamberDeputies Chamber = "diputados"
	ChamberSenators Chamber = "senadores"
)

// Chambers lists both chambers in report order.
var Chambers = []Chamber{ChamberDeputies, ChamberSenators}

// Structure describes the jurisdiction for one electoral cycle: its
// sections, the seats each chamber contests per section, the eligible-voter
// counts, and which alliances compete where.
type Structure struct {
	Name            string                  `yaml:"name"`
	Sections        map[string]SectionSpec  `yaml:"sections"`
	Alliances       map[string]AllianceSpec `yaml:"alliances"`
	CompositionFile string                  `yaml:"composition,omitempty"`
}

// SectionSpec holds one section's electorate and contested seats.
type SectionSpec struct {
	Electorate int `yaml:"electorate"`
	Deputies   int `yaml:"deputies"`
	Senators   int `yaml:"senators"`
}

// AllianceSpec declares an alliance's member parties and, optionally, the
// sections where it competes. An empty section list means it competes in
// every section.
type AllianceSpec struct {
	Parties  []string `yaml:"parties,omitempty"`
	Sections []string `yaml:"sections,omitempty"`
}

// LoadStructure loads and validates a structure file.
func LoadStructure(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Structure
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing structure file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks internal consistency of the structure.
func (s *Structure) Validate() error {
	if len(s.Sections) == 0 {
		return fmt.Errorf("structure has no sections")
	}
	contested := 0
	for name, sec := range s.Sections {
		if sec.Electorate <= 0 {
			return fmt.Errorf("section %q: electorate must be positive, got %d", name, sec.Electorate)
		}
		if sec.Deputies < 0 || sec.Senators < 0 {
			return fmt.Errorf("section %q: negative seat count", name)
		}
		contested += sec.Deputies + sec.Senators
	}
	if contested == 0 {
		return fmt.Errorf("structure contests no seats in any section")
	}
	if len(s.Alliances) == 0 {
		return fmt.Errorf("structure declares no alliances")
	}
	for name, a := range s.Alliances {
		for _, sec := range a.Sections {
			if _, ok := s.Sections[sec]; !ok {
				return fmt.Errorf("alliance %q competes in unknown section %q", name, sec)
			}
		}
	}
	return nil
}

// SectionNames returns the section names in sorted order.
func (s *Structure) SectionNames() []string {
	names := make([]string, 0, len(s.Sections))
	for name := range s.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeatsByChamber returns section → seats-to-allocate for the given chamber,
// omitting sections that contest no seats in it this cycle.
func (s *Structure) SeatsByChamber(chamber Chamber) map[string]int {
	out := make(map[string]int)
	for name, sec := range s.Sections {
		seats := sec.Deputies
		if chamber == ChamberSenators {
			seats = sec.Senators
		}
		if seats > 0 {
			out[name] = seats
		}
	}
	return out
}

// ChamberSize returns the total seats contested across sections for a chamber.
func (s *Structure) ChamberSize(chamber Chamber) int {
	total := 0
	for _, seats := range s.SeatsByChamber(chamber) {
		total += seats
	}
	return total
}

// Eligibility returns alliance → set of sections where it competes,
// expanding empty section lists to all sections.
func (s *Structure) Eligibility() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(s.Alliances))
	for alliance, spec := range s.Alliances {
		sections := make(map[string]bool)
		if len(spec.Sections) == 0 {
			for name := range s.Sections {
				sections[name] = true
			}
		} else {
			for _, name := range spec.Sections {
				sections[name] = true
			}
		}
		out[alliance] = sections
	}
	return out
}

// NormalizeParty canonicalizes a party name for lookup: trimmed, upper-cased.
func NormalizeParty(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// PartyToAlliance maps normalized party names to their alliance. Party names
// are trimmed and upper-cased the same way composition CSVs are.
func (s *Structure) PartyToAlliance() map[string]string {
	out := make(map[string]string)
	for alliance, spec := range s.Alliances {
		for _, party := range spec.Parties {
			out[NormalizeParty(party)] = alliance
		}
	}
	return out
}
