package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/specdrift/coverage"
)

// Mapping is the section→test-identifier artifact produced by the
// scanner. The coverage fields are filled by Summarize once the spec's
// section titles are known.
type Mapping struct {
	// Sections maps a section title to the ordered unique identifiers of
	// the tests citing it.
	Sections map[string][]string `json:"sections"`

	// Unmapped lists numbered section titles no test cites, in document
	// order.
	Unmapped []string `json:"unmapped_sections"`

	// Percent is the numbered-section coverage percentage.
	Percent float64 `json:"section_coverage_percent"`

	// MappedCount and TotalCount are the numbered-section tallies behind
	// Percent.
	MappedCount int `json:"mapped_section_count"`
	TotalCount  int `json:"total_section_count"`
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{Sections: make(map[string][]string)}
}

// Add binds a test identifier to a section title, preserving insertion
// order and dropping duplicates.
func (m *Mapping) Add(section, ident string) {
	for _, existing := range m.Sections[section] {
		if existing == ident {
			return
		}
	}
	m.Sections[section] = append(m.Sections[section], ident)
}

// Summarize computes the numbered-section coverage fields from the
// specification's section titles in document order.
func (m *Mapping) Summarize(titles []string) {
	rep := coverage.Sections(titles, m.Sections)
	m.Unmapped = rep.Unmapped
	m.Percent = rep.Percent
	m.MappedCount = rep.MappedCount
	m.TotalCount = rep.TotalCount
}

// WriteFile persists the mapping artifact as indented JSON, creating
// parent directories as needed.
func (m *Mapping) WriteFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create mapping directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write mapping artifact: %w", err)
	}
	return nil
}

// LoadFile reads a previously written mapping artifact.
func LoadFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping artifact: %w", err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping artifact: %w", err)
	}
	if m.Sections == nil {
		m.Sections = make(map[string][]string)
	}
	return &m, nil
}
