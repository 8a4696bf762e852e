// Package report assembles, renders, and persists drift/coverage reports.
// The JSON report written by one run is read back as the next run's
// snapshot; only that single snapshot is retained.
package report

import (
	"time"

	"github.com/c360studio/specdrift/drift"
)

// Report is the machine-readable output of one run.
type Report struct {
	ReportID        string                       `json:"report_id"`
	Timestamp       time.Time                    `json:"timestamp"`
	SpecFile        string                       `json:"spec_file"`
	Sections        map[string]drift.SectionInfo `json:"sections"`
	NewSections     []string                     `json:"new_sections"`
	RemovedSections []string                     `json:"removed_sections"`
	KeywordPercent  float64                      `json:"keyword_coverage_percent"`
	KeywordCoverage map[string]map[string]bool   `json:"keyword_coverage"`
	Uncovered       map[string][]string          `json:"uncovered_keywords"`
	SectionMapping  MappingSummary               `json:"section_mapping"`
	ThresholdMet    bool                         `json:"coverage_threshold_met"`
}

// MappingSummary mirrors the mapping artifact's coverage fields. The
// pointer fields stay null in the JSON report when no artifact was
// available for the run.
type MappingSummary struct {
	Percent     *float64 `json:"section_coverage_percent"`
	MappedCount *int     `json:"mapped_section_count"`
	TotalCount  *int     `json:"total_section_count"`
	Unmapped    []string `json:"unmapped_sections"`
}

// Available reports whether a mapping artifact backed this summary.
func (s MappingSummary) Available() bool {
	return s.Percent != nil
}
