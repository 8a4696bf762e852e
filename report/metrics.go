package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetrics writes coverage and drift gauges in Prometheus textfile
// exposition format, suitable for a node-exporter textfile collector
// directory.
func WriteMetrics(path string, rep *Report) error {
	reg := prometheus.NewRegistry()

	keywordPercent := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_keyword_coverage_percent",
		Help: "Overall keyword coverage across companion documents.",
	})
	thresholdMet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_coverage_threshold_met",
		Help: "1 when keyword coverage meets the configured threshold.",
	})
	sectionsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_sections",
		Help: "Number of sections in the specification document.",
	})
	sectionsChanged := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_sections_changed",
		Help: "Sections whose body hash differs from the previous run.",
	})
	sectionsNew := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_sections_new",
		Help: "Section titles absent from the previous run.",
	})
	sectionsRemoved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "specdrift_sections_removed",
		Help: "Previous-run section titles absent from this run.",
	})
	reg.MustRegister(keywordPercent, thresholdMet, sectionsTotal, sectionsChanged, sectionsNew, sectionsRemoved)

	keywordPercent.Set(rep.KeywordPercent)
	if rep.ThresholdMet {
		thresholdMet.Set(1)
	}
	sectionsTotal.Set(float64(len(rep.Sections)))
	changed := 0
	for _, s := range rep.Sections {
		if s.Changed {
			changed++
		}
	}
	sectionsChanged.Set(float64(changed))
	sectionsNew.Set(float64(len(rep.NewSections)))
	sectionsRemoved.Set(float64(len(rep.RemovedSections)))

	if rep.SectionMapping.Available() {
		mappingPercent := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "specdrift_section_mapping_percent",
			Help: "Share of numbered sections cited by at least one annotated test.",
		})
		reg.MustRegister(mappingPercent)
		mappingPercent.Set(*rep.SectionMapping.Percent)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
