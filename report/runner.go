package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/specdrift/annotation"
	"github.com/c360studio/specdrift/config"
	"github.com/c360studio/specdrift/coverage"
	"github.com/c360studio/specdrift/document"
	"github.com/c360studio/specdrift/drift"
)

// Runner executes one full drift/coverage run. All paths and the
// threshold come from the explicitly passed configuration, so multiple
// runners can operate independently within one process.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run performs one synchronous pass: read the specification (fatal when
// unreadable, nothing is written), load the previous report best-effort,
// extract and fingerprint sections, compute both coverage metrics, then
// overwrite the JSON report, the markdown report, and the optional metrics
// textfile. The returned report is what was written.
func (r *Runner) Run() (*Report, error) {
	specText, err := os.ReadFile(r.cfg.Spec.Path)
	if err != nil {
		return nil, fmt.Errorf("read specification document %s: %w", r.cfg.Spec.Path, err)
	}

	snapshot := LoadSnapshot(r.cfg.Report.JSONPath, r.logger)

	sections := document.Extract(string(specText))
	infos := drift.Detect(sections, snapshot)
	added, removed := drift.Diff(infos, snapshot)

	docs := r.readCompanionDocs()
	kw := coverage.Keywords(r.cfg.Keywords, docs)

	rep := &Report{
		ReportID:        uuid.New().String(),
		Timestamp:       time.Now().UTC(),
		SpecFile:        r.cfg.Spec.Path,
		Sections:        make(map[string]drift.SectionInfo, len(infos)),
		NewSections:     added,
		RemovedSections: removed,
		KeywordPercent:  kw.Percent,
		KeywordCoverage: kw.Presence,
		Uncovered:       kw.Uncovered(),
		SectionMapping:  r.loadMappingSummary(),
		ThresholdMet:    kw.Percent >= r.cfg.Report.Threshold,
	}
	for _, info := range infos {
		rep.Sections[info.Title] = info
	}

	if err := r.writeJSON(rep); err != nil {
		return nil, err
	}
	if err := writeFile(r.cfg.Report.MarkdownPath, Render(rep, infos, kw)); err != nil {
		return nil, fmt.Errorf("write markdown report: %w", err)
	}
	if r.cfg.Report.MetricsPath != "" {
		if err := WriteMetrics(r.cfg.Report.MetricsPath, rep); err != nil {
			return nil, err
		}
	}

	r.logger.Info("drift report written",
		slog.String("json", r.cfg.Report.JSONPath),
		slog.String("markdown", r.cfg.Report.MarkdownPath),
		slog.Int("sections", len(infos)),
		slog.Float64("keyword_coverage", kw.Percent))
	return rep, nil
}

// readCompanionDocs reads the configured free-text documents. Missing or
// unreadable documents degrade to empty text.
func (r *Runner) readCompanionDocs() []string {
	docs := make([]string, 0, len(r.cfg.Docs.Paths))
	for _, path := range r.cfg.Docs.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Debug("companion document unavailable, treating as empty",
				slog.String("path", path))
			docs = append(docs, "")
			continue
		}
		docs = append(docs, string(data))
	}
	return docs
}

// loadMappingSummary loads the mapping artifact best-effort. When absent
// or invalid the summary fields stay null and the markdown report omits
// the mapping block.
func (r *Runner) loadMappingSummary() MappingSummary {
	m, err := annotation.LoadFile(r.cfg.Annotations.ArtifactPath)
	if err != nil {
		r.logger.Debug("mapping artifact unavailable",
			slog.String("path", r.cfg.Annotations.ArtifactPath))
		return MappingSummary{}
	}
	return MappingSummary{
		Percent:     &m.Percent,
		MappedCount: &m.MappedCount,
		TotalCount:  &m.TotalCount,
		Unmapped:    m.Unmapped,
	}
}

func (r *Runner) writeJSON(rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := writeFile(r.cfg.Report.JSONPath, string(data)+"\n"); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
