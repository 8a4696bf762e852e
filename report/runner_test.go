package report

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/specdrift/annotation"
	"github.com/c360studio/specdrift/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Spec.Path = filepath.Join(dir, "spec.md")
	cfg.Docs.Paths = []string{filepath.Join(dir, "overview.md")}
	cfg.Annotations.Root = dir
	cfg.Annotations.ArtifactPath = filepath.Join(dir, "spec_test_mapping.json")
	cfg.Report.JSONPath = filepath.Join(dir, "spec_drift_report.json")
	cfg.Report.MarkdownPath = filepath.Join(dir, "spec_drift_report.md")
	cfg.Keywords = map[string][]string{"Transport": {"QUIC", "TCP"}}
	return cfg
}

func writeSpec(t *testing.T, cfg *config.Config, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.Spec.Path, []byte(content), 0644))
}

func TestRunner_MissingSpecIsFatal(t *testing.T) {
	cfg := testConfig(t)

	_, err := NewRunner(cfg, testLogger()).Run()
	require.Error(t, err)

	// Neither output file may exist after a fatal run.
	_, statErr := os.Stat(cfg.Report.JSONPath)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(cfg.Report.MarkdownPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_FirstRunAllNew(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody one\n## 2. Security\nbody two\n")

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"1. Overview", "2. Security"}, rep.NewSections)
	assert.Empty(t, rep.RemovedSections)
	for title, info := range rep.Sections {
		assert.False(t, info.Changed, "section %s", title)
	}
	assert.NotEmpty(t, rep.ReportID)
}

func TestRunner_Idempotence(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody one\n## 2. Security\nbody two\n")

	runner := NewRunner(cfg, testLogger())
	_, err := runner.Run()
	require.NoError(t, err)

	second, err := runner.Run()
	require.NoError(t, err)

	assert.Empty(t, second.NewSections)
	assert.Empty(t, second.RemovedSections)
	for title, info := range second.Sections {
		assert.False(t, info.Changed, "section %s", title)
	}
}

func TestRunner_LocalityOfChange(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. A\nalpha\n## 2. B\nbeta\n## 3. C\ngamma\n")

	runner := NewRunner(cfg, testLogger())
	_, err := runner.Run()
	require.NoError(t, err)

	writeSpec(t, cfg, "## 1. A\nalpha\n## 2. B\nbeta edited\n## 3. C\ngamma\n")
	rep, err := runner.Run()
	require.NoError(t, err)

	assert.False(t, rep.Sections["1. A"].Changed)
	assert.True(t, rep.Sections["2. B"].Changed)
	assert.False(t, rep.Sections["3. C"].Changed)
	assert.Empty(t, rep.NewSections)
	assert.Empty(t, rep.RemovedSections)
}

func TestRunner_AddedAndRemovedSections(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Keep\nsame\n## 2. Drop\ngone soon\n")

	runner := NewRunner(cfg, testLogger())
	_, err := runner.Run()
	require.NoError(t, err)

	writeSpec(t, cfg, "## 1. Keep\nsame\n## 3. Fresh\nnew body\n")
	rep, err := runner.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"3. Fresh"}, rep.NewSections)
	assert.Equal(t, []string{"2. Drop"}, rep.RemovedSections)
	// A brand-new heading is never simultaneously changed.
	assert.False(t, rep.Sections["3. Fresh"].Changed)
}

func TestRunner_UnparsableSnapshotIsEmptyBaseline(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody\n")
	require.NoError(t, os.WriteFile(cfg.Report.JSONPath, []byte("{corrupt"), 0644))

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"1. Overview"}, rep.NewSections)
	assert.False(t, rep.Sections["1. Overview"].Changed)
}

func TestRunner_KeywordCoverageAndThreshold(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody\n")
	require.NoError(t, os.WriteFile(cfg.Docs.Paths[0], []byte("we use QUIC only"), 0644))

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	assert.InDelta(t, 50.0, rep.KeywordPercent, 1e-9)
	assert.True(t, rep.KeywordCoverage["Transport"]["QUIC"])
	assert.False(t, rep.KeywordCoverage["Transport"]["TCP"])
	assert.Equal(t, map[string][]string{"Transport": {"TCP"}}, rep.Uncovered)
	assert.False(t, rep.ThresholdMet, "50%% is below the default 70%% threshold")

	cfg.Report.Threshold = 40.0
	rep, err = NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)
	assert.True(t, rep.ThresholdMet)
}

func TestRunner_MissingCompanionDocsAllAbsent(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody\n")

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	assert.Zero(t, rep.KeywordPercent)
	assert.False(t, rep.KeywordCoverage["Transport"]["QUIC"])
	assert.False(t, rep.KeywordCoverage["Transport"]["TCP"])
}

func TestRunner_MappingBlockOmittedWithoutArtifact(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody\n")

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	assert.False(t, rep.SectionMapping.Available())

	md, err := os.ReadFile(cfg.Report.MarkdownPath)
	require.NoError(t, err)
	assert.NotContains(t, string(md), "Section Mapping Coverage")
}

func TestRunner_EndToEndMappingAgreement(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. A\nalpha\n## 2. B\nbeta\n## 3. C\ngamma\n")

	// Two annotated tests covering one distinct section.
	m := annotation.NewMapping()
	m.Add("2. B", "x_test.go::TestOne")
	m.Add("2. B", "x_test.go::TestTwo")
	m.Summarize([]string{"1. A", "2. B", "3. C"})
	require.NoError(t, m.WriteFile(cfg.Annotations.ArtifactPath))

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	require.True(t, rep.SectionMapping.Available())
	assert.InDelta(t, 100.0/3.0, *rep.SectionMapping.Percent, 1e-9)
	assert.Equal(t, 1, *rep.SectionMapping.MappedCount)
	assert.Equal(t, 3, *rep.SectionMapping.TotalCount)
	assert.Equal(t, []string{"1. A", "3. C"}, rep.SectionMapping.Unmapped)

	// JSON and markdown reports agree on the value.
	var onDisk Report
	data, err := os.ReadFile(cfg.Report.JSONPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.InDelta(t, *rep.SectionMapping.Percent, *onDisk.SectionMapping.Percent, 1e-9)

	md, err := os.ReadFile(cfg.Report.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "Section Coverage: **33.3%**")
}

func TestRunner_DuplicateTitlesLastWins(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## Twice\nfirst body\n## Twice\nsecond body\n")

	rep, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	// The map-keyed report keeps the last occurrence's hash.
	require.Contains(t, rep.Sections, "Twice")
	assert.Len(t, rep.Sections, 1)

	second := rep.Sections["Twice"]
	writeSpec(t, cfg, "## Twice\nsecond body\n")
	rerun, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)
	assert.Equal(t, second.Hash, rerun.Sections["Twice"].Hash)
}

func TestRunner_SnapshotReplacedEachRun(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Only\nbody\n")

	runner := NewRunner(cfg, testLogger())
	first, err := runner.Run()
	require.NoError(t, err)
	second, err := runner.Run()
	require.NoError(t, err)

	assert.NotEqual(t, first.ReportID, second.ReportID)

	var onDisk Report
	data, err := os.ReadFile(cfg.Report.JSONPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, second.ReportID, onDisk.ReportID, "only the latest report is retained")
}

func TestRunner_MetricsTextfile(t *testing.T) {
	cfg := testConfig(t)
	writeSpec(t, cfg, "## 1. Overview\nbody\n")
	cfg.Report.MetricsPath = filepath.Join(filepath.Dir(cfg.Spec.Path), "specdrift.prom")

	_, err := NewRunner(cfg, testLogger()).Run()
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Report.MetricsPath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "specdrift_keyword_coverage_percent")
	assert.Contains(t, content, "specdrift_sections 1")
}
