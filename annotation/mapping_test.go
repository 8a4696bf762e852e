package annotation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_SummarizeHalfMapped(t *testing.T) {
	m := NewMapping()
	m.Add("1. Overview", "checks_test.go::check_overview")

	m.Summarize([]string{"1. Overview", "2. Security"})

	assert.InDelta(t, 50.0, m.Percent, 1e-9)
	assert.Equal(t, 1, m.MappedCount)
	assert.Equal(t, 2, m.TotalCount)
	assert.Equal(t, []string{"2. Security"}, m.Unmapped)
}

func TestMapping_WriteAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec", "spec_test_mapping.json")

	m := NewMapping()
	m.Add("1. Overview", "a_test.go::TestA")
	m.Add("1. Overview", "b_test.go::TestB")
	m.Summarize([]string{"1. Overview", "2. Security", "3. Transport"})

	require.NoError(t, m.WriteFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Sections, loaded.Sections)
	assert.Equal(t, m.Unmapped, loaded.Unmapped)
	assert.InDelta(t, m.Percent, loaded.Percent, 1e-9)
	assert.Equal(t, m.MappedCount, loaded.MappedCount)
	assert.Equal(t, m.TotalCount, loaded.TotalCount)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestUpdateMarkdownFile_CreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "spec_test_mapping.md")

	m := NewMapping()
	m.Add("1. Overview", "a_test.go::TestA")
	m.Summarize([]string{"1. Overview"})

	require.NoError(t, UpdateMarkdownFile(path, "", m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Spec-to-Test Mapping")
	assert.Contains(t, content, DefaultMarker)
	assert.Contains(t, content, "| 1. Overview | a_test.go::TestA |")
	assert.Contains(t, content, "Section coverage 100.0% (1/1)")
	assert.Contains(t, content, "Unmapped sections: none")
}

func TestUpdateMarkdownFile_PreservesContentAboveMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.md")
	original := "# Hand-written title\n\nKeep this prose.\n\n" + DefaultMarker + "\nold generated stuff\nmore old stuff\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	m := NewMapping()
	m.Add("2. Security", "sec_test.go::TestSec")
	m.Summarize([]string{"1. Overview", "2. Security"})
	require.NoError(t, UpdateMarkdownFile(path, "", m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Hand-written title"))
	assert.Contains(t, content, "Keep this prose.")
	assert.NotContains(t, content, "old generated stuff")
	assert.Contains(t, content, "| 2. Security | sec_test.go::TestSec |")
	assert.Contains(t, content, "Unmapped sections: 1. Overview")
}

func TestUpdateMarkdownFile_AppendsMissingMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.md")
	require.NoError(t, os.WriteFile(path, []byte("# Existing doc without marker\n"), 0644))

	m := NewMapping()
	m.Summarize(nil)
	require.NoError(t, UpdateMarkdownFile(path, "", m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Existing doc without marker")
	assert.Contains(t, string(data), DefaultMarker)
}

func TestMapping_MarkdownTableSorted(t *testing.T) {
	m := NewMapping()
	m.Add("2. Beta", "b_test.go::TestB")
	m.Add("1. Alpha", "a_test.go::TestA")
	m.Summarize([]string{"1. Alpha", "2. Beta"})

	md := m.Markdown()
	assert.Less(t, strings.Index(md, "1. Alpha"), strings.Index(md, "2. Beta"))
}
