package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumbered(t *testing.T) {
	assert.True(t, IsNumbered("1. Overview"))
	assert.True(t, IsNumbered("10. Compliance"))
	assert.False(t, IsNumbered("Appendix"))
	assert.False(t, IsNumbered("1 Overview"))
	assert.False(t, IsNumbered("v1. Versioning"))
}

func TestSections_HalfMapped(t *testing.T) {
	titles := []string{"1. Overview", "2. Security"}
	mapping := map[string][]string{
		"1. Overview": {"pkg/a_test.go::check_overview"},
	}

	rep := Sections(titles, mapping)

	assert.InDelta(t, 50.0, rep.Percent, 1e-9)
	assert.Equal(t, 1, rep.MappedCount)
	assert.Equal(t, 2, rep.TotalCount)
	assert.Equal(t, []string{"2. Security"}, rep.Unmapped)
}

func TestSections_IgnoresUnnumberedTitles(t *testing.T) {
	titles := []string{"Introduction", "1. Overview", "Glossary"}

	rep := Sections(titles, map[string][]string{})
	assert.Equal(t, 1, rep.TotalCount)
	assert.Equal(t, []string{"1. Overview"}, rep.Unmapped)
}

func TestSections_EmptyBindingDoesNotCount(t *testing.T) {
	titles := []string{"1. Overview"}
	mapping := map[string][]string{"1. Overview": {}}

	rep := Sections(titles, mapping)
	assert.Zero(t, rep.MappedCount)
	assert.Equal(t, []string{"1. Overview"}, rep.Unmapped)
}

func TestSections_NoNumberedSections(t *testing.T) {
	rep := Sections([]string{"Intro", "Outro"}, map[string][]string{})
	assert.Zero(t, rep.Percent)
	assert.Zero(t, rep.TotalCount)
	assert.Empty(t, rep.Unmapped)
}

func TestSections_UnmappedKeepsDocumentOrder(t *testing.T) {
	titles := []string{"3. Gamma", "1. Alpha", "2. Beta"}

	rep := Sections(titles, map[string][]string{})
	assert.Equal(t, []string{"3. Gamma", "1. Alpha", "2. Beta"}, rep.Unmapped)
}

func TestSections_OneThirdMapped(t *testing.T) {
	titles := []string{"1. A", "2. B", "3. C"}
	mapping := map[string][]string{
		"2. B": {"x_test.go::TestOne", "x_test.go::TestTwo"},
	}

	rep := Sections(titles, mapping)
	assert.InDelta(t, 100.0/3.0, rep.Percent, 1e-9)
	assert.Equal(t, 1, rep.MappedCount)
	assert.Equal(t, 3, rep.TotalCount)
}
