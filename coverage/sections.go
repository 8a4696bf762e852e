package coverage

import (
	"regexp"
)

var numberedPattern = regexp.MustCompile(`^\d+\.`)

// IsNumbered reports whether a section title begins with an integer
// followed by a period (e.g. "3. Transport").
func IsNumbered(title string) bool {
	return numberedPattern.MatchString(title)
}

// MappingReport summarizes which numbered sections are cited by at least
// one annotated test.
type MappingReport struct {
	// Percent is mapped/total*100 over numbered sections, 0 when the
	// document has none.
	Percent float64

	// MappedCount is the number of numbered sections with a binding.
	MappedCount int

	// TotalCount is the number of numbered sections in the document.
	TotalCount int

	// Unmapped lists uncited numbered section titles in document order.
	Unmapped []string
}

// Sections computes mapping coverage. Only titles beginning with an
// integer and a period participate; a section counts as mapped iff its
// exact title appears in mapping with at least one test identifier.
func Sections(titles []string, mapping map[string][]string) MappingReport {
	rep := MappingReport{Unmapped: []string{}}
	for _, title := range titles {
		if !IsNumbered(title) {
			continue
		}
		rep.TotalCount++
		if len(mapping[title]) > 0 {
			rep.MappedCount++
		} else {
			rep.Unmapped = append(rep.Unmapped, title)
		}
	}
	if rep.TotalCount > 0 {
		rep.Percent = float64(rep.MappedCount) / float64(rep.TotalCount) * 100.0
	}
	return rep
}
