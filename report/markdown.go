package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/specdrift/coverage"
	"github.com/c360studio/specdrift/drift"
)

// Render produces the human-readable markdown report. Sections are listed
// in document order, categories in sorted order, keywords in configured
// order, so byte-identical inputs render byte-identical output apart from
// the timestamp.
func Render(rep *Report, ordered []drift.SectionInfo, kw coverage.KeywordReport) string {
	var sb strings.Builder

	sb.WriteString("# Spec / Docs Drift Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", rep.Timestamp.Format(time.RFC3339))

	sb.WriteString("## Section Hashes\n\n")
	sb.WriteString("| Section | SHA256 | Changed |\n")
	sb.WriteString("|---------|--------|---------|\n")
	for _, s := range ordered {
		marker := ""
		if s.Changed {
			marker = "yes"
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", s.Title, s.Hash[:12], marker)
	}
	sb.WriteString("\n")

	if len(rep.NewSections) > 0 || len(rep.RemovedSections) > 0 {
		sb.WriteString("## Structure Changes\n\n")
		if len(rep.NewSections) > 0 {
			sb.WriteString("**New Sections:** " + strings.Join(rep.NewSections, ", ") + "\n")
		}
		if len(rep.RemovedSections) > 0 {
			sb.WriteString("**Removed Sections:** " + strings.Join(rep.RemovedSections, ", ") + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Keyword Coverage\n\n")
	fmt.Fprintf(&sb, "Overall Keyword Coverage: **%.1f%%**\n\n", rep.KeywordPercent)
	sb.WriteString("| Category | Keyword | Present |\n")
	sb.WriteString("|----------|---------|---------|\n")
	for _, cat := range kw.Categories() {
		for _, word := range kw.KeywordsFor(cat) {
			present := "no"
			if kw.Presence[cat][word] {
				present = "yes"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", cat, word, present)
		}
	}
	sb.WriteString("\n")

	uncovered := kw.Uncovered()
	if len(uncovered) > 0 {
		sb.WriteString("### Uncovered Keywords\n\n")
		for _, cat := range kw.Categories() {
			if missing, ok := uncovered[cat]; ok {
				fmt.Fprintf(&sb, "- %s: %s\n", cat, strings.Join(missing, ", "))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Notes\n")
	sb.WriteString("- 'Changed' indicates a hash difference vs the previous run for that section body.\n")
	sb.WriteString("- Keyword coverage is heuristic (presence-based), not semantic validation.\n")

	if rep.SectionMapping.Available() {
		sb.WriteString("\n## Section Mapping Coverage\n\n")
		fmt.Fprintf(&sb, "Section Coverage: **%.1f%%**\n", *rep.SectionMapping.Percent)
		fmt.Fprintf(&sb, "Mapped Sections: %d/%d\n", *rep.SectionMapping.MappedCount, *rep.SectionMapping.TotalCount)
		if len(rep.SectionMapping.Unmapped) > 0 {
			sb.WriteString("\nUnmapped Sections:\n")
			for _, title := range rep.SectionMapping.Unmapped {
				fmt.Fprintf(&sb, "- %s\n", title)
			}
		}
	}

	return sb.String()
}
