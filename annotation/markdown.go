package annotation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMarker separates hand-written content from the generated table in
// the mapping markdown document. Everything below the marker is rewritten
// on each run; everything above it is preserved.
const DefaultMarker = "<!-- specdrift:generated -->"

// Markdown renders the generated mapping block: the coverage line, a
// section/test table sorted by title, and the unmapped-section digest.
func (m *Mapping) Markdown() string {
	var sb strings.Builder

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Section coverage %.1f%% (%d/%d):\n", m.Percent, m.MappedCount, m.TotalCount)
	sb.WriteString("\n")
	sb.WriteString("| Section | Tests |\n")
	sb.WriteString("|---------|-------|\n")

	titles := make([]string, 0, len(m.Sections))
	for title := range m.Sections {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		fmt.Fprintf(&sb, "| %s | %s |\n", title, strings.Join(m.Sections[title], "<br>"))
	}

	sb.WriteString("\n")
	if len(m.Unmapped) > 0 {
		sb.WriteString("Unmapped sections: " + strings.Join(m.Unmapped, ", ") + "\n")
	} else {
		sb.WriteString("Unmapped sections: none\n")
	}
	sb.WriteString("\n")
	sb.WriteString("---\n")
	sb.WriteString("Everything below the marker is regenerated; manual edits are overwritten.\n")

	return sb.String()
}

// UpdateMarkdownFile rewrites the mapping document's generated block while
// preserving all content above the marker line. A missing document is
// created with a default header; a document without the marker gets it
// appended first.
func UpdateMarkdownFile(path, marker string, m *Mapping) error {
	if marker == "" {
		marker = DefaultMarker
	}

	var kept []string
	if data, err := os.ReadFile(path); err == nil {
		lines := strings.Split(string(data), "\n")
		markerIdx := -1
		for i, line := range lines {
			if strings.TrimSpace(line) == marker {
				markerIdx = i
				break
			}
		}
		if markerIdx == -1 {
			kept = append(lines, marker)
		} else {
			kept = lines[:markerIdx+1]
		}
	} else {
		kept = []string{"# Spec-to-Test Mapping", "", marker}
	}

	content := strings.Join(kept, "\n") + m.Markdown()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create mapping document directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write mapping document: %w", err)
	}
	return nil
}
