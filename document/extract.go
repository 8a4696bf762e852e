package document

import (
	"strings"
)

// Section is a titled block of the specification document.
type Section struct {
	// Title is taken verbatim from the heading line.
	Title string

	// Body is the text between this heading and the next, trimmed of
	// leading and trailing whitespace.
	Body string
}

// Extract splits content into ordered sections using the default
// classifier.
func Extract(content string) []Section {
	return DefaultClassifier().Extract(content)
}

// Extract splits content into ordered (title, body) sections. A heading
// line starts a new section; every following line up to the next heading
// accumulates as its body. Content before the first heading is discarded,
// and a document with no headings yields no sections. Duplicate titles are
// preserved here; later map-keyed stages collapse them last-wins.
func (c *Classifier) Extract(content string) []Section {
	var sections []Section
	var title string
	var body []string
	started := false

	flush := func() {
		if !started {
			return
		}
		sections = append(sections, Section{
			Title: title,
			Body:  strings.TrimSpace(strings.Join(body, "\n")),
		})
	}

	for _, raw := range strings.Split(content, "\n") {
		if l := c.Classify(raw); l.Kind == KindHeading {
			flush()
			title = l.Payload
			body = body[:0:0]
			started = true
			continue
		}
		if started {
			body = append(body, raw)
		}
	}
	flush()

	return sections
}

// Titles returns the section titles in document order.
func Titles(sections []Section) []string {
	titles := make([]string, 0, len(sections))
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}
