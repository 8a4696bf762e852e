// Package coverage computes the two lexical coverage metrics: keyword
// presence across companion documents and section-mapping coverage over
// annotated tests. Both are deliberately heuristic substring signals, not
// semantic verification.
package coverage

import (
	"regexp"
	"sort"
	"strings"
)

var (
	separatorPattern  = regexp.MustCompile(`[-_]+`)
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text and reduces it to space-separated alphanumeric
// runs so keyword matching ignores punctuation and separator style.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = separatorPattern.ReplaceAllString(t, " ")
	t = nonAlnumPattern.ReplaceAllString(t, " ")
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// KeywordReport holds per-keyword presence grouped by category, plus the
// overall percentage of keywords found.
type KeywordReport struct {
	// Presence maps category → keyword → found.
	Presence map[string]map[string]bool

	// Percent is present/total*100, or 0 when no keywords are configured.
	Percent float64

	// keywords retains the configured keyword order per category so
	// rendered digests stay deterministic.
	keywords map[string][]string
}

// Keywords reports which representative keywords occur, in normalized
// form, anywhere in the combined companion documents.
func Keywords(categories map[string][]string, docs []string) KeywordReport {
	normText := Normalize(strings.Join(docs, "\n"))

	rep := KeywordReport{
		Presence: make(map[string]map[string]bool, len(categories)),
		keywords: make(map[string][]string, len(categories)),
	}

	total, present := 0, 0
	for cat, kws := range categories {
		rep.Presence[cat] = make(map[string]bool, len(kws))
		rep.keywords[cat] = append([]string(nil), kws...)
		for _, kw := range kws {
			found := strings.Contains(normText, Normalize(kw))
			rep.Presence[cat][kw] = found
			total++
			if found {
				present++
			}
		}
	}

	if total > 0 {
		rep.Percent = float64(present) / float64(total) * 100.0
	}
	return rep
}

// Categories returns the category names in sorted order.
func (r KeywordReport) Categories() []string {
	cats := make([]string, 0, len(r.Presence))
	for cat := range r.Presence {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// KeywordsFor returns the category's keywords in configured order.
func (r KeywordReport) KeywordsFor(category string) []string {
	return r.keywords[category]
}

// Uncovered returns, for each category with at least one miss, the absent
// keywords in configured order. Categories with full coverage are omitted.
func (r KeywordReport) Uncovered() map[string][]string {
	uncovered := make(map[string][]string)
	for cat, kws := range r.keywords {
		var missing []string
		for _, kw := range kws {
			if !r.Presence[cat][kw] {
				missing = append(missing, kw)
			}
		}
		if len(missing) > 0 {
			uncovered[cat] = missing
		}
	}
	return uncovered
}
