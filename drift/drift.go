// Package drift fingerprints specification sections and classifies them
// against the previous run's snapshot.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/c360studio/specdrift/document"
)

// SectionInfo records a section's fingerprint and whether its body changed
// since the snapshot. The hash is a pure function of the body bytes,
// independent of title, position, or neighboring sections.
type SectionInfo struct {
	Title   string `json:"title"`
	Hash    string `json:"hash"`
	Changed bool   `json:"changed"`
}

// Hash returns the hex SHA-256 digest of body.
func Hash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Detect fingerprints each section and marks it changed when the snapshot
// holds a different hash for the same title. A title absent from the
// snapshot is never marked changed; it is only classified as new by Diff.
func Detect(sections []document.Section, snapshot map[string]string) []SectionInfo {
	infos := make([]SectionInfo, 0, len(sections))
	for _, s := range sections {
		h := Hash(s.Body)
		prev, ok := snapshot[s.Title]
		infos = append(infos, SectionInfo{
			Title:   s.Title,
			Hash:    h,
			Changed: ok && prev != h,
		})
	}
	return infos
}

// Diff returns the titles added and removed relative to the snapshot as
// plain set differences, each sorted. Hash values play no part.
func Diff(current []SectionInfo, snapshot map[string]string) (added, removed []string) {
	added = []string{}
	removed = []string{}

	currentSet := make(map[string]bool, len(current))
	for _, s := range current {
		currentSet[s.Title] = true
	}

	for title := range currentSet {
		if _, ok := snapshot[title]; !ok {
			added = append(added, title)
		}
	}
	for title := range snapshot {
		if !currentSet[title] {
			removed = append(removed, title)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
