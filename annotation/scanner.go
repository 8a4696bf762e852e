// Package annotation scans source trees for spec annotation tags and binds
// them to the test functions that follow, producing the section→test
// mapping artifact.
package annotation

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/specdrift/document"
)

// scan states for the per-file machine. An annotation line enters
// Accumulating; a function line flushes pending values and returns to
// Idle. Pending values left at end-of-file are dropped.
type scanState int

const (
	stateIdle scanState = iota
	stateAccumulating
)

// Scanner walks configured source files and builds the section to
// test-identifier mapping. Test identifiers have the form
// "<relative/slash/path>::<functionName>".
type Scanner struct {
	root       string
	patterns   []string
	classifier *document.Classifier
	logger     *slog.Logger
}

// NewScanner creates a scanner resolving patterns under root. The tag is
// the annotation word recognized in comments; empty means the default.
func NewScanner(root string, patterns []string, tag string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		root:       root,
		patterns:   patterns,
		classifier: document.NewClassifier(tag),
		logger:     logger,
	}
}

// Scan resolves the path patterns and scans every matching file. Files
// that disappear between globbing and reading are skipped.
func (s *Scanner) Scan() (*Mapping, error) {
	files, err := s.resolveFiles()
	if err != nil {
		return nil, err
	}

	m := NewMapping()
	for _, rel := range files {
		f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
		if err != nil {
			s.logger.Warn("skipping unreadable source file",
				slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		s.scanFile(rel, f, m)
		_ = f.Close()
	}

	s.logger.Debug("annotation scan complete",
		slog.Int("files", len(files)), slog.Int("sections", len(m.Sections)))
	return m, nil
}

// scanFile runs the two-state machine over one file's lines.
func (s *Scanner) scanFile(relPath string, r io.Reader, m *Mapping) {
	state := stateIdle
	var pending []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		switch l := s.classifier.Classify(scanner.Text()); l.Kind {
		case document.KindAnnotation:
			pending = append(pending, l.Payload)
			state = stateAccumulating
		case document.KindFunction:
			if state == stateAccumulating {
				ident := relPath + "::" + l.Payload
				for _, section := range pending {
					m.Add(section, ident)
				}
				pending = pending[:0:0]
				state = stateIdle
			}
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("source file scan aborted",
			slog.String("path", relPath), slog.String("error", err.Error()))
	}
	// Trailing annotations with no following function are dropped.
}

// resolveFiles expands the doublestar patterns relative to root and
// returns deduplicated slash-separated relative paths, sorted for
// deterministic identifier order.
func (s *Scanner) resolveFiles() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	fsys := os.DirFS(s.root)
	for _, pattern := range s.patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
			if err != nil || info.IsDir() {
				continue
			}
			seen[rel] = true
			files = append(files, rel)
		}
	}

	sort.Strings(files)
	return files, nil
}
