// Package document provides specification document parsing: a line
// classifier shared by the section extractor and the annotation scanner,
// and extraction of ordered titled sections.
package document

import (
	"fmt"
	"regexp"
)

// Kind identifies what a single input line represents.
type Kind int

// Line kinds recognized by the classifier.
const (
	// KindOther is any line matching no recognized marker.
	KindOther Kind = iota
	// KindHeading is a top-level section heading.
	KindHeading
	// KindAnnotation is an annotation tag inside a comment.
	KindAnnotation
	// KindFunction is a function or test definition.
	KindFunction
)

// Line is the classification of one input line. Payload holds the heading
// title, the annotation value, or the function name, depending on Kind.
type Line struct {
	Kind    Kind
	Payload string
}

// DefaultTag is the annotation word recognized by the default classifier.
const DefaultTag = "@spec"

var (
	headingPattern = regexp.MustCompile(`^## +(.+?)\s*$`)

	// Function definitions in the source trees we scan: Go functions and
	// methods, plus Rust-style free functions.
	functionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^func\s+(?:\([^)]*\)\s*)?([A-Za-z0-9_]+)\s*\(`),
		regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+([A-Za-z0-9_]+)\s*\(`),
	}
)

// Classifier assigns a Kind to input lines. Construct with NewClassifier
// or use DefaultClassifier.
type Classifier struct {
	heading    *regexp.Regexp
	annotation *regexp.Regexp
	functions  []*regexp.Regexp
}

// NewClassifier creates a classifier recognizing the given annotation tag
// (e.g. "@spec") inside //, /// or # comments. An empty tag falls back to
// DefaultTag.
func NewClassifier(tag string) *Classifier {
	if tag == "" {
		tag = DefaultTag
	}
	return &Classifier{
		heading:    headingPattern,
		annotation: regexp.MustCompile(fmt.Sprintf(`^\s*(?://+|#)\s*%s\s+(.+?)\s*$`, regexp.QuoteMeta(tag))),
		functions:  functionPatterns,
	}
}

var defaultClassifier = NewClassifier(DefaultTag)

// DefaultClassifier returns the shared classifier for the default marker
// syntax.
func DefaultClassifier() *Classifier {
	return defaultClassifier
}

// Classify reports what the line is. Heading wins over annotation wins over
// function; anything else is KindOther.
func (c *Classifier) Classify(line string) Line {
	if m := c.heading.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeading, Payload: m[1]}
	}
	if m := c.annotation.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindAnnotation, Payload: m[1]}
	}
	for _, p := range c.functions {
		if m := p.FindStringSubmatch(line); m != nil {
			return Line{Kind: KindFunction, Payload: m[1]}
		}
	}
	return Line{Kind: KindOther}
}
