// Package parser extracts searchable text fragments from component sources.
//
// Structured scripts (.ts, .tsx) are parsed with the tree-sitter TSX grammar
// and walked in document order, collecting markup text and string-valued
// markup attributes. Plain scripts (.js, .jsx) are never parsed: the search
// term is compiled as a case-insensitive ECMAScript pattern and every match
// is returned verbatim.
package parser

import (
	"strings"

	"github.com/dlclark/regexp2"

	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// Extractor holds the per-run search term in both of its compiled forms.
// It carries no mutable state and is safe for concurrent use.
type Extractor struct {
	term      string
	lowerTerm string

	pattern    *regexp2.Regexp
	patternErr error
}

// NewExtractor prepares an extractor for term. An invalid pattern is not
// reported here: it surfaces as a PatternError from every plain-script
// extraction so the scanner can isolate it per file.
func NewExtractor(term string) *Extractor {
	e := &Extractor{
		term:      term,
		lowerTerm: strings.ToLower(term),
	}
	if term != "" {
		re, err := regexp2.Compile(term, regexp2.IgnoreCase|regexp2.ECMAScript)
		if err != nil {
			e.patternErr = indexerrors.NewPatternError(term, err)
		} else {
			e.pattern = re
		}
	}
	return e
}

// Term returns the search term the extractor was built with.
func (e *Extractor) Term() string {
	return e.term
}

// Extract returns the fragments of content for the given file kind, in
// emission order. Unsupported kinds yield no fragments.
func (e *Extractor) Extract(content []byte, kind types.FileKind) ([]string, error) {
	switch kind {
	case types.PlainScript:
		return e.matchPlain(content)
	case types.StructuredScript:
		return e.walkStructured(content)
	default:
		return nil, nil
	}
}

// Extract is a convenience for one-off extraction with a fresh Extractor.
func Extract(content []byte, kind types.FileKind, term string) ([]string, error) {
	return NewExtractor(term).Extract(content, kind)
}

// matches reports whether text passes the term filter used for structured
// fragments: an empty term accepts everything, otherwise a case-insensitive
// substring test.
func (e *Extractor) matches(text string) bool {
	if e.term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(text), e.lowerTerm)
}
