package parser

import (
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
)

// matchPlain returns every non-overlapping, non-empty match of the search
// pattern in content. An empty term matches nothing.
func (e *Extractor) matchPlain(content []byte) ([]string, error) {
	if e.term == "" {
		return nil, nil
	}
	if e.patternErr != nil {
		return nil, e.patternErr
	}

	var out []string
	m, err := e.pattern.FindStringMatch(string(content))
	for m != nil && err == nil {
		if s := m.String(); s != "" {
			out = append(out, s)
		}
		m, err = e.pattern.FindNextMatch(m)
	}
	if err != nil {
		return nil, indexerrors.NewPatternError(e.term, err)
	}
	return out, nil
}
