package indexing

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/project-indexer/pkg/pathutil"
)

// IsExcluded reports whether p matches any of the exclusion patterns.
//
// p is normalized to '/' separators first. A pattern matches when it matches
// the full path, or, for a pattern without a '/', the basename. The same test
// is applied to every ancestor directory of p, so a pattern naming a
// directory excludes everything beneath it. Malformed patterns never match.
func IsExcluded(p string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	p = strings.TrimPrefix(pathutil.Normalize(p), "./")

	candidates := append(pathutil.Ancestors(p), p)
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pathutil.Normalize(pattern), "./")
		if pattern == "" {
			continue
		}
		baseOnly := !strings.Contains(pattern, "/")
		for _, c := range candidates {
			if matchPattern(pattern, c, baseOnly) {
				return true
			}
		}
	}
	return false
}

func matchPattern(pattern, candidate string, baseOnly bool) bool {
	if baseOnly {
		candidate = path.Base(candidate)
	}
	matched, err := doublestar.Match(pattern, candidate)
	if err != nil {
		// bad pattern shouldn't break scanning
		return false
	}
	return matched
}
