// Package pathutil converts between filesystem paths and the '/'-separated,
// root-relative form stored in the search index.
//
// The indexer walks the filesystem with absolute paths but every path that
// leaves the process (index entries, exclusion checks, logical component names)
// uses the relative slash form so artifacts are identical across machines.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize converts both '\' and the OS separator to '/'.
//
// Backslashes are rewritten even on Unix so that patterns and paths coming from
// Windows-authored config files compare equal.
func Normalize(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}

// ToRelative converts a path to a '/'-separated path relative to rootDir.
//
// Unlike a display helper, paths outside the root stay relative ("../lib/x.ts")
// because index entries must never embed machine-specific absolute prefixes.
// When no relative form exists (different volumes) the normalized input is returned.
//
// Examples:
//   - ToRelative("/home/u/app/src/Button.tsx", "/home/u/app") → "src/Button.tsx"
//   - ToRelative("/home/u/lib/x.ts", "/home/u/app") → "../lib/x.ts"
//   - ToRelative("src/Button.tsx", "/home/u/app") → "src/Button.tsx"
func ToRelative(p, rootDir string) string {
	if p == "" || rootDir == "" || !filepath.IsAbs(p) {
		return Normalize(p)
	}

	rel, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(p))
	if err != nil {
		return Normalize(p)
	}
	return Normalize(rel)
}

// Resolve joins a possibly relative path onto rootDir. Absolute paths are
// returned cleaned.
func Resolve(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rootDir, filepath.FromSlash(p))
}

// Ancestors returns the parent directories of a '/'-separated path from the
// outermost to the innermost, excluding the path itself.
//
//	Ancestors("a/b/c.tsx") → ["a", "a/b"]
func Ancestors(p string) []string {
	p = strings.TrimSuffix(p, "/")
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && i > 0 {
			out = append(out, p[:i])
		}
	}
	return out
}
