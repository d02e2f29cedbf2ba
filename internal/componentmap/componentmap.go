// Package componentmap derives the lazy-loading component registry from the
// search index and renders it as a TypeScript module.
//
// Only .tsx files that appear in the index are candidates, and a candidate is
// kept only when its source text contains an `export default` construct. The
// check is textual: a commented-out default export still counts and a
// re-exported one does not.
package componentmap

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/standardbeagle/project-indexer/internal/debug"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
	"github.com/standardbeagle/project-indexer/pkg/pathutil"
)

var defaultExportPattern = regexp.MustCompile(`export\s+default\s+`)

// Options control path resolution and logical-name derivation.
type Options struct {
	Root         string // index paths are resolved against it when probing
	SourcePrefix string // stripped from the start of each path, once
	ImportAlias  string // prepended to the logical name in the loader import
}

// Candidates returns the distinct .tsx paths of entries in first-seen order.
func Candidates(entries []types.IndexEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Path, types.ComponentExtension) || seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		out = append(out, e.Path)
	}
	return out
}

// HasDefaultExport reports whether the file at path textually declares a
// default export. A read failure is logged and counts as false.
func HasDefaultExport(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read file %s: %v", path, err)
		return false
	}
	return HasDefaultExportSource(content)
}

// HasDefaultExportSource applies the default-export heuristic to source text.
func HasDefaultExportSource(content []byte) bool {
	return defaultExportPattern.Match(content)
}

// LogicalName strips prefix (once, at the start) and the .tsx extension from
// an index path.
//
//	LogicalName("src/components/Foo/Bar.tsx", "src/") == "components/Foo/Bar"
func LogicalName(p, prefix string) string {
	p = pathutil.Normalize(p)
	if prefix != "" {
		p = strings.TrimPrefix(p, prefix)
	}
	return strings.TrimSuffix(p, types.ComponentExtension)
}

// LoaderExpression is the deferred import for a logical name.
func LoaderExpression(name, alias string) string {
	return "() => import(" + quote(alias+name) + ")"
}

// Generate selects the loadable components among entries and returns one map
// entry per distinct logical name, sorted by name.
func Generate(entries []types.IndexEntry, opts Options) []types.ComponentMapEntry {
	candidates := Candidates(entries)

	seen := make(map[string]bool)
	names := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if !HasDefaultExport(pathutil.Resolve(opts.Root, p)) {
			debug.LogMap("dropping %s: no default export", p)
			continue
		}
		name := LogicalName(p, opts.SourcePrefix)
		if seen[name] {
			debug.LogMap("dropping %s: logical name %q already mapped", p, name)
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]types.ComponentMapEntry, 0, len(names))
	for _, name := range names {
		out = append(out, types.ComponentMapEntry{
			LogicalName:      name,
			LoaderExpression: LoaderExpression(name, opts.ImportAlias),
		})
	}
	return out
}

const header = `
// This file is auto-generated by project-indexer
// Do not edit manually

// eslint-disable-next-line @typescript-eslint/no-explicit-any
import type { ComponentType } from "react";

// eslint-disable-next-line @typescript-eslint/no-explicit-any
export const componentMap: Record<string, () => Promise<{ default: ComponentType<any> }>> = {
`

// Render produces the generated module source for entries, in the given
// order.
func Render(entries []types.ComponentMapEntry) string {
	var b strings.Builder
	b.WriteString(header)
	for i, e := range entries {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(quote(e.LogicalName))
		b.WriteString(": ")
		b.WriteString(e.LoaderExpression)
	}
	b.WriteString("\n};\n")
	return b.String()
}

// Write renders entries to path, creating the directory if needed.
func Write(path string, entries []types.ComponentMapEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return indexerrors.NewStageError(indexerrors.StageGenerate, "create output directory", err).WithPath(filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(Render(entries)), 0644); err != nil {
		return indexerrors.NewStageError(indexerrors.StageGenerate, "write component map", err).WithPath(path)
	}
	return nil
}

// quote returns s as a double-quoted string literal valid in TypeScript.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(b)
}
