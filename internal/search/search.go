// Package search answers substring queries over a built search index.
//
// It is the runtime counterpart of the indexing pipeline: the index artifact
// is loaded as-is and filtered with a case-insensitive substring test. There
// is no ranking and no fuzzy matching.
package search

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// Index is a loaded search index.
type Index struct {
	entries []types.IndexEntry
}

// NewIndex wraps entries without copying them.
func NewIndex(entries []types.IndexEntry) *Index {
	return &Index{entries: entries}
}

// Load reads an index artifact written by the pipeline.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, indexerrors.NewFileError("read", path, err)
	}
	var entries []types.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode search index %s: %w", path, err)
	}
	return NewIndex(entries), nil
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Entries returns the entries in index order.
func (ix *Index) Entries() []types.IndexEntry {
	return ix.entries
}

// Search returns the entries whose content contains query, ignoring case,
// in index order. The empty query matches every entry. The result is never
// nil.
func (ix *Index) Search(query string) []types.IndexEntry {
	out := []types.IndexEntry{}
	q := strings.ToLower(query)
	for _, e := range ix.entries {
		if strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out
}

// Group collects the contents of entries per path. The second result lists
// the paths in first-seen order.
func Group(entries []types.IndexEntry) (types.GroupedResults, []string) {
	groups := make(types.GroupedResults)
	var order []string
	for _, e := range entries {
		if _, ok := groups[e.Path]; !ok {
			order = append(order, e.Path)
		}
		groups[e.Path] = append(groups[e.Path], e.Content)
	}
	return groups, order
}

// CleanPath strips a leading "src/" for display.
func CleanPath(p string) string {
	return strings.TrimPrefix(p, "src/")
}
