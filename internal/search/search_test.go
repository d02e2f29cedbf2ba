package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
)

var sampleEntries = []types.IndexEntry{
	{Path: "src/components/Button.tsx", Content: `label="Search now"`},
	{Path: "src/components/Button.tsx", Content: "Click"},
	{Path: "src/components/Header.tsx", Content: "Site search"},
	{Path: "components/Footer.tsx", Content: "Contact"},
}

func writeIndex(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIndex_Search(t *testing.T) {
	ix := NewIndex(sampleEntries)

	tests := []struct {
		query    string
		expected []types.IndexEntry
	}{
		{"search", []types.IndexEntry{sampleEntries[0], sampleEntries[2]}},
		{"SEARCH", []types.IndexEntry{sampleEntries[0], sampleEntries[2]}},
		{"click", []types.IndexEntry{sampleEntries[1]}},
		{"missing", []types.IndexEntry{}},
		{"", sampleEntries},
		{" ", []types.IndexEntry{sampleEntries[0], sampleEntries[2]}},
		{"   ", []types.IndexEntry{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ix.Search(tt.query)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGroup(t *testing.T) {
	groups, order := Group(sampleEntries)

	assert.Equal(t, []string{
		"src/components/Button.tsx",
		"src/components/Header.tsx",
		"components/Footer.tsx",
	}, order)
	assert.Equal(t, []string{`label="Search now"`, "Click"}, groups["src/components/Button.tsx"])
	assert.Equal(t, []string{"Contact"}, groups["components/Footer.tsx"])
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "components/Button.tsx", CleanPath("src/components/Button.tsx"))
	assert.Equal(t, "components/Button.tsx", CleanPath("components/Button.tsx"))
	assert.Equal(t, "lib/src/x.tsx", CleanPath("lib/src/x.tsx"))
	assert.Equal(t, "", CleanPath(""))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search-index.json")
	writeIndex(t, path, `[{"path": "a.tsx", "content": "Alpha"}]`)

	ix, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Len())
	assert.Equal(t, []types.IndexEntry{{Path: "a.tsx", Content: "Alpha"}}, ix.Entries())

	_, err = Load(filepath.Join(dir, "missing.json"))
	var fileErr *indexerrors.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, indexerrors.ErrorTypeFileNotFound, fileErr.Type)

	writeIndex(t, path, `{"not": "an array"}`)
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSearcher_CachesAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search-index.json")
	writeIndex(t, path, `[{"path": "a.tsx", "content": "Search alpha"}]`)

	s, err := NewSearcher(path, 8)
	require.NoError(t, err)

	got, err := s.Search("search")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1, stats.CachedQueries)

	// A rebuilt artifact with a different size and mtime replaces the index.
	writeIndex(t, path, `[
  {"path": "a.tsx", "content": "Search alpha"},
  {"path": "b.tsx", "content": "Search beta"}
]`)
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	got, err = s.Search("search")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	stats, err = s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.CachedQueries, "cache is purged on reload")
}

func TestSearcher_EmptyQueryMatchesEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search-index.json")
	writeIndex(t, path, `[{"path": "a.tsx", "content": "Alpha"}, {"path": "b.tsx", "content": "Beta"}]`)

	s, err := NewSearcher(path, 4)
	require.NoError(t, err)
	got, err := s.Search("")
	require.NoError(t, err)
	assert.Equal(t, []types.IndexEntry{
		{Path: "a.tsx", Content: "Alpha"},
		{Path: "b.tsx", Content: "Beta"},
	}, got)

	got, err = s.Search("  ")
	require.NoError(t, err)
	assert.Equal(t, []types.IndexEntry{}, got)
}

func TestSearcher_MissingIndex(t *testing.T) {
	s, err := NewSearcher(filepath.Join(t.TempDir(), "nope.json"), 4)
	require.NoError(t, err)

	_, err = s.Search("x")
	assert.Error(t, err)
	assert.Error(t, s.Reload())
}
