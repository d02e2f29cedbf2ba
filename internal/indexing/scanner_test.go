package indexing

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/project-indexer/internal/config"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/parser"
	"github.com/standardbeagle/project-indexer/internal/security"
	"github.com/standardbeagle/project-indexer/internal/types"
	"github.com/standardbeagle/project-indexer/testhelpers"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func newFixture(t *testing.T) *testhelpers.ProjectBuilder {
	t.Helper()
	return testhelpers.NewProjectBuilder(t).
		AddComponent("src/components/Button.tsx", testhelpers.Component{
			Name:          "Button",
			Attrs:         []testhelpers.Attr{{Name: "label", Value: "Search now"}},
			Text:          "Click",
			DefaultExport: true,
		}).
		AddComponent("src/components/ui/Hidden.tsx", testhelpers.Component{
			Name:          "Hidden",
			Text:          "Search hidden",
			DefaultExport: true,
		}).
		AddFile("src/components/legacy.js", "// search helper\nexport const x = 1;\n").
		AddFile("src/components/.cache/Secret.tsx", "const S = () => <p>Search secret</p>;\n").
		AddFile("src/components/.Dotfile.tsx", "const D = () => <p>Search dot</p>;\n").
		AddFile("src/components/styles.css", ".search { color: red; }\n")
}

func TestScanner_Scan(t *testing.T) {
	project := newFixture(t)
	s := NewScanner(project.Root(), config.DefaultExclude(), parser.NewExtractor("search"))

	result, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)

	assert.Equal(t, []types.IndexEntry{
		{Path: "src/components/Button.tsx", Content: `label="Search now"`},
		{Path: "src/components/legacy.js", Content: "search"},
	}, result.Entries)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.Excluded)
	assert.Empty(t, result.Failed)
	assert.NoError(t, result.FailedError())
}

func TestScanner_EmptyTermCollectsAllMarkup(t *testing.T) {
	project := newFixture(t)
	s := NewScanner(project.Root(), config.DefaultExclude(), parser.NewExtractor(""))

	result, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)

	assert.Equal(t, []types.IndexEntry{
		{Path: "src/components/Button.tsx", Content: `label="Search now"`},
		{Path: "src/components/Button.tsx", Content: "Click"},
	}, result.Entries, "plain scripts yield nothing for an empty term")
}

func TestScanner_ExclusionPrecedesExtraction(t *testing.T) {
	project := newFixture(t)
	// Invalid pattern: extracting legacy.js would fail, so a clean run proves
	// the excluded file was never read.
	s := NewScanner(project.Root(), []string{"**/*.js", "**/ui/**"}, parser.NewExtractor("(unclosed"))

	result, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)
	assert.Empty(t, result.Failed)
	assert.Equal(t, 2, result.Excluded)
}

func TestScanner_PerFileFailuresAreIsolated(t *testing.T) {
	logs := captureLog(t)
	project := newFixture(t).
		AddComponent("src/components/Card.tsx", testhelpers.Component{
			Name:          "Card",
			Text:          "(unclosed text",
			DefaultExport: true,
		})
	s := NewScanner(project.Root(), config.DefaultExclude(), parser.NewExtractor("(unclosed"))

	result, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "src/components/legacy.js", result.Failed[0].Path)
	var patErr *indexerrors.PatternError
	assert.ErrorAs(t, result.Failed[0].Err, &patErr)
	assert.Equal(t, []string{"src/components/legacy.js"}, result.FailedPaths())
	assert.Error(t, result.FailedError())

	assert.Equal(t, []types.IndexEntry{
		{Path: "src/components/Card.tsx", Content: "(unclosed text"},
	}, result.Entries)
	assert.Contains(t, logs.String(), "Warning: error processing file src/components/legacy.js")
}

func TestScanner_BinarySourceIsIsolated(t *testing.T) {
	captureLog(t)
	project := newFixture(t).
		AddFile("src/components/Bundle.tsx", strings.Repeat("\x00\x01\x02a", 128*1024))
	s := NewScanner(project.Root(), config.DefaultExclude(), parser.NewExtractor(""))

	result, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)

	require.Equal(t, []string{"src/components/Bundle.tsx"}, result.FailedPaths())
	var fileErr *indexerrors.FileError
	require.ErrorAs(t, result.Failed[0].Err, &fileErr)
	assert.ErrorIs(t, fileErr, security.ErrBinaryContent)
	assert.NotEmpty(t, result.Entries, "other files are still indexed")
}

func TestScanner_RootOrder(t *testing.T) {
	project := testhelpers.NewProjectBuilder(t).
		AddFile("src/a/A.tsx", "const A = () => <p>alpha</p>;\n").
		AddFile("src/b/B.tsx", "const B = () => <p>beta</p>;\n")
	s := NewScanner(project.Root(), nil, parser.NewExtractor(""))

	result, err := s.Scan(context.Background(), []string{"src/b", "src/a"})
	require.NoError(t, err)
	assert.Equal(t, []types.IndexEntry{
		{Path: "src/b/B.tsx", Content: "beta"},
		{Path: "src/a/A.tsx", Content: "alpha"},
	}, result.Entries)
}

func TestScanner_RepeatedScansAreIdentical(t *testing.T) {
	project := testhelpers.NewProjectBuilder(t)
	for _, name := range []string{"H", "C", "A", "F", "B", "G", "E", "D"} {
		project.AddFile("src/components/"+name+".tsx",
			"const "+name+" = () => <p title=\"t"+name+"\">text "+name+"</p>;\n")
	}
	s := NewScanner(project.Root(), nil, parser.NewExtractor(""))

	a, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)
	b, err := s.Scan(context.Background(), []string{"src/components"})
	require.NoError(t, err)

	require.Len(t, a.Entries, 16)
	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, types.IndexEntry{Path: "src/components/A.tsx", Content: `title="tA"`}, a.Entries[0])
	assert.Equal(t, types.IndexEntry{Path: "src/components/H.tsx", Content: "text H"}, a.Entries[15])
}

func TestScanner_MissingSourceRoot(t *testing.T) {
	project := testhelpers.NewProjectBuilder(t)
	s := NewScanner(project.Root(), nil, parser.NewExtractor(""))

	_, err := s.Scan(context.Background(), []string{"src/missing"})
	require.Error(t, err)
	var stageErr *indexerrors.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, indexerrors.StageScan, stageErr.Stage)
	assert.Equal(t, "src/missing", stageErr.Path)
}

func TestScanner_SourceRootIsAFile(t *testing.T) {
	project := testhelpers.NewProjectBuilder(t).AddFile("src/file.tsx", "x")
	s := NewScanner(project.Root(), nil, parser.NewExtractor(""))

	_, err := s.Scan(context.Background(), []string{"src/file.tsx"})
	var stageErr *indexerrors.StageError
	require.ErrorAs(t, err, &stageErr)
}

func TestScanner_Cancelled(t *testing.T) {
	project := newFixture(t)
	s := NewScanner(project.Root(), nil, parser.NewExtractor(""))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Scan(ctx, []string{"src/components"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanner_ListFiles(t *testing.T) {
	project := newFixture(t)
	s := NewScanner(project.Root(), config.DefaultExclude(), parser.NewExtractor(""))

	files, excluded, err := s.ListFiles(context.Background(), []string{"src/components"})
	require.NoError(t, err)
	assert.Equal(t, 1, excluded)

	var rel []string
	for _, f := range files {
		rel = append(rel, f.RelPath)
	}
	assert.Equal(t, []string{"src/components/Button.tsx", "src/components/legacy.js"}, rel)
	assert.Equal(t, types.StructuredScript, files[0].Kind)
	assert.Equal(t, types.PlainScript, files[1].Kind)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".env.ts"))
	assert.True(t, isHidden("a/.cache/b.tsx"))
	assert.False(t, isHidden("a/b.tsx"))
	assert.False(t, isHidden("../shared/b.tsx"))
}
