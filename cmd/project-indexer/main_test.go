package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/project-indexer/internal/types"
	"github.com/standardbeagle/project-indexer/testhelpers"
)

// runApp runs the CLI in-process and returns stdout
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"project-indexer"}, args...))
	return stdout.String(), err
}

func setupProject(t *testing.T) *testhelpers.ProjectBuilder {
	return testhelpers.NewProjectBuilder(t).
		AddComponent("src/components/Button.tsx", testhelpers.Component{
			Name:          "Button",
			Tag:           "button",
			Attrs:         []testhelpers.Attr{{Name: "label", Value: "Search now"}},
			Text:          "Click",
			DefaultExport: true,
		}).
		AddComponent("src/components/ui/Dialog.tsx", testhelpers.Component{
			Name:          "Dialog",
			Text:          "Search dialog",
			DefaultExport: true,
		}).
		AddFile("src/components/legacy.js", "export const title = \"Legacy search page\";\n")
}

func TestBuildCommand(t *testing.T) {
	project := setupProject(t)

	out, err := runApp(t, "--root", project.Root(), "build")
	require.NoError(t, err)
	assert.Contains(t, out, "🔄 Building indexes at ")
	assert.Contains(t, out, "✅ search-index.json generated with 2 entries")
	assert.Contains(t, out, "✅ componentMap generated with 1 entries at ")
	assert.Contains(t, out, "✨ All indexes built successfully")

	var entries []types.IndexEntry
	require.NoError(t, json.Unmarshal([]byte(project.ReadFile("src/data/search-index.json")), &entries))
	for _, e := range entries {
		assert.NotEqual(t, "src/components/ui/Dialog.tsx", e.Path)
	}
	assert.Contains(t, project.ReadFile("src/data/componentMap.ts"),
		`"components/Button": () => import("@/components/Button")`)
}

func TestBuildCommand_DefaultAction(t *testing.T) {
	project := setupProject(t)

	out, err := runApp(t, "-r", project.Root(), "--search-term", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ search-index.json generated with 2 entries")
}

func TestBuildCommand_Overrides(t *testing.T) {
	project := setupProject(t)

	_, err := runApp(t, "-r", project.Root(), "--exclude", "**/*.js", "-o", "public/generated", "build")
	require.NoError(t, err)

	var entries []types.IndexEntry
	require.NoError(t, json.Unmarshal([]byte(project.ReadFile("public/generated/search-index.json")), &entries))
	paths := map[string]bool{}
	for _, e := range entries {
		paths[e.Path] = true
	}
	assert.True(t, paths["src/components/ui/Dialog.tsx"], "--exclude replaces the built-in list")
	assert.False(t, paths["src/components/legacy.js"])
}

func TestBuildCommand_MissingSourceRoot(t *testing.T) {
	project := testhelpers.NewProjectBuilder(t)

	_, err := runApp(t, "-r", project.Root(), "--src", "does/not/exist", "build")
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "Error: ")
}

func TestListCommand(t *testing.T) {
	project := setupProject(t)

	out, err := runApp(t, "-r", project.Root(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "src/components/Button.tsx\n")
	assert.Contains(t, out, "src/components/legacy.js\n")
	assert.NotContains(t, out, "Dialog.tsx")
	assert.Contains(t, out, "2 files would be indexed (1 excluded)")
	assert.NoFileExists(t, project.Path("src/data/search-index.json"))
}

func TestSearchCommand(t *testing.T) {
	project := setupProject(t)
	_, err := runApp(t, "-r", project.Root(), "build")
	require.NoError(t, err)

	out, err := runApp(t, "-r", project.Root(), "search", "SEARCH")
	require.NoError(t, err)
	assert.Contains(t, out, `Found 1 matches for "SEARCH"`)
	assert.Contains(t, out, `src/components/Button.tsx: label="Search now"`)

	out, err = runApp(t, "-r", project.Root(), "search", "--group", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "components/Button.tsx\n  label=\"Search now\"\n")

	out, err = runApp(t, "-r", project.Root(), "search", "-j", "click")
	require.NoError(t, err)
	var results []types.IndexEntry
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, []types.IndexEntry{{Path: "src/components/Button.tsx", Content: "Click"}}, results)
}

func TestSearchCommand_Errors(t *testing.T) {
	project := setupProject(t)

	_, err := runApp(t, "-r", project.Root(), "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search requires a query")

	_, err = runApp(t, "-r", project.Root(), "search", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search requires a query")

	_, err = runApp(t, "-r", project.Root(), "search", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run build first")
}
