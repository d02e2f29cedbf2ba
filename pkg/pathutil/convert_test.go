package pathutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-style absolute paths")
	}

	tests := []struct {
		name     string
		path     string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			path:     "/home/user/project/src/components/Button.tsx",
			rootDir:  "/home/user/project",
			expected: "src/components/Button.tsx",
		},
		{
			name:     "root level file",
			path:     "/home/user/project/index.ts",
			rootDir:  "/home/user/project",
			expected: "index.ts",
		},
		{
			name:     "same directory",
			path:     "/home/user/project",
			rootDir:  "/home/user/project",
			expected: ".",
		},
		{
			name:     "already relative path",
			path:     "src/main.ts",
			rootDir:  "/home/user/project",
			expected: "src/main.ts",
		},
		{
			name:     "path outside root stays relative",
			path:     "/home/user/shared/ui/Card.tsx",
			rootDir:  "/home/user/project",
			expected: "../shared/ui/Card.tsx",
		},
		{
			name:     "unclean inputs",
			path:     "/home/user/project/./src/../src/App.tsx",
			rootDir:  "/home/user/project/",
			expected: "src/App.tsx",
		},
		{
			name:     "empty root",
			path:     "/abs/file.ts",
			rootDir:  "",
			expected: "/abs/file.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRelative(tt.path, tt.rootDir))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "src/components/Button.tsx", Normalize(`src\components\Button.tsx`))
	assert.Equal(t, "src/components/Button.tsx", Normalize("src/components/Button.tsx"))
	assert.Equal(t, "", Normalize(""))
}

func TestResolve(t *testing.T) {
	root := filepath.FromSlash("/project")
	if runtime.GOOS == "windows" {
		t.Skip("unix-style absolute paths")
	}
	assert.Equal(t, "/project/src/components", Resolve(root, "src/components"))
	assert.Equal(t, "/elsewhere/lib", Resolve(root, "/elsewhere/./lib"))
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b"}, Ancestors("a/b/c.tsx"))
	assert.Equal(t, []string{"src", "src/components", "src/components/ui"}, Ancestors("src/components/ui/button.tsx"))
	assert.Nil(t, Ancestors("Button.tsx"))
	assert.Equal(t, []string{"../shared"}, Ancestors("../shared/x.ts")[1:])
	assert.Equal(t, []string{"a"}, Ancestors("a/b/"))
}
