package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/project-indexer/internal/config"
)

func TestIsExcluded(t *testing.T) {
	defaults := config.DefaultExclude()

	tests := []struct {
		name     string
		path     string
		patterns []string
		expected bool
	}{
		{"wildcard directory", "src/components/ui/button.tsx", defaults, true},
		{"exact file", "src/components/theme-provider.tsx", defaults, true},
		{"named directory excludes its contents", "src/components/pages/aides/SubSide/slider/Thumb.tsx", defaults, true},
		{"nested under named directory", "src/components/pages/aides/SubSide/radio-group/a/b.tsx", defaults, true},
		{"sibling of named directory", "src/components/pages/aides/SubSide/sliders.tsx", defaults, false},
		{"regular component", "src/components/Button.tsx", defaults, false},
		{"similar directory name", "src/components/uikit/Panel.tsx", defaults, false},
		{"basename pattern anywhere", "src/a/b/Card.stories.tsx", []string{"*.stories.tsx"}, true},
		{"basename pattern directory", "src/ui/x.tsx", []string{"ui"}, true},
		{"backslash path", `src\components\ui\x.tsx`, defaults, true},
		{"leading dot slash", "./src/components/theme-provider.tsx", defaults, true},
		{"no patterns", "src/components/ui/button.tsx", nil, false},
		{"malformed pattern never matches", "src/components/Button.tsx", []string{"[unclosed"}, false},
		{"malformed pattern does not hide others", "src/components/ui/x.tsx", []string{"[unclosed", "**/ui/**"}, true},
		{"question mark", "src/components/A1.tsx", []string{"src/components/A?.tsx"}, true},
		{"single star stays in segment", "src/components/deep/A.tsx", []string{"src/components/*.tsx"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExcluded(tt.path, tt.patterns))
		})
	}
}
