package config

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
)

var (
	errEmpty    = errors.New("must not be empty")
	errNegative = errors.New("must not be negative")
)

// Validate checks the resolved configuration. Malformed exclusion patterns
// are only warned about: they never match, so they cannot hide files.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return indexerrors.NewConfigError("sources", "", errEmpty)
	}
	for _, s := range c.Sources {
		if strings.TrimSpace(s) == "" {
			return indexerrors.NewConfigError("sources", s, errEmpty)
		}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return indexerrors.NewConfigError("outputDir", c.OutputDir, errEmpty)
	}
	if c.Output.IndexFile == "" {
		return indexerrors.NewConfigError("output.indexFile", "", errEmpty)
	}
	if c.Output.ComponentMapFile == "" {
		return indexerrors.NewConfigError("output.componentMapFile", "", errEmpty)
	}
	if c.Watch.DebounceMs < 0 {
		return indexerrors.NewConfigError("watch.debounceMs", strconv.Itoa(c.Watch.DebounceMs), errNegative)
	}
	if c.Serve.CacheSize < 0 {
		return indexerrors.NewConfigError("serve.cacheSize", strconv.Itoa(c.Serve.CacheSize), errNegative)
	}

	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			log.Printf("Warning: exclusion pattern %q is malformed and will never match", p)
		}
	}
	return nil
}
