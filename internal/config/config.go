package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/standardbeagle/project-indexer/internal/debug"
	"github.com/standardbeagle/project-indexer/pkg/pathutil"
)

// Built-in defaults used when neither a config file, the environment nor a
// flag supplies a value.
const (
	DefaultSource           = "src/components"
	DefaultOutputDir        = "src/data"
	DefaultIndexFile        = "search-index.json"
	DefaultComponentMapFile = "componentMap.ts"
	DefaultSourcePrefix     = "src/"
	DefaultImportAlias      = "@/"
	DefaultWatchDebounceMs  = 300
	DefaultServeAddr        = ":3030"
	DefaultCacheSize        = 256
)

// DefaultExclude returns the built-in exclusion patterns. A fresh slice is
// returned on every call so callers can never mutate the shared defaults.
func DefaultExclude() []string {
	return []string{
		"src/components/theme-provider.tsx",
		"src/components/pages/aides/SubSide/radio-group",
		"src/components/pages/aides/SubSide/slider",
		"**/ui/**",
	}
}

// Config is the resolved configuration for one run. It is built once by
// Resolve and treated as read-only afterwards.
type Config struct {
	Root         string // absolute invocation root; index paths are relative to it
	Sources      []string
	SearchTerm   string
	OutputDir    string
	Exclude      []string
	Output       Output
	ComponentMap ComponentMap
	Watch        Watch
	Serve        Serve
}

type Output struct {
	IndexFile        string
	ComponentMapFile string
}

type ComponentMap struct {
	SourcePrefix string // stripped from index paths to form logical names
	ImportAlias  string // prepended to logical names in loader imports
}

type Watch struct {
	DebounceMs int
}

type Serve struct {
	Addr      string
	CacheSize int    // query result cache entries
	IndexPath string // empty means IndexPath() of the build config
}

// Layer is one partially specified configuration source. Empty strings and
// nil slices mean "not set"; a non-nil empty Exclude explicitly clears the
// exclusion list.
type Layer struct {
	Sources      []string
	Exclude      []string
	OutputDir    string
	SearchTerm   string
	SourcePrefix string
	ImportAlias  string
}

// Overrides are the explicit per-invocation values, normally from CLI flags.
type Overrides = Layer

// Default returns the built-in configuration rooted at root.
func Default(root string) *Config {
	return &Config{
		Root:       root,
		Sources:    []string{DefaultSource},
		SearchTerm: "",
		OutputDir:  DefaultOutputDir,
		Exclude:    DefaultExclude(),
		Output: Output{
			IndexFile:        DefaultIndexFile,
			ComponentMapFile: DefaultComponentMapFile,
		},
		ComponentMap: ComponentMap{
			SourcePrefix: DefaultSourcePrefix,
			ImportAlias:  DefaultImportAlias,
		},
		Watch: Watch{DebounceMs: DefaultWatchDebounceMs},
		Serve: Serve{Addr: DefaultServeAddr, CacheSize: DefaultCacheSize},
	}
}

// Resolve builds the run configuration: built-in defaults, then the config
// file (if configPath is set), then the environment, then overrides.
// A config file that is missing or cannot be parsed is reported as a warning
// and ignored.
func Resolve(root, configPath string, overrides Overrides) (*Config, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg := Default(absRoot)

	if configPath != "" {
		fileLayer, err := LoadFile(pathutil.Resolve(absRoot, configPath))
		if err != nil {
			log.Printf("Warning: failed to read config file %s: %v. Using default options.", configPath, err)
		} else {
			debug.Log(debug.ComponentConfig, "applied config file %s", configPath)
			cfg.Apply(fileLayer)
		}
	}

	envLayer, err := LoadEnv(absRoot)
	if err != nil {
		log.Printf("Warning: failed to read environment file: %v", err)
	} else {
		cfg.Apply(envLayer)
	}

	cfg.Apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays every field that l sets onto c.
func (c *Config) Apply(l Layer) {
	if len(l.Sources) > 0 {
		c.Sources = append([]string(nil), l.Sources...)
	}
	if l.Exclude != nil {
		c.Exclude = append([]string{}, l.Exclude...)
	}
	if l.OutputDir != "" {
		c.OutputDir = l.OutputDir
	}
	if l.SearchTerm != "" {
		c.SearchTerm = l.SearchTerm
	}
	if l.SourcePrefix != "" {
		c.ComponentMap.SourcePrefix = l.SourcePrefix
	}
	if l.ImportAlias != "" {
		c.ComponentMap.ImportAlias = l.ImportAlias
	}
}

// OutputPath is the absolute output directory.
func (c *Config) OutputPath() string {
	return pathutil.Resolve(c.Root, c.OutputDir)
}

// IndexPath is the absolute path of the search index artifact.
func (c *Config) IndexPath() string {
	return filepath.Join(c.OutputPath(), c.Output.IndexFile)
}

// ComponentMapPath is the absolute path of the generated component map.
func (c *Config) ComponentMapPath() string {
	return filepath.Join(c.OutputPath(), c.Output.ComponentMapFile)
}

// ServeIndexPath is the artifact the query surfaces read.
func (c *Config) ServeIndexPath() string {
	if c.Serve.IndexPath != "" {
		return pathutil.Resolve(c.Root, c.Serve.IndexPath)
	}
	return c.IndexPath()
}

// SourcePaths returns the absolute source roots in configured order.
func (c *Config) SourcePaths() []string {
	out := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, pathutil.Resolve(c.Root, s))
	}
	return out
}
