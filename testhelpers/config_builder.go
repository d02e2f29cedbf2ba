// Package testhelpers provides shared utilities for testing project-indexer
package testhelpers

import (
	"github.com/standardbeagle/project-indexer/internal/config"
)

// TestConfigBuilder provides a fluent API for building test configs with safe defaults
// Usage:
//
//	cfg := testhelpers.NewTestConfigBuilder(project.Root()).
//		WithSources("src/components").
//		WithExclusions("**/ui/**").
//		Build()
type TestConfigBuilder struct {
	cfg *config.Config
}

// NewTestConfigBuilder starts from the built-in defaults rooted at projectRoot,
// with a short watch debounce so watch tests stay fast.
func NewTestConfigBuilder(projectRoot string) *TestConfigBuilder {
	cfg := config.Default(projectRoot)
	cfg.Watch.DebounceMs = 10
	return &TestConfigBuilder{cfg: cfg}
}

// WithSources replaces the source roots
func (b *TestConfigBuilder) WithSources(sources ...string) *TestConfigBuilder {
	b.cfg.Sources = sources
	return b
}

// WithExclusions replaces the exclusion patterns
func (b *TestConfigBuilder) WithExclusions(patterns ...string) *TestConfigBuilder {
	b.cfg.Exclude = append([]string{}, patterns...)
	return b
}

// WithSearchTerm sets the build-time search term
func (b *TestConfigBuilder) WithSearchTerm(term string) *TestConfigBuilder {
	b.cfg.SearchTerm = term
	return b
}

// WithOutputDir sets the artifact directory
func (b *TestConfigBuilder) WithOutputDir(dir string) *TestConfigBuilder {
	b.cfg.OutputDir = dir
	return b
}

// WithDebounce sets the watch debounce in milliseconds
func (b *TestConfigBuilder) WithDebounce(ms int) *TestConfigBuilder {
	b.cfg.Watch.DebounceMs = ms
	return b
}

// Build returns the config
func (b *TestConfigBuilder) Build() *config.Config {
	return b.cfg
}
