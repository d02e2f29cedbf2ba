package indexing

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/standardbeagle/project-indexer/internal/componentmap"
	"github.com/standardbeagle/project-indexer/internal/config"
	"github.com/standardbeagle/project-indexer/internal/parser"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// timestampLayout matches the short local time shown in the build banner.
const timestampLayout = "3:04:05 PM"

// Pipeline runs one full rebuild: scan, write the index, generate the map.
// There is no state carried between runs.
type Pipeline struct {
	cfg     *config.Config
	out io.Writer
	now func() time.Time
}

// Result describes a completed run.
type Result struct {
	Scan             *ScanResult
	Components       []types.ComponentMapEntry
	IndexPath        string
	ComponentMapPath string
	StartedAt        time.Time
	Duration         time.Duration
}

// NewPipeline creates a pipeline for cfg. Progress lines go to out; nil
// discards them.
func NewPipeline(cfg *config.Config, out io.Writer) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{cfg: cfg, out: out, now: time.Now}
}

// Config returns the configuration the pipeline runs with.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Scanner builds the scanner used by Run.
func (p *Pipeline) Scanner() *Scanner {
	return NewScanner(p.cfg.Root, p.cfg.Exclude, parser.NewExtractor(p.cfg.SearchTerm))
}

// Run performs a full rebuild. Content-level failures are reported in the
// result; infrastructure failures abort the run and are returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()
	timestamp := started.Format(timestampLayout)
	fmt.Fprintf(p.out, "\n🔄 Building indexes at %s...\n", timestamp)

	result, err := p.run(ctx, started)
	if err != nil {
		fmt.Fprintf(p.out, "❌ Error building indexes: %v\n", err)
		return nil, err
	}

	fmt.Fprintf(p.out, "✨ All indexes built successfully at %s\n", timestamp)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, started time.Time) (*Result, error) {
	scan, err := p.Scanner().Scan(ctx, p.cfg.Sources)
	if err != nil {
		return nil, err
	}
	if len(scan.Failed) > 0 {
		fmt.Fprintf(p.out, "Failed to process the following files: %s\n", strings.Join(scan.FailedPaths(), ", "))
	}

	indexPath := p.cfg.IndexPath()
	if err := WriteIndex(indexPath, scan.Entries); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "✅ %s generated with %d entries\n", p.cfg.Output.IndexFile, len(scan.Entries))

	components := componentmap.Generate(scan.Entries, componentmap.Options{
		Root:         p.cfg.Root,
		SourcePrefix: p.cfg.ComponentMap.SourcePrefix,
		ImportAlias:  p.cfg.ComponentMap.ImportAlias,
	})
	mapPath := p.cfg.ComponentMapPath()
	if err := componentmap.Write(mapPath, components); err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out, "✅ componentMap generated with %d entries at %s\n", len(components), mapPath)

	return &Result{
		Scan:             scan,
		Components:       components,
		IndexPath:        indexPath,
		ComponentMapPath: mapPath,
		StartedAt:        started,
		Duration:         p.now().Sub(started),
	}, nil
}
