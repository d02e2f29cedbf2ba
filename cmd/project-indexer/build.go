package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/project-indexer/internal/config"
	"github.com/standardbeagle/project-indexer/internal/indexing"

	"github.com/urfave/cli/v2"
)

// buildCommand runs the pipeline once, or keeps rebuilding with --watch
func buildCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return exitError(err)
	}

	pipeline := indexing.NewPipeline(cfg, c.App.Writer)
	if !c.Bool("watch") {
		if _, err := pipeline.Run(c.Context); err != nil {
			return exitError(err)
		}
		return nil
	}

	// the first build may fail like any later one; watching continues
	_, _ = pipeline.Run(c.Context)
	if err := watch(c.Context, c, cfg, pipeline); err != nil {
		return exitError(err)
	}
	return nil
}

// watch blocks until ctx is cancelled, rebuilding on source changes
func watch(ctx context.Context, c *cli.Context, cfg *config.Config, pipeline *indexing.Pipeline) error {
	watcher, err := indexing.NewWatcher(cfg, func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	watcher.SetOnRebuild(func(changed []string, err error) {
		if err == nil {
			fmt.Fprintf(c.App.Writer, "Rebuilt after changes to %s\n", strings.Join(changed, ", "))
		}
	})

	fmt.Fprintf(c.App.Writer, "👀 Watching %s for changes...\n", strings.Join(cfg.Sources, ", "))
	return watcher.Run(ctx)
}

// listCommand prints the files that survive exclusion, without extracting
func listCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return exitError(err)
	}

	files, excluded, err := indexing.NewPipeline(cfg, nil).Scanner().ListFiles(c.Context, cfg.Sources)
	if err != nil {
		return exitError(err)
	}

	for _, f := range files {
		fmt.Fprintln(c.App.Writer, f.RelPath)
	}
	fmt.Fprintf(c.App.Writer, "\n%d files would be indexed (%d excluded) under %s\n",
		len(files), excluded, filepath.ToSlash(cfg.Root))
	return nil
}
