package main

import (
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/project-indexer/internal/debug"
	"github.com/standardbeagle/project-indexer/internal/indexing"
	"github.com/standardbeagle/project-indexer/internal/mcp"
	"github.com/standardbeagle/project-indexer/internal/search"
	"github.com/standardbeagle/project-indexer/internal/server"

	"github.com/urfave/cli/v2"
)

// serveCommand serves the index over HTTP, optionally rebuilding it on change
func serveCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return exitError(err)
	}

	searcher, err := search.NewSearcher(cfg.ServeIndexPath(), cfg.Serve.CacheSize)
	if err != nil {
		return exitError(err)
	}
	indexServer := server.NewIndexServer(searcher)
	addr := c.String("addr")

	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() error {
		fmt.Fprintf(c.App.Writer, "Serving %s on %s%s\n", cfg.ServeIndexPath(), addr, server.SearchPath)
		return indexServer.Run(ctx, addr)
	})
	if c.Bool("watch") {
		g.Go(func() error {
			pipeline := indexing.NewPipeline(cfg, c.App.Writer)
			_, _ = pipeline.Run(ctx)
			return watch(ctx, c, cfg, pipeline)
		})
	}

	if err := g.Wait(); err != nil {
		return exitError(err)
	}
	return nil
}

// statusCommand reports on a running index server
func statusCommand(c *cli.Context) error {
	client := server.NewClient(c.String("server"))
	defer client.Close()

	status, err := client.GetStatus()
	if err != nil {
		return exitError(err)
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

// mcpCommand runs the MCP server over stdio
func mcpCommand(c *cli.Context) error {
	// stdout carries the protocol
	debug.SetQuietMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return exitError(err)
	}

	mcpServer, err := mcp.NewServer(cfg, nil, nil)
	if err != nil {
		return exitError(fmt.Errorf("failed to create MCP server: %w", err))
	}
	defer mcpServer.Close()

	if err := mcpServer.Start(c.Context); err != nil {
		return exitError(fmt.Errorf("MCP server error: %w", err))
	}
	return nil
}
