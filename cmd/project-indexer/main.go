package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/standardbeagle/project-indexer/internal/config"
	"github.com/standardbeagle/project-indexer/internal/debug"
	"github.com/standardbeagle/project-indexer/internal/version"

	"github.com/urfave/cli/v2"
)

// loadConfigWithOverrides resolves configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	overrides := config.Overrides{
		Sources:    c.StringSlice("src"),
		OutputDir:  c.String("output"),
		SearchTerm: c.String("search-term"),
	}
	// a non-empty --exclude replaces the lower layers
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		overrides.Exclude = excludeFlags
	}

	cfg, err := config.Resolve(c.String("root"), c.String("config"), overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// exitError formats err the way every command reports a hard failure
func exitError(err error) error {
	return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "project-indexer",
		Usage:                  "Build a search index and lazy component map from UI component sources",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.json, .toml or .kdl)",
			},
			&cli.StringSliceFlag{
				Name:  "src",
				Usage: "Source directory to scan (repeatable, default src/components)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for generated artifacts (default src/data)",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"e"},
				Usage:   "Exclusion glob pattern (repeatable, replaces the configured list)",
			},
			&cli.StringFlag{
				Name:  "search-term",
				Usage: "Only index fragments containing this term",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root the sources and outputs are relative to",
				Value:   ".",
			},
		},
		Before: func(c *cli.Context) error {
			debug.SetDebugOutput(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "build",
				Aliases: []string{"b"},
				Usage:   "Build the search index and component map",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Keep running and rebuild when sources change",
					},
				},
				Action: buildCommand,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the files that would be indexed",
				Action:  listCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Search the built index",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
					&cli.BoolFlag{
						Name:    "group",
						Aliases: []string{"g"},
						Usage:   "Group matches by component",
					},
					&cli.StringFlag{
						Name:  "server",
						Usage: "Query a running index server instead of the local file (e.g. http://localhost:3030)",
					},
				},
				Action: searchCommand,
			},
			{
				Name:  "serve",
				Usage: "Serve the index over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: config.DefaultServeAddr,
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Build first and rebuild when sources change",
					},
				},
				Action: serveCommand,
			},
			{
				Name:   "status",
				Usage:  "Show the status of a running index server",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "server",
						Usage: "Server base URL",
						Value: "http://localhost" + config.DefaultServeAddr,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Run as an MCP server over stdio",
				Action: mcpCommand,
			},
		},
		Action: buildCommand,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
