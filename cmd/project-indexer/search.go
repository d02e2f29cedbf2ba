package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/standardbeagle/project-indexer/internal/search"
	"github.com/standardbeagle/project-indexer/internal/server"
	"github.com/standardbeagle/project-indexer/internal/types"

	"github.com/urfave/cli/v2"
)

// searchCommand queries the built index, locally or through a running server
func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return exitError(errors.New("search requires a query"))
	}

	var results []types.IndexEntry
	if serverURL := c.String("server"); serverURL != "" {
		client := server.NewClient(serverURL)
		defer client.Close()

		var err error
		if results, err = client.Search(query); err != nil {
			return exitError(err)
		}
	} else {
		cfg, err := loadConfigWithOverrides(c)
		if err != nil {
			return exitError(err)
		}
		index, err := search.Load(cfg.ServeIndexPath())
		if err != nil {
			return exitError(fmt.Errorf("failed to load index (run build first): %w", err))
		}
		results = index.Search(query)
	}

	out := c.App.Writer
	if c.Bool("json") {
		return writeSearchJSON(out, results, c.Bool("group"))
	}

	fmt.Fprintf(out, "Found %d matches for %q\n\n", len(results), query)
	if c.Bool("group") {
		grouped, order := search.Group(results)
		for _, p := range order {
			fmt.Fprintf(out, "%s\n", search.CleanPath(p))
			for _, content := range grouped[p] {
				fmt.Fprintf(out, "  %s\n", content)
			}
		}
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s: %s\n", r.Path, r.Content)
	}
	return nil
}

func writeSearchJSON(w io.Writer, results []types.IndexEntry, group bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if !group {
		if results == nil {
			results = []types.IndexEntry{}
		}
		return enc.Encode(results)
	}
	grouped, _ := search.Group(results)
	return enc.Encode(grouped)
}
