// Package mcp exposes the search index and the rebuild pipeline as Model
// Context Protocol tools over stdio.
package mcp

import (
	"context"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/project-indexer/internal/config"
	"github.com/standardbeagle/project-indexer/internal/search"
	"github.com/standardbeagle/project-indexer/internal/version"
)

// Tool names
const (
	ToolSearchIndex = "search_index"
	ToolBuildIndex  = "build_index"
	ToolIndexStatus = "index_status"
)

// Server is the MCP front end for one project
type Server struct {
	cfg              *config.Config
	searcher         *search.Searcher
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger

	// one rebuild at a time
	buildMu sync.Mutex
}

// NewServer creates an MCP server for cfg. A nil searcher reads the
// configured serve index; a nil logger writes diagnostics to a temp file.
func NewServer(cfg *config.Config, searcher *search.Searcher, logger *DiagnosticLogger) (*Server, error) {
	if logger == nil {
		logger = NewDiagnosticLogger(true)
	}
	if searcher == nil {
		var err error
		searcher, err = search.NewSearcher(cfg.ServeIndexPath(), cfg.Serve.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:              cfg,
		searcher:         searcher,
		diagnosticLogger: logger,
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    version.GeneratorName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	logger.Printf("MCP server initialized for %s (index %s)", cfg.Root, searcher.Path())
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        ToolSearchIndex,
		Description: "Case-insensitive substring search over the extracted UI text and attribute fragments. Returns matching {path, content} entries in index order.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Text to look for; an empty query matches every entry",
				},
				"group": {
					Type:        "boolean",
					Description: "Group matching contents by file path",
				},
				"max": {
					Type:        "integer",
					Description: "Maximum entries to return (0 for all)",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        ToolBuildIndex,
		Description: "Rebuild the search index and the component map from the configured source roots.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleBuild)

	s.server.AddTool(&mcp.Tool{
		Name:        ToolIndexStatus,
		Description: "Report the index file being served, its entry count and when it was loaded.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleStatus)
}

// Start serves MCP over stdio until ctx is cancelled or the client hangs up
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the diagnostic log
func (s *Server) Close() error {
	return s.diagnosticLogger.Close()
}
