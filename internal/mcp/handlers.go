package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/project-indexer/internal/indexing"
	"github.com/standardbeagle/project-indexer/internal/search"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// SearchParams are the search_index arguments
type SearchParams struct {
	Query string `json:"query"`
	Group bool   `json:"group,omitempty"`
	Max   int    `json:"max,omitempty"`
}

// SearchResponse is the flat search_index result
type SearchResponse struct {
	Query     string             `json:"query"`
	Total     int                `json:"total"`
	Truncated bool               `json:"truncated,omitempty"`
	Results   []types.IndexEntry `json:"results"`
}

// FileMatches is one file in a grouped search_index result
type FileMatches struct {
	Path     string   `json:"path"`
	Contents []string `json:"contents"`
}

// GroupedSearchResponse is the grouped search_index result
type GroupedSearchResponse struct {
	Query     string        `json:"query"`
	Total     int           `json:"total"`
	Truncated bool          `json:"truncated,omitempty"`
	Files     []FileMatches `json:"files"`
}

// BuildResponse summarizes a build_index run
type BuildResponse struct {
	Success          bool     `json:"success"`
	Files            int      `json:"files"`
	Excluded         int      `json:"excluded"`
	Entries          int      `json:"entries"`
	Components       int      `json:"components"`
	Failed           []string `json:"failed,omitempty"`
	FailureDetail    string   `json:"failure_detail,omitempty"`
	IndexPath        string   `json:"index_path"`
	ComponentMapPath string   `json:"component_map_path"`
	DurationMs       int64    `json:"duration_ms"`
	Log              []string `json:"log,omitempty"`
}

// StatusResponse is the index_status result
type StatusResponse struct {
	Ready         bool   `json:"ready"`
	IndexPath     string `json:"index_path"`
	Entries       int    `json:"entries"`
	CachedQueries int    `json:"cached_queries"`
	LoadedAt      string `json:"loaded_at,omitempty"`
	Error         string `json:"error,omitempty"`
}

// decodeArgs tolerates a missing arguments object
func decodeArgs(req *mcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params SearchParams
	if err := decodeArgs(req, &params); err != nil {
		return createErrorResponse(ToolSearchIndex, err)
	}
	if params.Max < 0 {
		return createErrorResponse(ToolSearchIndex, fmt.Errorf("max must not be negative, got %d", params.Max))
	}

	results, err := s.searcher.Search(params.Query)
	if err != nil {
		s.diagnosticLogger.Errorf("search %q failed: %v", params.Query, err)
		return createErrorResponse(ToolSearchIndex, err)
	}

	total := len(results)
	truncated := false
	if params.Max > 0 && total > params.Max {
		results = results[:params.Max]
		truncated = true
	}

	if !params.Group {
		return createJSONResponse(SearchResponse{
			Query:     params.Query,
			Total:     total,
			Truncated: truncated,
			Results:   results,
		})
	}

	grouped, order := search.Group(results)
	files := make([]FileMatches, 0, len(order))
	for _, p := range order {
		files = append(files, FileMatches{Path: p, Contents: grouped[p]})
	}
	return createJSONResponse(GroupedSearchResponse{
		Query:     params.Query,
		Total:     total,
		Truncated: truncated,
		Files:     files,
	})
}

func (s *Server) handleBuild(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	var out bytes.Buffer
	result, err := indexing.NewPipeline(s.cfg, &out).Run(ctx)
	if err != nil {
		s.diagnosticLogger.Errorf("build failed: %v", err)
		return createErrorResponse(ToolBuildIndex, err)
	}
	if err := s.searcher.Reload(); err != nil {
		s.diagnosticLogger.Errorf("reload after build failed: %v", err)
	}

	response := BuildResponse{
		Success:          true,
		Files:            result.Scan.Files,
		Excluded:         result.Scan.Excluded,
		Entries:          len(result.Scan.Entries),
		Components:       len(result.Components),
		Failed:           result.Scan.FailedPaths(),
		IndexPath:        result.IndexPath,
		ComponentMapPath: result.ComponentMapPath,
		DurationMs:       result.Duration.Milliseconds(),
		Log:              logLines(out.String()),
	}
	if err := result.Scan.FailedError(); err != nil {
		response.FailureDetail = err.Error()
	}
	return createJSONResponse(response)
}

func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := StatusResponse{IndexPath: s.searcher.Path()}
	stats, err := s.searcher.Stats()
	if err != nil {
		status.Error = err.Error()
		return createJSONResponse(status)
	}
	status.Ready = true
	status.Entries = stats.Entries
	status.CachedQueries = stats.CachedQueries
	status.LoadedAt = stats.LoadedAt.Format(time.RFC3339)
	return createJSONResponse(status)
}

func logLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
