// Package server exposes the search index over HTTP.
//
// GET /api/search-index?query=... returns the matching IndexEntry array; a
// missing or empty query returns every entry. /status and /ping report on
// the loaded index and the running build.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/standardbeagle/project-indexer/internal/debug"
	"github.com/standardbeagle/project-indexer/internal/search"
	"github.com/standardbeagle/project-indexer/internal/version"
)

// SearchPath is the query endpoint consumed by the UI search hooks.
const SearchPath = "/api/search-index"

const shutdownTimeout = 5 * time.Second

// IndexServer serves queries from a Searcher
type IndexServer struct {
	searcher  *search.Searcher
	startTime time.Time
}

// NewIndexServer creates a server over searcher
func NewIndexServer(searcher *search.Searcher) *IndexServer {
	return &IndexServer{searcher: searcher, startTime: time.Now()}
}

// Handler returns the HTTP routes
func (s *IndexServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(SearchPath, s.handleSearch)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/ping", s.handlePing)
	return mux
}

// Run listens on addr and serves until ctx is cancelled
func (s *IndexServer) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *IndexServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	debug.LogServe("index server listening on %s", ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleSearch filters the index by the query parameter
func (s *IndexServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("query")
	results, err := s.searcher.Search(query)
	if err != nil {
		debug.LogServe("search %q failed: %v", query, err)
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "search index not built yet", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

// handleStatus returns the current index status
func (s *IndexServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := IndexStatus{IndexPath: s.searcher.Path()}
	stats, err := s.searcher.Stats()
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Ready = true
		status.Entries = stats.Entries
		status.CachedQueries = stats.CachedQueries
		status.LoadedAt = stats.LoadedAt
	}
	writeJSON(w, status)
}

// handlePing responds to health check requests
func (s *IndexServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, PingResponse{
		Uptime:  time.Since(s.startTime).Seconds(),
		Version: version.Version,
		BuildID: version.BuildID(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}
