package search

import (
	"os"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/standardbeagle/project-indexer/internal/debug"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// Searcher serves queries against an index file on disk. The file is
// reloaded when its size or modification time changes, which also drops
// every cached result, so a rebuild is picked up on the next query.
type Searcher struct {
	path string

	mu       sync.Mutex
	index    *Index
	modTime  time.Time
	size     int64
	loadedAt time.Time
	cache    *lru.Cache[string, []types.IndexEntry]
}

// Stats describes the currently loaded index.
type Stats struct {
	Path          string    `json:"path"`
	Entries       int       `json:"entries"`
	CachedQueries int       `json:"cachedQueries"`
	LoadedAt      time.Time `json:"loadedAt"`
}

// NewSearcher creates a searcher over the index at path. cacheSize bounds the
// number of cached query results; zero disables caching. The index is loaded
// lazily on the first query.
func NewSearcher(path string, cacheSize int) (*Searcher, error) {
	s := &Searcher{path: path}
	if cacheSize > 0 {
		cache, err := lru.New[string, []types.IndexEntry](cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// Path returns the index file the searcher reads.
func (s *Searcher) Path() string {
	return s.path
}

// Search runs query against the current index.
func (s *Searcher) Search(query string) ([]types.IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return nil, err
	}
	key := strings.ToLower(query)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			debug.LogServe("cache hit for %q", query)
			return hit, nil
		}
	}

	results := s.index.Search(query)
	if s.cache != nil {
		s.cache.Add(key, results)
	}
	return results, nil
}

// Reload forces the index to be read again.
func (s *Searcher) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
	return s.refreshLocked()
}

// Stats reports on the loaded index, loading it if needed.
func (s *Searcher) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return Stats{}, err
	}
	st := Stats{Path: s.path, Entries: s.index.Len(), LoadedAt: s.loadedAt}
	if s.cache != nil {
		st.CachedQueries = s.cache.Len()
	}
	return st, nil
}

func (s *Searcher) refreshLocked() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return indexerrors.NewFileError("stat", s.path, err)
	}
	if s.index != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil
	}

	index, err := Load(s.path)
	if err != nil {
		return err
	}
	s.index = index
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loadedAt = time.Now()
	if s.cache != nil {
		s.cache.Purge()
	}
	debug.LogServe("loaded %d entries from %s", index.Len(), s.path)
	return nil
}
