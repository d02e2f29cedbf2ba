package indexing

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/project-indexer/internal/config"
	"github.com/standardbeagle/project-indexer/internal/debug"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
	"github.com/standardbeagle/project-indexer/pkg/pathutil"
)

// FileEventType represents the type of file system event
type FileEventType int

const (
	FileEventCreate FileEventType = iota
	FileEventWrite
	FileEventRemove
	FileEventRename
)

func (t FileEventType) String() string {
	switch t {
	case FileEventCreate:
		return "create"
	case FileEventWrite:
		return "write"
	case FileEventRemove:
		return "remove"
	case FileEventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// RebuildFunc performs one full rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher monitors the source roots and triggers a full rebuild after a
// quiet period. The generated artifacts are ignored so a rebuild never
// retriggers itself, and writes that leave a file's content unchanged are
// dropped.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cfg      *config.Config
	rebuild  RebuildFunc
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]FileEventType
	hashes  map[string]uint64

	ignored map[string]bool
	trigger chan struct{}
	ready   chan struct{}

	onRebuild func(changed []string, err error)
}

// NewWatcher creates a watcher over cfg's source roots.
func NewWatcher(cfg *config.Config, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = config.DefaultWatchDebounceMs * time.Millisecond
	}

	return &Watcher{
		watcher:  fsw,
		cfg:      cfg,
		rebuild:  rebuild,
		debounce: debounce,
		pending:  make(map[string]FileEventType),
		hashes:   make(map[string]uint64),
		ignored: map[string]bool{
			filepath.Clean(cfg.IndexPath()):        true,
			filepath.Clean(cfg.ComponentMapPath()): true,
		},
		trigger: make(chan struct{}, 1),
		ready:   make(chan struct{}),
	}, nil
}

// SetOnRebuild registers a callback invoked after every rebuild attempt.
func (w *Watcher) SetOnRebuild(fn func(changed []string, err error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onRebuild = fn
}

// Ready is closed once the initial watches are in place.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. Rebuilds run on the calling goroutine,
// one at a time. A failed rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for _, root := range w.cfg.SourcePaths() {
		if _, err := os.Stat(root); err != nil {
			return indexerrors.NewStageError(indexerrors.StageScan, "watch source root", err).WithPath(root)
		}
		if err := w.addWatches(root); err != nil {
			return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
		}
	}
	close(w.ready)
	debug.LogWatch("watching %d source roots (debounce %v)", len(w.cfg.Sources), w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("File watcher error: %v", err)

		case <-w.trigger:
			w.runRebuild(ctx)
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		log.Printf("Error closing fsnotify watcher: %v", err)
	}
}

// addWatches recursively watches every directory under root and records the
// content hash of each supported file.
func (w *Watcher) addWatches(root string) error {
	visitedDirs := make(map[string]bool)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		if !d.IsDir() {
			if types.KindForPath(path) != types.KindUnsupported {
				w.contentChanged(path)
			}
			return nil
		}

		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}

		// symlink cycles
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return filepath.SkipDir
		}
		if visitedDirs[realPath] {
			return filepath.SkipDir
		}
		visitedDirs[realPath] = true

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

// shouldIgnore reports whether events for path can never affect the index.
func (w *Watcher) shouldIgnore(path string) bool {
	path = filepath.Clean(path)
	if w.ignored[path] {
		return true
	}
	rel := pathutil.ToRelative(path, w.cfg.Root)
	return isHidden(rel) || IsExcluded(rel, w.cfg.Exclude)
}

// contentChanged records the content hash of path and reports whether it
// differs from the previous one. Unreadable files count as changed.
func (w *Watcher) contentChanged(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	sum := xxhash.Sum64(content)

	w.mu.Lock()
	defer w.mu.Unlock()
	prev, known := w.hashes[path]
	w.hashes[path] = sum
	return !known || prev != sum
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.hashes, path)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}
	debug.LogWatch("received %v for %s", event.Op, path)

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// the path is gone, so a directory cannot be told from a file
		// without an extension; either may have held indexed sources
		w.forget(path)
		eventType := FileEventRemove
		if event.Op&fsnotify.Rename != 0 {
			eventType = FileEventRename
		}
		if types.KindForPath(path) != types.KindUnsupported || filepath.Ext(path) == "" {
			w.schedule(path, eventType)
		}

	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if event.Op&fsnotify.Create != 0 {
				if err := w.addWatches(path); err != nil {
					log.Printf("Warning: failed to add watch for new directory %s: %v", path, err)
				}
				w.schedule(path, FileEventCreate)
			}
			return
		}
		if types.KindForPath(path) == types.KindUnsupported {
			return
		}
		if !w.contentChanged(path) {
			debug.LogWatch("content of %s unchanged, skipping", path)
			return
		}
		eventType := FileEventWrite
		if event.Op&fsnotify.Create != 0 {
			eventType = FileEventCreate
		}
		w.schedule(path, eventType)
	}
}

// schedule records a pending change and restarts the quiet-period timer.
func (w *Watcher) schedule(path string, eventType FileEventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = eventType
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) runRebuild(ctx context.Context) {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]FileEventType)
	callback := w.onRebuild
	w.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	changed := make([]string, 0, len(pending))
	for p := range pending {
		changed = append(changed, p)
	}
	sort.Strings(changed)

	debug.LogWatch("rebuilding after %d changes", len(changed))
	start := time.Now()
	err := w.rebuild(ctx)
	if err != nil {
		log.Printf("Warning: rebuild failed: %v", err)
	} else {
		debug.LogWatch("rebuild completed in %v", time.Since(start))
	}

	if callback != nil {
		callback(changed, err)
	}
}
