package indexing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/project-indexer/internal/debug"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/parser"
	"github.com/standardbeagle/project-indexer/internal/security"
	"github.com/standardbeagle/project-indexer/internal/types"
	"github.com/standardbeagle/project-indexer/pkg/pathutil"
)

// sourceGlob selects candidate files under a source root.
const sourceGlob = "**/*.{js,jsx,ts,tsx}"

// SourceFile is one enumerated, non-excluded candidate file.
type SourceFile struct {
	AbsPath string
	RelPath string // '/'-separated, relative to the invocation root
	Kind    types.FileKind
}

// FailedFile records a file skipped because of a content-level failure.
type FailedFile struct {
	Path string
	Err  error
}

// ScanResult is the outcome of scanning every source root.
type ScanResult struct {
	Entries  []types.IndexEntry
	Failed   []FailedFile
	Files    int // files extracted, failed ones included
	Excluded int
}

// FailedPaths lists the failed files in scan order.
func (r *ScanResult) FailedPaths() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Path)
	}
	return out
}

// FailedError aggregates the per-file failures, or returns nil.
func (r *ScanResult) FailedError() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
	}
	return indexerrors.NewMultiError(errs)
}

// Scanner walks source roots, applies exclusions and extracts fragments.
type Scanner struct {
	root      string
	exclude   []string
	extractor *parser.Extractor
	validator *security.FileValidator
}

// NewScanner creates a scanner. root must be absolute; index paths are made
// relative to it.
func NewScanner(root string, exclude []string, extractor *parser.Extractor) *Scanner {
	return &Scanner{
		root:      root,
		exclude:   exclude,
		extractor: extractor,
		validator: security.NewFileValidator(security.DefaultThresholdKB),
	}
}

// ListFiles enumerates the candidate files of every source root in order,
// with excluded files already removed. The second result is the number of
// excluded files. A source root that cannot be enumerated aborts the listing.
func (s *Scanner) ListFiles(ctx context.Context, sources []string) ([]SourceFile, int, error) {
	var files []SourceFile
	excluded := 0

	for _, src := range sources {
		absRoot := pathutil.Resolve(s.root, src)
		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, 0, indexerrors.NewStageError(indexerrors.StageScan, "enumerate source root", err).WithPath(src)
		}
		if !info.IsDir() {
			return nil, 0, indexerrors.NewStageError(indexerrors.StageScan, "enumerate source root",
				fmt.Errorf("not a directory")).WithPath(src)
		}

		err = doublestar.GlobWalk(os.DirFS(absRoot), sourceGlob, func(p string, d fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if isHidden(p) {
				return nil
			}
			kind := types.KindForPath(p)
			if kind == types.KindUnsupported {
				return nil
			}

			abs := pathutil.Resolve(absRoot, p)
			rel := pathutil.ToRelative(abs, s.root)
			if IsExcluded(rel, s.exclude) {
				excluded++
				debug.LogScan("excluded %s", rel)
				return nil
			}
			files = append(files, SourceFile{AbsPath: abs, RelPath: rel, Kind: kind})
			return nil
		}, doublestar.WithFilesOnly())
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			return nil, 0, indexerrors.NewStageError(indexerrors.StageScan, "enumerate source root", err).WithPath(src)
		}
	}
	return files, excluded, nil
}

// Scan enumerates and extracts every source root. Files are read and
// extracted one at a time in enumeration order. Per-file read and extraction
// failures are logged and collected in ScanResult.Failed; only enumeration
// failures and cancellation are returned as errors.
func (s *Scanner) Scan(ctx context.Context, sources []string) (*ScanResult, error) {
	files, excluded, err := s.ListFiles(ctx, sources)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Files: len(files), Excluded: excluded}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fragments, err := s.extractFile(f)
		if err != nil {
			log.Printf("Warning: error processing file %s: %v", f.RelPath, err)
			result.Failed = append(result.Failed, FailedFile{Path: f.RelPath, Err: err})
			continue
		}
		for _, content := range fragments {
			result.Entries = append(result.Entries, types.IndexEntry{Path: f.RelPath, Content: content})
		}
	}

	debug.LogScan("scanned %d files (%d excluded, %d failed), %d entries",
		result.Files, result.Excluded, len(result.Failed), len(result.Entries))
	return result, nil
}

func (s *Scanner) extractFile(f SourceFile) ([]string, error) {
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, indexerrors.NewFileError("read", f.RelPath, err)
	}
	if err := s.validator.ValidateContent(content); err != nil {
		return nil, indexerrors.NewFileError("validate", f.RelPath, err)
	}
	fragments, err := s.extractor.Extract(content, f.Kind)
	if err != nil {
		var parseErr *indexerrors.ParseError
		if errors.As(err, &parseErr) && parseErr.FilePath == "" {
			parseErr.FilePath = f.RelPath
		}
		return nil, err
	}
	return fragments, nil
}

// isHidden reports whether any segment of a '/'-separated path starts with '.'.
func isHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
