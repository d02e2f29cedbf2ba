package indexing

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
	"github.com/standardbeagle/project-indexer/internal/types"
)

// EncodeIndex renders entries as a two-space indented JSON array without
// HTML escaping or a trailing newline. A nil slice encodes as [].
func EncodeIndex(entries []types.IndexEntry) ([]byte, error) {
	if entries == nil {
		entries = []types.IndexEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteIndex creates the output directory if needed and overwrites the index
// file at path. Every failure here aborts the run.
func WriteIndex(path string, entries []types.IndexEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return indexerrors.NewStageError(indexerrors.StageWrite, "create output directory", err).WithPath(filepath.Dir(path))
	}

	data, err := EncodeIndex(entries)
	if err != nil {
		return indexerrors.NewStageError(indexerrors.StageWrite, "encode index", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return indexerrors.NewStageError(indexerrors.StageWrite, "write index", err).WithPath(path)
	}
	return nil
}
