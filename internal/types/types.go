// Package types holds the records shared by the indexing pipeline, the
// component map generator and the query layer.
package types

import (
	"path"
	"strings"
)

// IndexEntry is one matched fragment of one source file. Path is relative to
// the invocation root and always uses '/' separators. A file that yields
// several fragments produces several entries with the same Path.
type IndexEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// GroupedResults maps a file path to the fragments matched in it.
type GroupedResults map[string][]string

// ComponentMapEntry is one name -> loader pair of the generated component map.
type ComponentMapEntry struct {
	LogicalName      string `json:"logicalName"`
	LoaderExpression string `json:"loaderExpression"`
}

// FileKind selects the extraction strategy for a source file.
type FileKind uint8

const (
	// KindUnsupported marks files the scanner never enumerates.
	KindUnsupported FileKind = iota
	// PlainScript files (.js, .jsx) are searched with a pattern.
	PlainScript
	// StructuredScript files (.ts, .tsx) are parsed into a syntax tree.
	StructuredScript
)

// String returns the kind name used in logs.
func (k FileKind) String() string {
	switch k {
	case PlainScript:
		return "plain"
	case StructuredScript:
		return "structured"
	default:
		return "unsupported"
	}
}

// Extensions enumerated by the scanner, in the order they are documented.
var Extensions = []string{".js", ".jsx", ".ts", ".tsx"}

// ComponentExtension is the extension of files eligible for the component map.
const ComponentExtension = ".tsx"

// KindForPath classifies a path by extension. It is a pure function of the
// extension; the match is case-sensitive like the glob it replaces.
func KindForPath(p string) FileKind {
	switch path.Ext(strings.ReplaceAll(p, `\`, "/")) {
	case ".js", ".jsx":
		return PlainScript
	case ".ts", ".tsx":
		return StructuredScript
	default:
		return KindUnsupported
	}
}
