package parser

import (
	"errors"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/project-indexer/internal/debug"
	indexerrors "github.com/standardbeagle/project-indexer/internal/errors"
)

// Node kinds of the TSX grammar the walker reacts to.
const (
	kindJSXAttribute  = "jsx_attribute"
	kindJSXText       = "jsx_text"
	kindCharReference = "html_character_reference"
	kindPropertyIdent = "property_identifier"
	kindString        = "string"
)

var errNoTree = errors.New("parser returned no syntax tree")

// tree-sitter parsers are not safe for concurrent use, so each goroutine
// borrows one from the pool. Every structured dialect is parsed with the TSX
// grammar, .ts files included.
var (
	tsxLanguage     *tree_sitter.Language
	tsxLanguageOnce sync.Once
	parserPool      = sync.Pool{New: func() any { return newTSXParser() }}
)

func language() *tree_sitter.Language {
	tsxLanguageOnce.Do(func() {
		tsxLanguage = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	})
	return tsxLanguage
}

func newTSXParser() *tree_sitter.Parser {
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(language()); err != nil {
		p.Close()
		return nil
	}
	return p
}

func getParser() *tree_sitter.Parser {
	p, _ := parserPool.Get().(*tree_sitter.Parser)
	return p
}

func releaseParser(p *tree_sitter.Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// walkStructured parses content and collects fragments in pre-order.
func (e *Extractor) walkStructured(content []byte) ([]string, error) {
	p := getParser()
	if p == nil {
		return nil, indexerrors.NewParseError("", errors.New("TSX grammar unavailable"))
	}
	defer releaseParser(p)

	tree := p.Parse(content, nil)
	if tree == nil {
		return nil, indexerrors.NewParseError("", errNoTree)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		// Syntax errors are recovered into ERROR nodes; markup around them is
		// still collected.
		debug.LogParse("syntax errors present, extracting from recovered tree")
	}

	w := walker{e: e, src: content}
	w.visit(root)
	return w.out, nil
}

type walker struct {
	e   *Extractor
	src []byte
	out []string
}

func (w *walker) visit(n *tree_sitter.Node) {
	if n.Kind() == kindJSXAttribute {
		w.attribute(n)
	}

	// Adjacent text and character-reference siblings form one text run, so
	// "Save &amp; close" is a single fragment.
	runStart, runEnd := -1, -1
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if isTextKind(child.Kind()) {
			if runStart < 0 {
				runStart = int(child.StartByte())
			}
			runEnd = int(child.EndByte())
			continue
		}
		if runStart >= 0 {
			w.text(runStart, runEnd)
			runStart, runEnd = -1, -1
		}
		// string literals hold no markup; an attribute value's entities
		// belong to the attribute fragment
		if child.Kind() == kindString {
			continue
		}
		w.visit(child)
	}
	if runStart >= 0 {
		w.text(runStart, runEnd)
	}
}

func isTextKind(kind string) bool {
	return kind == kindJSXText || kind == kindCharReference
}

func (w *walker) text(start, end int) {
	text := strings.TrimSpace(string(w.src[start:end]))
	if text != "" && w.e.matches(text) {
		w.out = append(w.out, text)
	}
}

// attribute emits name="value" for an attribute with a simple name and a
// string literal value. The value is the raw text between the quotes.
func (w *walker) attribute(n *tree_sitter.Node) {
	count := n.ChildCount()
	if count < 3 {
		return
	}
	name := n.Child(0)
	value := n.Child(count - 1)
	if name == nil || value == nil {
		return
	}
	if name.Kind() != kindPropertyIdent || value.Kind() != kindString {
		return
	}

	start, end := value.StartByte(), value.EndByte()
	if end-start < 2 {
		return
	}
	raw := string(w.src[start+1 : end-1])
	if !w.e.matches(raw) {
		return
	}
	attrName := string(w.src[name.StartByte():name.EndByte()])
	w.out = append(w.out, attrName+`="`+raw+`"`)
}
