package config

import (
	"fmt"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL reads the KDL config format:
//
//	src "src/components" "src/features"
//	exclude "**/ui/**" "**/*.stories.tsx"
//	output_dir "src/data"
//	search_term ""
//	component_map {
//	    source_prefix "src/"
//	    import_alias "@/"
//	}
//
// A bare `exclude` node with no values clears the exclusion list.
func parseKDL(content string) (Layer, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return Layer{}, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	var l Layer
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "src", "sources":
			if srcs := collectStringArgs(n); len(srcs) > 0 {
				l.Sources = srcs
			}
		case "exclude":
			l.Exclude = collectStringArgs(n)
			if l.Exclude == nil {
				l.Exclude = []string{}
			}
		case "output_dir":
			assignSimpleString(n, "output_dir", func(v string) { l.OutputDir = v })
		case "search_term":
			assignSimpleString(n, "search_term", func(v string) { l.SearchTerm = v })
		case "component_map":
			for _, cn := range n.Children {
				assignSimpleString(cn, "source_prefix", func(v string) { l.SourcePrefix = v })
				assignSimpleString(cn, "import_alias", func(v string) { l.ImportAlias = v })
			}
		}
	}
	return l, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

// collectStringArgs accepts both the inline form (exclude "a" "b") and the
// block form where each child node is a value (exclude { "a"; "b" }).
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, child := range n.Children {
		if s, ok := firstStringArg(child); ok {
			out = append(out, s)
		} else if child.Name != nil {
			if s, ok := child.Name.Value.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
