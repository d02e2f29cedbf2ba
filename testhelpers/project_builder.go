package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ProjectBuilder lays out an isolated fixture project under t.TempDir().
type ProjectBuilder struct {
	t    testing.TB
	root string
}

// NewProjectBuilder creates an empty project in a fresh temp directory
func NewProjectBuilder(t testing.TB) *ProjectBuilder {
	t.Helper()
	return &ProjectBuilder{t: t, root: t.TempDir()}
}

// Root returns the absolute project root
func (b *ProjectBuilder) Root() string {
	return b.root
}

// Path returns the absolute path of a '/'-separated project-relative path
func (b *ProjectBuilder) Path(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// AddFile writes content at rel, creating parent directories
func (b *ProjectBuilder) AddFile(rel, content string) *ProjectBuilder {
	b.t.Helper()
	abs := b.Path(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		b.t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		b.t.Fatalf("failed to write %s: %v", rel, err)
	}
	return b
}

// AddComponent writes the generated source of c at rel
func (b *ProjectBuilder) AddComponent(rel string, c Component) *ProjectBuilder {
	b.t.Helper()
	return b.AddFile(rel, c.Source())
}

// AddDir creates an empty directory
func (b *ProjectBuilder) AddDir(rel string) *ProjectBuilder {
	b.t.Helper()
	if err := os.MkdirAll(b.Path(rel), 0755); err != nil {
		b.t.Fatalf("failed to create %s: %v", rel, err)
	}
	return b
}

// ReadFile returns the content of a project file, failing the test if absent
func (b *ProjectBuilder) ReadFile(rel string) string {
	b.t.Helper()
	data, err := os.ReadFile(b.Path(rel))
	if err != nil {
		b.t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Attr is one markup attribute of a generated component
type Attr struct {
	Name  string
	Value string
}

// Component describes a minimal function component with a single element
type Component struct {
	Name          string
	Tag           string // defaults to "div"
	Attrs         []Attr
	Text          string
	DefaultExport bool
}

// Source renders the component as TSX
func (c Component) Source() string {
	tag := c.Tag
	if tag == "" {
		tag = "div"
	}

	var sb strings.Builder
	sb.WriteString("const " + c.Name + " = () => (\n  <" + tag)
	for _, a := range c.Attrs {
		sb.WriteString(" " + a.Name + `="` + a.Value + `"`)
	}
	sb.WriteString(">" + c.Text + "</" + tag + ">\n);\n")
	if c.DefaultExport {
		sb.WriteString("\nexport default " + c.Name + ";\n")
	} else {
		sb.WriteString("\nexport { " + c.Name + " };\n")
	}
	return sb.String()
}
