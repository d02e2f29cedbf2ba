package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the keys accepted in .json and .toml config files.
type fileConfig struct {
	Src          any      `json:"src" toml:"src"`
	Exclude      []string `json:"exclude" toml:"exclude"`
	OutputDir    string   `json:"outputDir" toml:"outputDir"`
	SearchTerm   string   `json:"searchTerm" toml:"searchTerm"`
	SourcePrefix string   `json:"sourcePrefix" toml:"sourcePrefix"`
	ImportAlias  string   `json:"importAlias" toml:"importAlias"`
}

// LoadFile reads a config file, choosing the format by extension: .toml and
// .kdl are recognised, anything else is parsed as JSON.
func LoadFile(path string) (Layer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".kdl":
		return parseKDL(string(content))
	case ".toml":
		var fc fileConfig
		if err := toml.Unmarshal(content, &fc); err != nil {
			return Layer{}, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		return fc.layer()
	default:
		var fc fileConfig
		if err := json.Unmarshal(content, &fc); err != nil {
			return Layer{}, fmt.Errorf("failed to parse JSON config: %w", err)
		}
		return fc.layer()
	}
}

func (fc fileConfig) layer() (Layer, error) {
	sources, err := stringList(fc.Src)
	if err != nil {
		return Layer{}, fmt.Errorf("src: %w", err)
	}
	return Layer{
		Sources:      sources,
		Exclude:      fc.Exclude,
		OutputDir:    fc.OutputDir,
		SearchTerm:   fc.SearchTerm,
		SourcePrefix: fc.SourcePrefix,
		ImportAlias:  fc.ImportAlias,
	}, nil
}

// stringList accepts either a single string or a list of strings.
// Empty values yield nil so the lower layer stays in effect.
func stringList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val == "" {
			return nil, nil
		}
		return []string{val}, nil
	case []string:
		if len(val) == 0 {
			return nil, nil
		}
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list of strings, got %T", v)
	}
}
