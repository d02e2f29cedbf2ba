package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted between the config file and the flags.
const (
	EnvSrc        = "PROJECT_INDEXER_SRC"
	EnvExclude    = "PROJECT_INDEXER_EXCLUDE"
	EnvOutputDir  = "PROJECT_INDEXER_OUTPUT_DIR"
	EnvSearchTerm = "PROJECT_INDEXER_SEARCH_TERM"
)

var envKeys = []string{EnvSrc, EnvExclude, EnvOutputDir, EnvSearchTerm}

// LoadEnv reads the environment layer. Values from a .env file in root are
// used unless the process environment sets the same key to a non-empty value.
func LoadEnv(root string) (Layer, error) {
	vals := make(map[string]string)

	envFile := filepath.Join(root, ".env")
	if _, err := os.Stat(envFile); err == nil {
		fileVals, err := godotenv.Read(envFile)
		if err != nil {
			return Layer{}, fmt.Errorf("failed to parse %s: %w", envFile, err)
		}
		vals = fileVals
	}

	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			vals[key] = v
		}
	}

	return Layer{
		Sources:    splitList(vals[EnvSrc]),
		Exclude:    splitList(vals[EnvExclude]),
		OutputDir:  strings.TrimSpace(vals[EnvOutputDir]),
		SearchTerm: vals[EnvSearchTerm],
	}, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
