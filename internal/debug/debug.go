// Package debug provides opt-in diagnostic tracing for the indexing pipeline.
//
// Tracing is off unless the binary was built with
//
//	go build -ldflags "-X github.com/standardbeagle/project-indexer/internal/debug.EnableDebug=true"
//
// or DEBUG=1 is set in the environment. Output goes to the writer installed with
// SetDebugOutput (stderr in the CLI); quiet mode drops everything so MCP stdio
// stays protocol-clean.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug is the build-time switch for tracing.
var EnableDebug = "false"

// QuietMode suppresses all trace output regardless of other settings.
var QuietMode = false

var (
	debugOutput io.Writer
	debugFile   *os.File
	debugMutex  sync.Mutex
)

// Component tags used across the pipeline.
const (
	ComponentScan   = "SCAN"
	ComponentParse  = "PARSE"
	ComponentMap    = "MAP"
	ComponentWatch  = "WATCH"
	ComponentServe  = "SERVE"
	ComponentConfig = "CONFIG"
)

// SetQuietMode toggles quiet mode.
func SetQuietMode(enabled bool) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	QuietMode = enabled
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile routes trace output to a timestamped file under the OS temp dir
// and returns its path. Call CloseDebugLog when done.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "project-indexer-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile == nil {
		return nil
	}
	err := debugFile.Close()
	debugFile = nil
	debugOutput = nil
	return err
}

// IsDebugEnabled reports whether trace output would currently be produced.
func IsDebugEnabled() bool {
	if QuietMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log writes a tagged trace line.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogScan traces file discovery and extraction.
func LogScan(format string, args ...interface{}) {
	Log(ComponentScan, format, args...)
}

// LogParse traces syntax-tree work.
func LogParse(format string, args ...interface{}) {
	Log(ComponentParse, format, args...)
}

// LogMap traces component map generation.
func LogMap(format string, args ...interface{}) {
	Log(ComponentMap, format, args...)
}

// LogWatch traces watch mode.
func LogWatch(format string, args ...interface{}) {
	Log(ComponentWatch, format, args...)
}

// LogServe traces the HTTP and MCP query surfaces.
func LogServe(format string, args ...interface{}) {
	Log(ComponentServe, format, args...)
}
