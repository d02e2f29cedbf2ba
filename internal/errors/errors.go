package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the project indexer
type ErrorType string

const (
	// Pipeline errors (infrastructure level, abort the run)
	ErrorTypeStage ErrorType = "stage"

	// Content errors (per-file, isolated)
	ErrorTypeParse   ErrorType = "parse"
	ErrorTypePattern ErrorType = "pattern"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFile         ErrorType = "file"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Pipeline stage names used in StageError.
const (
	StageScan     = "scan"
	StageWrite    = "write-index"
	StageGenerate = "generate-map"
)

// StageError is an infrastructure failure in one pipeline stage. It always
// aborts the run.
type StageError struct {
	Type       ErrorType
	Stage      string
	Operation  string
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewStageError creates a stage error with context
func NewStageError(stage, op string, err error) *StageError {
	return &StageError{
		Type:       ErrorTypeStage,
		Stage:      stage,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPath adds the path the stage was working on
func (e *StageError) WithPath(path string) *StageError {
	e.Path = path
	return e
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Stage, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Stage, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *StageError) Unwrap() error {
	return e.Underlying
}

// ParseError is a syntax-tree construction failure for one file
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("parse error: %v", e.Underlying)
	}
	return fmt.Sprintf("parse error in %s: %v", e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// PatternError reports a search term that could not be compiled or evaluated
// as a pattern.
type PatternError struct {
	Type       ErrorType
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewPatternError creates a new pattern error
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{
		Type:       ErrorTypePattern,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error
func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error, classifying the cause
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFile
	switch {
	case errors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %q): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
