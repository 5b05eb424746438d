package parser

import (
	"fmt"
	"strconv"
	"time"
)

// ParseError represents a parsing error with detailed context
type ParseError struct {
	File     string    `json:"file"`
	Line     int       `json:"line"`
	Field    string    `json:"field,omitempty"`
	Value    string    `json:"value,omitempty"`
	Cause    error     `json:"cause,omitempty"`
	Message  string    `json:"message"`
	Occurred time.Time `json:"occurred"`
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at %s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError with context
func NewParseError(file string, line int, message string) *ParseError {
	return &ParseError{
		File:     file,
		Line:     line,
		Message:  message,
		Occurred: time.Now(),
	}
}

// FileError represents file-level errors (opening, reading, etc.)
type FileError struct {
	Path     string    `json:"path"`
	Op       string    `json:"operation"` // "open", "read", "stat", etc.
	Cause    error     `json:"cause,omitempty"`
	Message  string    `json:"message"`
	Occurred time.Time `json:"occurred"`
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %s error: %s", e.Op, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// NewFileError creates a new FileError
func NewFileError(path, op, message string, cause error) *FileError {
	return &FileError{
		Path:     path,
		Op:       op,
		Message:  message,
		Cause:    cause,
		Occurred: time.Now(),
	}
}

// ConversionError represents type conversion errors
type ConversionError struct {
	Field      string `json:"field"`
	Value      string `json:"value"`
	TargetType string `json:"target_type"`
	Cause      error  `json:"cause,omitempty"`
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s='%s' to %s", e.Field, e.Value, e.TargetType)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// NewConversionError creates a ConversionError for common conversion failures
func NewConversionError(field, value, targetType string, cause error) *ConversionError {
	return &ConversionError{
		Field:      field,
		Value:      value,
		TargetType: targetType,
		Cause:      cause,
	}
}

// ParseInt wraps strconv.Atoi with structured error reporting
func ParseInt(field, value string) (int, error) {
	if value == "" {
		return 0, NewConversionError(field, value, "int", fmt.Errorf("empty value"))
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewConversionError(field, value, "int", err)
	}
	return result, nil
}
