package errors

import "fmt"

// MalformedRowError reports a CSV row that could not be parsed. It records
// the source file and the 1-based line number so the analyst can locate the
// offending input.
type MalformedRowError struct {
	File   string
	Line   int
	Column string
	Cause  error
}

// Error implements the error interface.
func (e *MalformedRowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed row %s:%d column %q: %v", e.File, e.Line, e.Column, e.Cause)
	}
	return fmt.Sprintf("malformed row %s:%d: %v", e.File, e.Line, e.Cause)
}

// Unwrap returns the underlying parse failure.
func (e *MalformedRowError) Unwrap() error {
	return e.Cause
}

// NewMalformedRowError creates a malformed-row error for file at line.
func NewMalformedRowError(file string, line int, column string, cause error) *MalformedRowError {
	return &MalformedRowError{File: file, Line: line, Column: column, Cause: cause}
}
