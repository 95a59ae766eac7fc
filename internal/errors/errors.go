// Package errors defines the error types shared by the analysis pipeline.
//
// Every failure that crosses a package boundary is classified with an
// ErrorType so command-line entry points can report a stable error code
// alongside the wrapped cause chain.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an analysis error.
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeCompute    ErrorType = "COMPUTE"
	ErrTypeExport     ErrorType = "EXPORT"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// AnalysisError is the application-specific error carried through the
// pipeline. Context holds structured details (file, row, column) for logging.
type AnalysisError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to traverse the cause chain.
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a structured detail to the error.
func (e *AnalysisError) WithContext(key string, value interface{}) *AnalysisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new analysis error.
func New(errType ErrorType, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error.
func NewParsingError(message string, cause error) *AnalysisError {
	return New(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation-related error.
func NewValidationError(message string, cause error) *AnalysisError {
	return New(ErrTypeValidation, message, cause)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string, cause error) *AnalysisError {
	return New(ErrTypeNotFound, message, cause)
}

// NewComputeError creates a numeric-computation error.
func NewComputeError(message string, cause error) *AnalysisError {
	return New(ErrTypeCompute, message, cause)
}

// NewExportError creates an output-writing error.
func NewExportError(message string, cause error) *AnalysisError {
	return New(ErrTypeExport, message, cause)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *AnalysisError {
	return New(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of err if it carries one, or empty string.
func TypeOf(err error) ErrorType {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ""
}
