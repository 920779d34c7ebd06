// Package errors provides standardized error types and helpers for the uncorpora codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedStream indicates the document cannot be split into units
	ErrMalformedStream = errors.New("malformed stream")
	// ErrInvariant indicates a unit violates a structural assumption of a filter
	ErrInvariant = errors.New("invariant violation")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "run")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "language list")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// MalformedStreamError reports a document whose units cannot be demarcated,
// such as a unit that is still open when the stream ends.
type MalformedStreamError struct {
	Reason string
}

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("malformed stream: %s", e.Reason)
}

func (e *MalformedStreamError) Unwrap() error {
	return ErrMalformedStream
}

// InvariantError reports a unit that breaks an assumption a filter relies on.
type InvariantError struct {
	Operation string // Filter that detected the violation (e.g., "remove")
	Reason    string
}

func (e *InvariantError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
	}
	return e.Reason
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// UnitError locates a failure at a translation unit.
type UnitError struct {
	Unit int    // 1-based ordinal of the unit in the document
	TUID string // tuid attribute of the unit, if present
	Line int    // Source line near the failure, 0 when unknown
	Err  error
}

func (e *UnitError) Error() string {
	where := fmt.Sprintf("unit %d", e.Unit)
	if e.TUID != "" {
		where += fmt.Sprintf(" (tuid %s)", e.TUID)
	}
	if e.Line > 0 {
		where += fmt.Sprintf(" near line %d", e.Line)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewMalformedStream creates a MalformedStreamError
func NewMalformedStream(reason string) *MalformedStreamError {
	return &MalformedStreamError{Reason: reason}
}

// NewInvariant creates an InvariantError
func NewInvariant(operation, reason string) *InvariantError {
	return &InvariantError{
		Operation: operation,
		Reason:    reason,
	}
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}
