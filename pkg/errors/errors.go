// Package errors provides custom error types for the collectorking system.
// These errors enable programmatic error checking across the reconciliation
// pipeline: callers distinguish a card that does not exist in the catalog
// from a catalog that is temporarily unreachable, and row-scoped failures
// from batch-fatal ones.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the collectorking system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates that the catalog service is temporarily unreachable
	ErrUnavailable = errors.New("catalog unavailable")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrMissingColumn indicates that a required input column is absent
	ErrMissingColumn = errors.New("missing required column")

	// ErrRarityUnresolvable indicates that no canonical rarity could be
	// determined for a row
	ErrRarityUnresolvable = errors.New("rarity unresolvable")

	// ErrRecordNotFound indicates that no stored record matches the given key
	ErrRecordNotFound = errors.New("record not found")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// MissingColumnError reports that none of the input headers mapped to a
// required logical field. It aborts the whole import.
type MissingColumnError struct {
	Field   string
	Headers []string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("no column matches required field %q (columns found: %v)", e.Field, e.Headers)
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// RarityError reports a failed rarity resolution for a single row.
type RarityError struct {
	SetCode string
	Reason  string
	Err     error
}

// Error implements the error interface
func (e *RarityError) Error() string {
	return fmt.Sprintf("cannot resolve rarity for %s: %s", e.SetCode, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *RarityError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RarityError) Is(target error) bool {
	return target == ErrRarityUnresolvable
}

// RecordError reports an operation on a collection key with no stored record.
type RecordError struct {
	Key string
}

// Error implements the error interface
func (e *RecordError) Error() string {
	return fmt.Sprintf("no stored record for %s", e.Key)
}

// Is implements errors.Is support
func (e *RecordError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// APIError represents an error from the catalog service API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. A 404 means the code does not exist in
// the source; transport failures and 5xx responses are transient.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	if e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500 {
		return target == ErrUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable checks if an error indicates catalog unavailability
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsRarityUnresolvable checks if an error is a rarity resolution failure
func IsRarityUnresolvable(err error) bool {
	return errors.Is(err, ErrRarityUnresolvable)
}

// IsRecordNotFound checks if an error is a missing stored record
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
