package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInput represents rejected caller input
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeNotFound represents hard lookups that missed
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeGraph represents family graph and graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeFixture represents fixture file errors
	ErrorTypeFixture ErrorType = "fixture"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrType reports the category; promoted to every error embedding BaseError.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Input Errors

// ErrInvalidInput is returned when a required argument is absent or malformed
type ErrInvalidInput struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidInput(field, reason string) *ErrInvalidInput {
	return &ErrInvalidInput{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Lookup Errors

// ErrNotFound is returned when an identifier does not resolve
type ErrNotFound struct {
	*BaseError
	Kind string
	ID   string
}

func NewNotFound(kind, id string) *ErrNotFound {
	return &ErrNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", kind, id), nil),
		Kind:      kind,
		ID:        id,
	}
}

// Graph Errors

// ErrCycleDetected is returned when a parent chain loops back on itself
type ErrCycleDetected struct {
	*BaseError
	PersonID string
}

func NewCycleDetected(personID string) *ErrCycleDetected {
	return &ErrCycleDetected{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("ancestor cycle through person: %s", personID), nil),
		PersonID:  personID,
	}
}

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Fixture Errors

// ErrFixtureLoadFailed is returned when a fixture file cannot be read or decoded
type ErrFixtureLoadFailed struct {
	*BaseError
	Path string
}

func NewFixtureLoadFailed(path string, err error) *ErrFixtureLoadFailed {
	return &ErrFixtureLoadFailed{
		BaseError: NewBaseError(ErrorTypeFixture, fmt.Sprintf("failed to load fixture: %s", path), err),
		Path:      path,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typedError interface {
	error
	ErrType() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		var typed typedError
		if !stderrors.As(err, &typed) {
			return false
		}
		if typed.ErrType() == errType {
			return true
		}
		err = stderrors.Unwrap(typed)
	}
	return false
}

// IsInvalidInput reports whether err is an input error
func IsInvalidInput(err error) bool {
	return IsErrorType(err, ErrorTypeInput)
}

// IsNotFound reports whether err is a hard lookup miss
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}
