package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures card or application configuration issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConnectionError reports a failure to reach or keep talking to the host.
type ConnectionError struct {
	Endpoint string
	Err      error
}

// NewConnectionError constructs a ConnectionError for the given endpoint.
func NewConnectionError(endpoint string, err error) error {
	return &ConnectionError{Endpoint: endpoint, Err: err}
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("connection error [%s]: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("connection error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthError indicates the host rejected the supplied credentials. It is never
// retried.
type AuthError struct {
	Endpoint string
	Message  string
}

// NewAuthError constructs an AuthError.
func NewAuthError(endpoint, message string) error {
	return &AuthError{Endpoint: endpoint, Message: message}
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("authentication rejected by %s", e.Endpoint)
	}
	return fmt.Sprintf("authentication rejected by %s: %s", e.Endpoint, e.Message)
}
