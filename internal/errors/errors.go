// Package errors provides custom error types for the startychat client.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrMissingControl  = errors.New("required chat controls not found")
	ErrPartialLoad     = errors.New("some components failed to load")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoContainer     = errors.New("container not found")
)

// APIError represents a chat service failure reported by the server,
// either through a non-2xx status or an application-level error field.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NetworkError represents a transport failure (DNS, connection reset, ...)
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// FragmentError represents a component fragment that could not be fetched.
type FragmentError struct {
	Name       string
	StatusCode int
	Cause      error
}

func (e *FragmentError) Error() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("component %s not found [%d]", e.Name, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("component %s: %v", e.Name, e.Cause)
	default:
		return fmt.Sprintf("component %s not found", e.Name)
	}
}

func (e *FragmentError) Unwrap() error {
	return e.Cause
}

// NewFragmentError creates a new FragmentError
func NewFragmentError(name string, statusCode int, cause error) *FragmentError {
	return &FragmentError{Name: name, StatusCode: statusCode, Cause: cause}
}

// MissingControlError lists the page controls the chat could not bind to.
type MissingControlError struct {
	Selectors []string
}

func (e *MissingControlError) Error() string {
	return fmt.Sprintf("required chat controls not found: %s", strings.Join(e.Selectors, ", "))
}

// Is allows comparison with sentinel errors
func (e *MissingControlError) Is(target error) bool {
	return target == ErrMissingControl
}

// NewMissingControlError creates a new MissingControlError
func NewMissingControlError(selectors ...string) *MissingControlError {
	return &MissingControlError{Selectors: selectors}
}

// PartialLoadError reports which fragments failed during a bulk load.
type PartialLoadError struct {
	Failed []string
}

func (e *PartialLoadError) Error() string {
	return fmt.Sprintf("some components failed to load: %s", strings.Join(e.Failed, ", "))
}

// Is allows comparison with sentinel errors
func (e *PartialLoadError) Is(target error) bool {
	return target == ErrPartialLoad
}

// NewPartialLoadError creates a new PartialLoadError
func NewPartialLoadError(failed ...string) *PartialLoadError {
	return &PartialLoadError{Failed: failed}
}

// IsNetworkError reports whether err is, or wraps, a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPIError reports whether err is, or wraps, an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// GetHTTPStatus extracts the HTTP status carried by err, or 0.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var fragErr *FragmentError
	if errors.As(err, &fragErr) {
		return fragErr.StatusCode
	}
	return 0
}

// UserMessage returns the text shown to the user in place of a reply.
// Server-provided messages are surfaced verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "failed to reach the chat service"
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}
	return err.Error()
}
