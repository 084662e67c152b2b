package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Configuration errors, fatal before any I/O
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrRuleInvalid ErrorCode = "RULE_INVALID"

	// Edit index (csv) errors
	ErrIndexNoFiles ErrorCode = "INDEX_NO_FILES"
	ErrIndexRead    ErrorCode = "INDEX_READ"

	// Media errors
	ErrMediaNoFiles ErrorCode = "MEDIA_NO_FILES"
	ErrProbeFailed  ErrorCode = "PROBE_FAILED"

	// Matching errors
	ErrNoMatches ErrorCode = "NO_MATCHES"

	// Filesystem errors
	ErrRootUnreachable ErrorCode = "ROOT_UNREACHABLE"
	ErrEdlWrite        ErrorCode = "EDL_WRITE"
)

// EditError represents a structured error with code and details
type EditError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EditError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EditError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface, comparing by code
func (e *EditError) Is(target error) bool {
	var targetErr *EditError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail adds a detail key-value pair to the error
func (e *EditError) WithDetail(key string, value interface{}) *EditError {
	e.Details[key] = value
	return e
}

// New creates a new EditError with the given code and message
func New(code ErrorCode, message string) *EditError {
	return &EditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EditError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EditError {
	return &EditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EditError
func Wrap(err error, code ErrorCode, message string) *EditError {
	if err == nil {
		return nil
	}
	return &EditError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EditError {
	if err == nil {
		return nil
	}
	return &EditError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// GetCode extracts the error code from an error, returning ErrUnknown
// for errors that are not EditErrors
func GetCode(err error) ErrorCode {
	var editErr *EditError
	if errors.As(err, &editErr) {
		return editErr.Code
	}
	return ErrUnknown
}

// IsCode checks whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
