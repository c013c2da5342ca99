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
	ErrUnknown ErrorCode = "UNKNOWN"

	// Storage errors: the filesystem refused or failed an operation
	// (permissions, I/O failure, missing parent, disk full). Never
	// retried by the store; retry policy belongs to the caller.
	ErrStorage ErrorCode = "STORAGE"

	// ErrNotFound is returned by direct element access when a key or
	// index has no backing entry.
	ErrNotFound ErrorCode = "NOT_FOUND"

	// ErrValueKind marks a shape the codec cannot represent, or an
	// invalid range descriptor such as a zero step.
	ErrValueKind ErrorCode = "VALUE_KIND"

	// ErrConsistency marks a disagreement between the cached length and
	// an actual enumeration. It is an invariant check, not an expected
	// runtime condition.
	ErrConsistency ErrorCode = "CONSISTENCY"

	// ErrInvalidated is returned by operations on a handle whose tree
	// was destroyed or moved away.
	ErrInvalidated ErrorCode = "INVALIDATED"

	// ErrInvalidInput marks malformed caller input such as an operation
	// with no target or an unparseable index argument.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// StoreError represents a structured error with code and details
type StoreError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StoreError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *StoreError) Is(target error) bool {
	var targetErr *StoreError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new StoreError with the given code and message
func New(code ErrorCode, message string) *StoreError {
	return &StoreError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new StoreError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *StoreError {
	return &StoreError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a StoreError
func Wrap(err error, code ErrorCode, message string) *StoreError {
	if err == nil {
		return nil
	}
	return &StoreError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StoreError {
	if err == nil {
		return nil
	}
	return &StoreError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *StoreError) WithDetail(key string, value interface{}) *StoreError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *StoreError) WithDetails(details map[string]interface{}) *StoreError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a StoreError
func GetErrorCode(err error) ErrorCode {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a StoreError
func GetErrorDetails(err error) map[string]interface{} {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Details
	}
	return nil
}
