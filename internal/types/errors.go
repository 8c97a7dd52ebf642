package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for guardrail errors.
type ErrorCode string

// Catalog error codes
const (
	CATALOG_DUPLICATE_ID    ErrorCode = "CATALOG_DUPLICATE_ID"
	CATALOG_INVALID_MATCHER ErrorCode = "CATALOG_INVALID_MATCHER"
	CATALOG_INVALID_FIELD   ErrorCode = "CATALOG_INVALID_FIELD"
	CATALOG_LOAD_FAILED     ErrorCode = "CATALOG_LOAD_FAILED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Review queue error codes
const (
	REVIEW_ITEM_NOT_FOUND   ErrorCode = "REVIEW_ITEM_NOT_FOUND"
	REVIEW_ALREADY_RESOLVED ErrorCode = "REVIEW_ALREADY_RESOLVED"
	REVIEW_INVALID_OUTCOME  ErrorCode = "REVIEW_INVALID_OUTCOME"
)

// Evaluation error codes
const (
	EVAL_INTERNAL_FAILURE ErrorCode = "EVAL_INTERNAL_FAILURE"
)

// GuardrailError is a structured error with a code, message, and optional
// cause. It supports error wrapping via Unwrap and code comparison via Is.
type GuardrailError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if a cause exists.
func (e *GuardrailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *GuardrailError) Unwrap() error {
	return e.Cause
}

// Is matches two GuardrailErrors by code, enabling errors.Is comparisons
// against code-only sentinel errors.
func (e *GuardrailError) Is(target error) bool {
	var ge *GuardrailError
	if errors.As(target, &ge) {
		return e.Code == ge.Code
	}
	return false
}

// NewError creates a GuardrailError with the given code and message.
func NewError(code ErrorCode, message string) *GuardrailError {
	return &GuardrailError{Code: code, Message: message}
}

// NewErrorf creates a GuardrailError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *GuardrailError {
	return &GuardrailError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a GuardrailError wrapping an existing error.
// The wrapped error is accessible via Unwrap.
func WrapError(code ErrorCode, message string, cause error) *GuardrailError {
	return &GuardrailError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a
// GuardrailError, and returns an empty code otherwise.
func CodeOf(err error) ErrorCode {
	var ge *GuardrailError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
