// Package errors provides domain-specific errors for the tokcount application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain error conditions.
var (
	ErrEmptyText           = errors.New("input text cannot be empty")
	ErrMissingCredential   = errors.New("missing credential")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEncodingUnavailable = errors.New("tokenizer encoding unavailable")
	ErrConflictingInput    = errors.New("conflicting input sources")
	ErrInvalidPricing      = errors.New("invalid pricing dataset")
)

// ErrorCode categorizes errors for handling and reporting.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIG"
	CodeDependency    ErrorCode = "DEPENDENCY"
	CodeUpstream      ErrorCode = "UPSTREAM"
)

// TokcountError wraps errors with additional context for debugging and handling.
type TokcountError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns a formatted error string including the code, message, and cause if present.
func (e *TokcountError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *TokcountError) Unwrap() error {
	return e.Cause
}

// NewError creates a new TokcountError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *TokcountError {
	return &TokcountError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error's context and returns the error.
// This allows for method chaining when adding multiple context values.
func WithContext(err *TokcountError, key string, value interface{}) *TokcountError {
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context[key] = value
	return err
}

// Validation returns a CodeValidation error.
func Validation(message string, cause error) *TokcountError {
	return NewError(CodeValidation, message, cause)
}

// Configuration returns a CodeConfiguration error.
func Configuration(message string, cause error) *TokcountError {
	return NewError(CodeConfiguration, message, cause)
}

// Dependency returns a CodeDependency error.
func Dependency(message string, cause error) *TokcountError {
	return NewError(CodeDependency, message, cause)
}

// MissingCredential returns the configuration error raised before any remote
// call when a provider's credential cannot be resolved.
func MissingCredential(message string, envVars ...string) *TokcountError {
	err := Configuration(message, ErrMissingCredential)
	if len(envVars) > 0 {
		WithContext(err, "env", envVars)
	}
	return err
}

// CodeOf returns the code of the first TokcountError in err's chain.
// Errors that did not originate locally report CodeUpstream.
func CodeOf(err error) ErrorCode {
	var te *TokcountError
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeUpstream
}

// Is reports whether err matches target using errors.Is semantics.
// This is a convenience wrapper around the standard library's errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target and sets target to that error value.
// This is a convenience wrapper around the standard library's errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// UserMessage renders err for a one-line CLI report. Local errors show their
// message and any non-sentinel cause; foreign errors show as is.
func UserMessage(err error) string {
	var te *TokcountError
	if !errors.As(err, &te) {
		return err.Error()
	}
	if te.Cause == nil || isSentinel(te.Cause) {
		return te.Message
	}
	return te.Message + ": " + te.Cause.Error()
}

func isSentinel(err error) bool {
	switch err {
	case ErrEmptyText, ErrMissingCredential, ErrUnsupportedProvider,
		ErrEncodingUnavailable, ErrConflictingInput, ErrInvalidPricing:
		return true
	}
	return false
}
