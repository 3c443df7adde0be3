package model

import (
	"errors"
	"fmt"
)

// TransformErrorType categorizes failures of the transformation components.
type TransformErrorType int

const (
	// NotFound indicates a referenced template or source file is absent.
	NotFound TransformErrorType = iota
	// ConfigurationError indicates a caller or configuration bug: mismatched
	// list lengths, missing slots, insufficient renumbering targets or
	// ambiguous family patterns.
	ConfigurationError
	// IOError indicates a read or write failure at the storage layer.
	IOError
)

// String returns the string representation of the error type.
func (t TransformErrorType) String() string {
	switch t {
	case NotFound:
		return "NotFound"
	case ConfigurationError:
		return "ConfigurationError"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// TransformError is returned by the instantiator, renumberer and include
// normalizer.
type TransformError struct {
	// Type categorizes the error.
	Type TransformErrorType
	// Message is the error message.
	Message string
	// Path is the file path related to the error (if applicable).
	Path string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (file: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// NewTransformError creates a new TransformError.
func NewTransformError(typ TransformErrorType, path, message string, cause error) *TransformError {
	return &TransformError{
		Type:    typ,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// NewNotFoundError creates a NotFound error.
func NewNotFoundError(path string, cause error) *TransformError {
	return NewTransformError(NotFound, path, "file not found", cause)
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(path, message string, cause error) *TransformError {
	return NewTransformError(ConfigurationError, path, message, cause)
}

// NewIOError creates an IOError.
func NewIOError(path, message string, cause error) *TransformError {
	return NewTransformError(IOError, path, message, cause)
}

// ErrorType extracts the TransformErrorType from err's chain.
func ErrorType(err error) (TransformErrorType, bool) {
	var te *TransformError
	if errors.As(err, &te) {
		return te.Type, true
	}
	return 0, false
}

// IsNotFound reports whether err is a NotFound TransformError.
func IsNotFound(err error) bool {
	typ, ok := ErrorType(err)
	return ok && typ == NotFound
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	typ, ok := ErrorType(err)
	return ok && typ == ConfigurationError
}

// IsIOError reports whether err is an IOError.
func IsIOError(err error) bool {
	typ, ok := ErrorType(err)
	return ok && typ == IOError
}
