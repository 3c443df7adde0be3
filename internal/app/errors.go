package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// DuplicateFailed indicates template instantiation failed.
	DuplicateFailed AppErrorType = iota
	// RenumberFailed indicates identifier renumbering failed.
	RenumberFailed
	// IncludesFailed indicates include normalization failed.
	IncludesFailed
	// RecipeFailed indicates one or more recipe steps failed.
	RecipeFailed
	// ConfigLoadFailed indicates the configuration or recipe could not be loaded.
	ConfigLoadFailed
	// ValidationFailed indicates validation failed.
	ValidationFailed
)

// String returns the string representation of the error type.
func (t AppErrorType) String() string {
	switch t {
	case DuplicateFailed:
		return "DuplicateFailed"
	case RenumberFailed:
		return "RenumberFailed"
	case IncludesFailed:
		return "IncludesFailed"
	case RecipeFailed:
		return "RecipeFailed"
	case ConfigLoadFailed:
		return "ConfigLoadFailed"
	case ValidationFailed:
		return "ValidationFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewDuplicateError creates a duplicate error.
func NewDuplicateError(message string, cause error) *AppError {
	return NewAppError(DuplicateFailed, message, cause)
}

// NewRenumberError creates a renumber error.
func NewRenumberError(message string, cause error) *AppError {
	return NewAppError(RenumberFailed, message, cause)
}

// NewIncludesError creates an include normalization error.
func NewIncludesError(message string, cause error) *AppError {
	return NewAppError(IncludesFailed, message, cause)
}

// NewRecipeError creates a recipe error.
func NewRecipeError(message string, cause error) *AppError {
	return NewAppError(RecipeFailed, message, cause)
}

// NewConfigLoadError creates a configuration load error.
func NewConfigLoadError(message string, cause error) *AppError {
	return NewAppError(ConfigLoadFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// FileError records a failure on one file of a batch.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e FileError) Unwrap() error {
	return e.Err
}
