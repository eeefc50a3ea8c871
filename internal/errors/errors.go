package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so callers can branch on the
// failure class instead of matching message strings.
type ErrorType string

const (
	ErrTypeEmptyInput          ErrorType = "EMPTY_INPUT"
	ErrTypeUnsupportedStrategy ErrorType = "UNSUPPORTED_STRATEGY"
	ErrTypeInvalidColumn       ErrorType = "INVALID_COLUMN"
	ErrTypeMissingColumn       ErrorType = "MISSING_COLUMN"
	ErrTypeInvalidArgument     ErrorType = "INVALID_ARGUMENT"
	ErrTypeParsing             ErrorType = "PARSING"
	ErrTypeStorage             ErrorType = "STORAGE"
	ErrTypeValidation          ErrorType = "VALIDATION"
	ErrTypeConfig              ErrorType = "CONFIG"
	ErrTypeNotFound            ErrorType = "NOT_FOUND"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the cleaning/analysis error kinds

// NewEmptyInputError reports an operation invoked on a zero-row table where
// nonempty input is required.
func NewEmptyInputError(operation string) *AppError {
	return NewAppError(ErrTypeEmptyInput, fmt.Sprintf("%s requires a nonempty table", operation), nil).
		WithContext("operation", operation)
}

// NewUnsupportedStrategyError reports an unrecognized missing-value strategy.
func NewUnsupportedStrategyError(strategy string) *AppError {
	return NewAppError(ErrTypeUnsupportedStrategy, fmt.Sprintf("unsupported missing-value strategy %q", strategy), nil).
		WithContext("strategy", strategy)
}

// NewInvalidColumnError reports an operation targeting a column that is
// absent or of the wrong type for the operation.
func NewInvalidColumnError(column, reason string) *AppError {
	return NewAppError(ErrTypeInvalidColumn, fmt.Sprintf("column %q: %s", column, reason), nil).
		WithContext("column", column)
}

// NewMissingColumnError reports a column absent from the table schema.
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("column %q not found", column), nil).
		WithContext("column", column)
}

// NewInvalidArgumentError reports a caller-supplied argument outside its
// valid domain.
func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(ErrTypeInvalidArgument, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError reports a resource that does not exist yet.
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil).
		WithContext("resource", resource)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of err, or the empty string when err is not
// an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// IsEmptyInput reports whether err is an EMPTY_INPUT error.
func IsEmptyInput(err error) bool {
	return IsType(err, ErrTypeEmptyInput)
}

// IsUnsupportedStrategy reports whether err is an UNSUPPORTED_STRATEGY error.
func IsUnsupportedStrategy(err error) bool {
	return IsType(err, ErrTypeUnsupportedStrategy)
}

// IsInvalidColumn reports whether err is an INVALID_COLUMN error.
func IsInvalidColumn(err error) bool {
	return IsType(err, ErrTypeInvalidColumn)
}

// IsMissingColumn reports whether err is a MISSING_COLUMN error.
func IsMissingColumn(err error) bool {
	return IsType(err, ErrTypeMissingColumn)
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgument(err error) bool {
	return IsType(err, ErrTypeInvalidArgument)
}
