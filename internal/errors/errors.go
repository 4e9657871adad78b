package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNoInput         = errors.New("no input provided: please specify an input and an output file")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnbalanced      = errors.New("unbalanced braces before end of segment")
	ErrRepairFailed    = errors.New("event could not be repaired into valid JSON")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeExtract ErrorType = "extract"
	ErrorTypeRepair  ErrorType = "repair"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading the input file
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewConfigError creates a new error related to loading or validating configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// NewExtractError creates a new error raised while scanning segments for events
func NewExtractError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExtract, Message: message, Err: err}
}

// NewRepairError creates a new error raised by the repair pass on a single event
func NewRepairError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeRepair, Message: message, Err: err}
}

// NewOutputError creates a new error related to writing the output document
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeExtract:
			return fmt.Sprintf("Extraction error: %s", appErr.Message)
		case ErrorTypeRepair:
			return fmt.Sprintf("JSON repair error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify an input and an output file."
	}
	if errors.Is(err, ErrInvalidConfig) {
		return "Error: The configuration is invalid. Please check your .jsonify.yml."
	}
	if errors.Is(err, ErrRepairFailed) {
		return "Error: An event could not be repaired into valid JSON."
	}

	return fmt.Sprintf("Error: %v", err)
}
