// Package errors defines the structured error type used throughout the
// vegadoc build. Every failure is either fatal (aborts the whole build) or
// recoverable (the offending directive block is skipped with a warning); the
// Recoverable flag carries that distinction to the pipeline.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeOption   ErrorType = "option"
	ErrorTypeExec     ErrorType = "exec"
	ErrorTypeChart    ErrorType = "chart"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeInternal ErrorType = "internal"
)

// BuildError is a structured error with document context.
type BuildError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Docname     string
	Line        int
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Docname != "" {
		location := e.Docname
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *BuildError) Is(target error) bool {
	var t *BuildError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BuildError) WithContext(key string, value interface{}) *BuildError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds document location information.
func (e *BuildError) WithLocation(docname string, line int) *BuildError {
	e.Docname = docname
	e.Line = line

	return e
}

// Error creation functions

// NewOptionError creates a directive option validation error. Invalid option
// syntax always aborts the build.
func NewOptionError(code, message string) *BuildError {
	return &BuildError{
		Type:        ErrorTypeOption,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewExecError creates a code execution error. Whether it aborts the build is
// decided by the directive's strict flag, so the caller sets recoverable.
func NewExecError(message string, cause error, recoverable bool) *BuildError {
	return &BuildError{
		Type:        ErrorTypeExec,
		Code:        ErrCodeExecFailed,
		Message:     message,
		Cause:       cause,
		Recoverable: recoverable,
	}
}

// NewChartError creates a chart resolution or validation error.
func NewChartError(code, message string, cause error, recoverable bool) *BuildError {
	return &BuildError{
		Type:        ErrorTypeChart,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: recoverable,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *BuildError {
	return &BuildError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(message string, cause error) *BuildError {
	return &BuildError{
		Type:        ErrorTypeIO,
		Code:        ErrCodeIO,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *BuildError {
	return &BuildError{
		Type:        ErrorTypeInternal,
		Code:        ErrCodeInternal,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks whether an error may be handled by skipping the
// offending block instead of aborting the build. Unknown error values are
// treated as fatal.
func IsRecoverable(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Recoverable
	}

	return false
}

// IsOptionError checks if an error came from directive option validation.
func IsOptionError(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeOption
	}

	return false
}

// Common error codes.
const (
	ErrCodeInvalidOption = "ERR_INVALID_OPTION"
	ErrCodeExecFailed    = "ERR_EXEC_FAILED"
	ErrCodeVarNotFound   = "ERR_VAR_NOT_FOUND"
	ErrCodeNotAChart     = "ERR_NOT_A_CHART"
	ErrCodeInvalidSpec   = "ERR_INVALID_SPEC"
	ErrCodeConfigInvalid = "ERR_CONFIG_INVALID"
	ErrCodeIO            = "ERR_IO"
	ErrCodeInternal      = "ERR_INTERNAL"
)

// Helper constructors for the failure taxonomy.

// ErrInvalidOption creates an invalid directive option error naming the value.
func ErrInvalidOption(option, detail string) *BuildError {
	return NewOptionError(
		ErrCodeInvalidOption,
		fmt.Sprintf("invalid :%s: option: %s", option, detail),
	)
}

// ErrVarNotFound creates a missing chart-var-name error. Always fatal.
func ErrVarNotFound(name string) *BuildError {
	return &BuildError{
		Type:        ErrorTypeChart,
		Code:        ErrCodeVarNotFound,
		Message:     fmt.Sprintf("chart-var-name=%q not present in namespace", name),
		Recoverable: false,
	}
}

// ErrNotAChart creates a warning-level error for a plot block whose result
// value is not a chart.
func ErrNotAChart(docname string, line int) *BuildError {
	return &BuildError{
		Type:        ErrorTypeChart,
		Code:        ErrCodeNotAChart,
		Message:     "malformed block: last line of code block should define a valid chart object",
		Docname:     docname,
		Line:        line,
		Recoverable: true,
	}
}

// ErrInvalidSpec creates a fatal spec validation error naming the offending
// code block.
func ErrInvalidSpec(code string, cause error) *BuildError {
	return NewChartError(
		ErrCodeInvalidSpec,
		"invalid chart: "+code,
		cause,
		false,
	)
}
