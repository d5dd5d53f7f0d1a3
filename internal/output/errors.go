package output

import "fmt"

// Exit codes following sysexits.h convention
const (
	ExitOK          = 0  // Success
	ExitGeneral     = 1  // General error
	ExitUsage       = 2  // Invalid usage / bad arguments
	ExitNotFound    = 4  // Unknown key or resource
	ExitConfigError = 10 // Configuration error (missing file or property)
	ExitSinkError   = 12 // Publishing to the property sink failed
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// Errorf creates a CLIError with a formatted message
func Errorf(code int, format string, args ...any) *CLIError {
	return NewCLIError(code, fmt.Sprintf(format, args...))
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}
