package proximity

import "fmt"

// Error codes follow the ERR_XXX_NAME pattern: 4XX for caller mistakes, 5XX for internal limits.
const (
	CodeInvalidArgument   = "ERR_401_INVALID_ARGUMENT"
	CodeResourceExhausted = "ERR_507_RESOURCE_EXHAUSTED"
)

// Error is the structured error returned by the search kernel.
type Error struct {
	// Code is one of the Code* constants.
	Code string
	// Message is the human-readable description.
	Message string
	// Field names the offending request field for validation errors.
	Field string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code, so errors.Is(err, ErrInvalidArgument) holds for any validation error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidArgument   = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrResourceExhausted = &Error{Code: CodeResourceExhausted, Message: "memory budget exhausted, result truncated"}
)

func invalidArgument(field, message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message, Field: field}
}

// GetCode extracts the code from an *Error, or returns "" for any other error.
func GetCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
