package payroll

import "fmt"

// Code is the closed error taxonomy every operation in this package returns
// through. Callers (internal/httpapi, cmd/payrollctl) map Code to transport-
// specific representations (HTTP status, exit code) at the edge; nothing
// inside this package does that mapping itself.
type Code string

const (
	CodeInvalidState     Code = "invalid_state"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeValidationError  Code = "validation_error"
	CodeInternal         Code = "internal"
)

// Error carries a Code alongside the underlying cause.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}
