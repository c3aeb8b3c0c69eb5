package host

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors raised by the host.
type ErrorCode string

const (
	// ErrCodeEmptyStatement indicates Exec was given no SQL.
	ErrCodeEmptyStatement ErrorCode = "EMPTY_STATEMENT"

	// ErrCodeQueryFailed indicates storage rejected or failed the statement.
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"

	// ErrCodeCanceled indicates the query context was cancelled mid-run.
	ErrCodeCanceled ErrorCode = "QUERY_CANCELED"

	// ErrCodeNoPlan indicates a planner hook returned no plan.
	ErrCodeNoPlan ErrorCode = "NO_PLAN"
)

// ErrAlreadyLoaded is returned by Load for an extension name already loaded.
var ErrAlreadyLoaded = errors.New("extension already loaded")

// ExecError is an error raised while a query runs.
type ExecError struct {
	Code    ErrorCode
	Stage   string
	QueryID string
	SQL     string
	Err     error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Stage)
	if e.QueryID != "" {
		msg += fmt.Sprintf(" (query=%s)", e.QueryID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsExecError reports whether err is an ExecError with the given code.
func IsExecError(err error, code ErrorCode) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// Raise aborts the running query with err. Exec turns the panic back into
// a returned error after every frame between here and Exec has unwound.
func Raise(code ErrorCode, stage string, qd *QueryDesc, err error) {
	ee := &ExecError{Code: code, Stage: stage, Err: err}
	if qd != nil {
		ee.QueryID = qd.ID
		ee.SQL = qd.SourceText
	}
	panic(ee)
}
