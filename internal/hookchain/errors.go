package hookchain

import (
	"errors"
	"fmt"
)

// ErrOwnerNotFound is returned by the enable/disable API for an owner that
// never went through BeforeInit.
var ErrOwnerNotFound = errors.New("owner not found")

// FatalCode categorizes unrecoverable registration errors.
type FatalCode string

const (
	// ErrCodeCapacityExhausted indicates every trampoline of a point is taken.
	ErrCodeCapacityExhausted FatalCode = "CAPACITY_EXHAUSTED"

	// ErrCodeDoubleRegistration indicates an owner registered twice, either
	// as an owner or at one point.
	ErrCodeDoubleRegistration FatalCode = "DOUBLE_REGISTRATION"

	// ErrCodeNotInitializing indicates AfterInit, or a registration that
	// needs an owner, without a matching BeforeInit.
	ErrCodeNotInitializing FatalCode = "NOT_INITIALIZING"

	// ErrCodeInitInProgress indicates BeforeInit while another owner's
	// init has not finished.
	ErrCodeInitInProgress FatalCode = "INIT_IN_PROGRESS"

	// ErrCodeInvalidRewriter indicates an output rewriter without Receive.
	ErrCodeInvalidRewriter FatalCode = "INVALID_REWRITER"
)

// FatalError is the panic value for errors the manager cannot recover
// from. Extension loading aborts when one is raised.
type FatalError struct {
	Code    FatalCode
	Point   string
	Owner   string
	Message string
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	switch {
	case e.Point != "" && e.Owner != "":
		return fmt.Sprintf("%s: %s (point=%s, owner=%s)", e.Code, e.Message, e.Point, e.Owner)
	case e.Owner != "":
		return fmt.Sprintf("%s: %s (owner=%s)", e.Code, e.Message, e.Owner)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsFatal reports whether err (or a recovered panic value) is a FatalError
// with the given code.
func IsFatal(v any, code FatalCode) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

func fatalf(code FatalCode, point, owner, format string, args ...any) {
	panic(&FatalError{
		Code:    code,
		Point:   point,
		Owner:   owner,
		Message: fmt.Sprintf(format, args...),
	})
}
