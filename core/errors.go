package core

import (
	"errors"
	"fmt"
)

// ErrorCode classifies runtime errors so callers can branch on the class of
// failure without string matching.
type ErrorCode string

// Error codes of the runtime taxonomy.
const (
	// CodeInvalidState marks an operation attempted outside its required
	// lifecycle state. Fatal to the call, not to the agent.
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// CodeNotRunning marks a message or goal submitted while the agent is
	// not RUNNING.
	CodeNotRunning ErrorCode = "NOT_RUNNING"

	// CodeInvalidArgument marks a structurally invalid request, such as
	// choosing the best of zero options.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodePlanParse marks an unparseable model planning response. Always
	// recovered internally via the fallback plan.
	CodePlanParse ErrorCode = "PLAN_PARSE"

	// CodeToolNotFound marks a plan step referencing an unregistered tool.
	CodeToolNotFound ErrorCode = "TOOL_NOT_FOUND"

	// CodeToolExecution marks a tool run that failed or panicked.
	CodeToolExecution ErrorCode = "TOOL_EXECUTION"

	// CodeModelCall marks a failed model invocation.
	CodeModelCall ErrorCode = "MODEL_CALL"

	// CodeInternal marks unexpected internal failures such as recovered
	// panics in scheduled tasks.
	CodeInternal ErrorCode = "INTERNAL"
)

// Error is the coded error used throughout the runtime. It wraps an optional
// cause for errors.Is/As chains.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a coded error without a cause.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a coded error from a format string.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a coded error wrapping a cause.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NewInvalidStateError reports an operation rejected in the given state.
func NewInvalidStateError(op string, state State) *Error {
	return NewErrorf(CodeInvalidState, "cannot %s agent in state %s", op, state)
}

// NewNotRunningError reports work submitted while the agent is not running.
func NewNotRunningError(state State) *Error {
	return NewErrorf(CodeNotRunning, "agent is not running (state %s)", state)
}

// AsError extracts a coded *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var coded *Error
	if errors.As(err, &coded) {
		return coded, true
	}

	return nil, false
}

// IsCode reports whether err carries the given error code anywhere in its
// chain.
func IsCode(err error, code ErrorCode) bool {
	if coded, ok := AsError(err); ok {
		return coded.Code == code
	}

	return false
}
