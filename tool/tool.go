// Package tool implements the tool calling subsystem that lets agents invoke
// structured capabilities (APIs, computations, side-effects) with schema
// validated arguments, consistent error handling and rich metadata for LLM
// guidance.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
)

// Tool is a capability an agent can invoke from an execution plan: an API
// call, a computation, a storage operation, anything beyond text generation.
//
// Implementations must be safe for concurrent use. Plans may run several
// steps against the same tool, and names double as registry keys, so pick
// stable snake_case names and give the model a description worth planning
// with.
type Tool interface {
	// Name returns the unique identifier for this tool. The name is the plan
	// step lookup key; on registry collisions the last registered tool wins.
	Name() string

	// Description returns a short summary of what the tool does. It is
	// embedded in planning prompts, so phrasing directly affects tool choice.
	Description() string

	// ParameterSchema returns a JSON-schema-shaped string describing the
	// expected input format.
	ParameterSchema() string

	// Execute runs the tool asynchronously and never blocks the caller. The
	// returned future resolves with a Result (which may report failure) and
	// is rejected only when execution itself blew up, e.g. on a panic.
	Execute(ctx context.Context, params map[string]any) *core.Future[Result]

	// ValidateParameters reports whether params satisfy the declared schema.
	ValidateParameters(params map[string]any) bool

	// IsAvailable reports whether the tool can currently be used.
	IsAvailable() bool
}

// Result is the outcome of a tool execution: a success payload XOR an error
// message, plus optional metadata.
type Result struct {
	Success  bool           `json:"success"`
	Data     any            `json:"data,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Success returns a successful Result carrying data.
func Success(data any) Result {
	return Result{Success: true, Data: data}
}

// Failure returns a failed Result carrying an error message.
func Failure(message string) Result {
	return Result{Success: false, Error: message}
}

// ValidationError is re-exported so callers can inspect which argument was
// rejected without importing the internal util package.
type ValidationError = util.ValidationError

// ToolError signals that an execution itself failed (as opposed to the tool
// reporting a failed Result).
type ToolError struct {
	Tool    string `json:"tool"`              // Which tool failed
	Message string `json:"message"`           // What went wrong
	Code    string `json:"code"`              // Category, e.g. EXECUTION_ERROR
	Details any    `json:"details,omitempty"` // Optional structured context
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}

	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError builds a ToolError for the named tool.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
