package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
	"github.com/hupe1980/agentcore/logging"
)

// Func is the implementation signature wrapped by a FunctionTool. Arguments
// arrive already validated against the declared schema.
type Func func(ctx context.Context, args map[string]any) (any, error)

// FunctionToolOptions configure a FunctionTool.
type FunctionToolOptions struct {
	// Logger receives tool.call.* events. Defaults to a no-op logger; the
	// decision engine logs executions at its own level regardless.
	Logger logging.Logger
}

// FunctionTool is a generic adapter that exposes a plain Go function as a Tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-shaped parameter schema
//   - Validates supplied arguments against that schema before execution
//   - Runs the wrapped function on its own goroutine so Execute never blocks
//   - Normalizes outcomes: argument mismatch and function errors resolve the
//     future with a failed Result; a panic rejects the future with a
//     *ToolError{Code: "EXECUTION_ERROR"}
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction besides the
//	availability flag and is safe for concurrent use by multiple goroutines.
//
// Parameter Schema Expectations:
//
//	The parameters map should follow a minimal JSON Schema shape. Only the
//	subset actually validated by util.ValidateParameters needs to be supplied
//	(type, properties, required).
type FunctionTool struct {
	// Registry key, also referenced by plan steps
	name string
	// Shown to models when tools are listed in prompts
	description string
	// Accepted argument schema
	parameters map[string]any
	// Schema pre-rendered as a JSON string
	schemaJSON string
	// Availability flag, flips via SetAvailable
	available atomic.Bool
	logger    logging.Logger
	// Wrapped implementation
	fn Func
}

// NewFunctionTool wraps fn as a Tool with an explicit parameter schema.
//
// The name must be unique within a registry (snake_case keeps model output
// predictable) and the description should tell the model when to pick this
// tool over another. fn receives args that already passed schema validation.
//
// Example:
//
//	shout := NewFunctionTool(
//	  "echo_upper",
//	  "Echo the input text in upper case",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "text": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"text"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return strings.ToUpper(args["text"].(string)), nil
//	  },
//	)
func NewFunctionTool(name, description string, parameters map[string]any, fn Func, optFns ...func(o *FunctionToolOptions)) *FunctionTool {
	opts := FunctionToolOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fnOpt := range optFns {
		fnOpt(&opts)
	}

	schemaJSON := "{}"
	if b, err := json.Marshal(parameters); err == nil {
		schemaJSON = string(b)
	}

	t := &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		schemaJSON:  schemaJSON,
		logger:      opts.Logger,
		fn:          fn,
	}
	t.available.Store(true)

	return t
}

// NewFunctionToolFromStruct derives the parameter schema from a struct using
// reflection. It is a convenience for simple argument containers and produces
// a schema equivalent to util.CreateSchema(structType).
//
// Example:
//
//	type LookupArgs struct {
//	  Key      string `json:"key" description:"Key to look up"`
//	  Fallback string `json:"fallback,omitempty" description:"Value when the key is absent"`
//	}
//
//	lookup := NewFunctionToolFromStruct(
//	  "kv_lookup",
//	  "Look up a value in the agent memory",
//	  LookupArgs{},
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return store.Get(args["key"].(string))
//	  },
//	)
func NewFunctionToolFromStruct(name, description string, structType any, fn Func, optFns ...func(o *FunctionToolOptions)) *FunctionTool {
	schema := util.CreateSchema(structType)

	return NewFunctionTool(name, description, schema, fn, optFns...)
}

// Name returns the unique tool name used in plan steps and registry lookups.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the one-line summary models see in tool listings.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the declared argument schema as a map.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// ParameterSchema returns the schema rendered as a JSON string.
func (t *FunctionTool) ParameterSchema() string { return t.schemaJSON }

// ValidateParameters reports whether args satisfy the declared schema.
func (t *FunctionTool) ValidateParameters(args map[string]any) bool {
	return util.ValidateParameters(args, t.parameters) == nil
}

// IsAvailable reports whether the tool accepts executions.
func (t *FunctionTool) IsAvailable() bool { return t.available.Load() }

// SetAvailable flips the availability flag, e.g. while a backing service is
// down.
func (t *FunctionTool) SetAvailable(available bool) { t.available.Store(available) }

// Execute validates the provided args against the declared schema then runs
// the underlying function on its own goroutine.
//
// Outcome Semantics:
//
//	validation failure -> Result{Success: false, Error: "parameter validation failed: …"}
//	function error     -> Result{Success: false, Error: err.Error()}
//	function success   -> Result{Success: true, Data: value}
//	panic in function  -> future rejected with *ToolError{Code: "EXECUTION_ERROR"}
//
// Every execution emits tool.call.* log events carrying the tool name and,
// on success, the elapsed milliseconds.
func (t *FunctionTool) Execute(ctx context.Context, args map[string]any) *core.Future[Result] {
	fut := core.NewFuture[Result]()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error("tool.call.panic", "tool", t.name, "panic", fmt.Sprintf("%v", r))
				fut.Reject(NewToolError(t.name, fmt.Sprintf("panic: %v", r), "EXECUTION_ERROR"))
			}
		}()

		start := time.Now()

		t.logger.Debug("tool.call.start", "tool", t.name)

		if err := util.ValidateParameters(args, t.parameters); err != nil {
			t.logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())
			fut.Resolve(Failure(fmt.Sprintf("parameter validation failed: %v", err)))

			return
		}

		data, err := t.fn(ctx, args)
		if err != nil {
			t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())
			fut.Resolve(Failure(err.Error()))

			return
		}

		t.logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())
		fut.Resolve(Success(data))
	}()

	return fut
}
