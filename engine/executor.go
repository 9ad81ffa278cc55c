package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/metrics"
	"github.com/hupe1980/agentcore/tool"
)

// StepExecutorOptions configures a StepExecutor.
type StepExecutorOptions struct {
	// Logger receives per-step progress and failures.
	Logger logging.Logger
}

// StepExecutor runs execution plans against a set of tools. Steps run
// strictly sequentially; a missing tool, a failed result or a panicking tool
// is recorded in the log and never aborts the remaining steps.
type StepExecutor struct {
	logger logging.Logger
}

// NewStepExecutor creates a StepExecutor.
func NewStepExecutor(optFns ...func(o *StepExecutorOptions)) *StepExecutor {
	opts := StepExecutorOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &StepExecutor{
		logger: opts.Logger,
	}
}

// ExecutePlan runs every plan step in declared order and returns the
// newline-joined execution log, one line per step:
//
//	Tool not found: <tool>
//	✓ <action> -> <data>
//	✗ <action> -> ERROR: <error>
//	✗ <action> -> EXCEPTION: <panic or transport failure>
//
// Context cancellation stops the plan at the next step boundary and returns
// the partial log together with the context error.
func (e *StepExecutor) ExecutePlan(ctx context.Context, plan *ExecutionPlan, tools []tool.Tool) (string, error) {
	// Last registration wins on duplicate names.
	toolMap := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		toolMap[t.Name()] = t
	}

	lines := make([]string, 0, len(plan.Steps))

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return strings.Join(lines, "\n"), err
		}

		lines = append(lines, e.executeStep(ctx, step, toolMap))
	}

	return strings.Join(lines, "\n"), nil
}

// executeStep runs a single step and renders its log line. It never returns
// an error; every failure mode becomes a line in the execution log.
func (e *StepExecutor) executeStep(ctx context.Context, step ExecutionStep, toolMap map[string]tool.Tool) string {
	t, ok := toolMap[step.ToolName]
	if !ok {
		e.logger.Warn("plan step references unknown tool", "tool", step.ToolName, "action", step.Action)
		metrics.RecordPlanStep(metrics.StepStatusNotFound)

		return "Tool not found: " + step.ToolName
	}

	e.logger.Info("executing plan step", "tool", step.ToolName, "action", step.Action)

	start := time.Now()

	result, err := t.Execute(ctx, step.Parameters).Wait(ctx)
	if err != nil {
		e.logger.Error("plan step raised", "tool", step.ToolName, "action", step.Action, "error", err)
		metrics.RecordToolCall(step.ToolName, metrics.StatusError, time.Since(start))
		metrics.RecordPlanStep(metrics.StepStatusException)

		return fmt.Sprintf("✗ %s -> EXCEPTION: %v", step.Action, err)
	}

	if !result.Success {
		e.logger.Warn("plan step failed", "tool", step.ToolName, "action", step.Action, "error", result.Error)
		metrics.RecordToolCall(step.ToolName, metrics.StatusError, time.Since(start))
		metrics.RecordPlanStep(metrics.StepStatusError)

		return fmt.Sprintf("✗ %s -> ERROR: %s", step.Action, result.Error)
	}

	metrics.RecordToolCall(step.ToolName, metrics.StatusSuccess, time.Since(start))
	metrics.RecordPlanStep(metrics.StepStatusSuccess)

	return fmt.Sprintf("✓ %s -> %v", step.Action, result.Data)
}
