package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/tool"
)

// -------------------- StepExecutor Tests --------------------

func TestStepExecutor_RunsStepsInOrder(t *testing.T) {
	var order []string

	record := func(name string) tool.Tool {
		return tool.NewFunctionTool(name, name, map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
			order = append(order, name)
			return name + " done", nil
		})
	}

	plan := &ExecutionPlan{
		Steps: []ExecutionStep{
			{ToolName: "alpha", Action: "run alpha"},
			{ToolName: "beta", Action: "run beta"},
			{ToolName: "gamma", Action: "run gamma"},
		},
	}

	result, err := NewStepExecutor().ExecutePlan(context.Background(), plan, []tool.Tool{
		record("alpha"), record("beta"), record("gamma"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, order)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "✓ run alpha -> alpha done", lines[0])
	assert.Equal(t, "✓ run beta -> beta done", lines[1])
	assert.Equal(t, "✓ run gamma -> gamma done", lines[2])
}

func TestStepExecutor_FailedStepDoesNotAbortPlan(t *testing.T) {
	failing := tool.NewFunctionTool("broken", "always fails", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("disk full")
	})

	working := tool.NewFunctionTool("worker", "always works", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "all good", nil
	})

	plan := &ExecutionPlan{
		Steps: []ExecutionStep{
			{ToolName: "broken", Action: "write file"},
			{ToolName: "worker", Action: "do work"},
		},
	}

	result, err := NewStepExecutor().ExecutePlan(context.Background(), plan, []tool.Tool{failing, working})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✗ write file -> ERROR: disk full", lines[0])
	assert.Equal(t, "✓ do work -> all good", lines[1])
}

func TestStepExecutor_UnknownTool(t *testing.T) {
	plan := &ExecutionPlan{
		Steps: []ExecutionStep{
			{ToolName: "ghost", Action: "haunt"},
			{ToolName: "echo", Action: "repeat"},
		},
	}

	echo := tool.NewFunctionTool("echo", "echoes", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "echo", nil
	})

	result, err := NewStepExecutor().ExecutePlan(context.Background(), plan, []tool.Tool{echo})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Tool not found: ghost", lines[0])
	assert.Equal(t, "✓ repeat -> echo", lines[1])
}

func TestStepExecutor_PanickingToolBecomesException(t *testing.T) {
	panicky := tool.NewFunctionTool("panicky", "panics", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		panic("unexpected state")
	})

	steady := tool.NewFunctionTool("steady", "works", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})

	plan := &ExecutionPlan{
		Steps: []ExecutionStep{
			{ToolName: "panicky", Action: "explode"},
			{ToolName: "steady", Action: "continue"},
		},
	}

	result, err := NewStepExecutor().ExecutePlan(context.Background(), plan, []tool.Tool{panicky, steady})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "✗ explode -> EXCEPTION:"), "got %q", lines[0])
	assert.Contains(t, lines[0], "unexpected state")
	assert.Equal(t, "✓ continue -> ok", lines[1])
}

func TestStepExecutor_EmptyPlan(t *testing.T) {
	result, err := NewStepExecutor().ExecutePlan(context.Background(), &ExecutionPlan{}, nil)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestStepExecutor_CancelledContextStopsPlan(t *testing.T) {
	executed := 0

	counting := tool.NewFunctionTool("counter", "counts", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		executed++
		return executed, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := &ExecutionPlan{
		Steps: []ExecutionStep{
			{ToolName: "counter", Action: "count"},
			{ToolName: "counter", Action: "count"},
		},
	}

	_, err := NewStepExecutor().ExecutePlan(ctx, plan, []tool.Tool{counting})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, executed)
}

func TestStepExecutor_DuplicateToolNamesLastWins(t *testing.T) {
	first := tool.NewFunctionTool("dup", "first", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "from first", nil
	})

	second := tool.NewFunctionTool("dup", "second", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "from second", nil
	})

	plan := &ExecutionPlan{
		Steps: []ExecutionStep{{ToolName: "dup", Action: "run"}},
	}

	result, err := NewStepExecutor().ExecutePlan(context.Background(), plan, []tool.Tool{first, second})
	require.NoError(t, err)

	assert.Equal(t, "✓ run -> from second", result)
}
