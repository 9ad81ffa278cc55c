package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/tool"
)

// -------------------- ProcessMessage Tests --------------------

func TestAIEngine_ProcessMessage_WrapsModelAnswer(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("42")

	eng := NewAIEngine(mock)

	msg := core.NewMessage("user-1", core.MessageTypeRequest, "meaning of life?")

	reply, err := eng.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "42", reply.Content)
	assert.Equal(t, core.MessageTypeReply, reply.Type)
	assert.Equal(t, "user-1", reply.ReceiverID)

	replyTo, ok := reply.ReplyTo()
	require.True(t, ok)
	assert.Equal(t, msg.ID, replyTo)
}

func TestAIEngine_ProcessMessage_PromptEmbedsMessage(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")

	eng := NewAIEngine(mock)

	msg := core.NewMessage("user-1", core.MessageTypeRequest, "what is the plan?")

	_, err := eng.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)

	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Message Type: request")
	assert.Contains(t, prompts[0], "Content: what is the plan?")
	assert.Contains(t, prompts[0], "Sender: user-1")
}

func TestAIEngine_ProcessMessage_ApologyOnModelFailure(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.FailWith(errors.New("provider unavailable"))

	eng := NewAIEngine(mock)

	msg := core.NewMessage("user-1", core.MessageTypeRequest, "hello")

	reply, err := eng.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "I'm sorry, I encountered an error processing your message.", reply.Content)
	assert.Equal(t, core.MessageTypeReply, reply.Type)
}

// -------------------- CreatePlan Tests --------------------

func TestAIEngine_CreatePlan_ParsesModelPlan(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse(`Here you go:
{"steps": [{"toolName": "calc", "action": "add numbers", "parameters": {"a": 1, "b": 2}, "expectedOutcome": "the sum"}], "estimatedTime": 2000, "confidence": 0.9}`)

	eng := NewAIEngine(mock)

	calc := tool.NewFunctionTool("calc", "adds two numbers", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return 3, nil
	})

	plan, err := eng.CreatePlan(context.Background(), "add 1 and 2", []tool.Tool{calc})
	require.NoError(t, err)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "calc", plan.Steps[0].ToolName)
	assert.Equal(t, "add numbers", plan.Steps[0].Action)
	assert.Equal(t, 2*time.Second, plan.EstimatedTime)
	assert.InDelta(t, 0.9, plan.Confidence, 1e-9)

	// Planning runs at pinned sampling settings.
	params := mock.LastParameters()
	assert.InDelta(t, 0.3, params.Temperature, 1e-9)
	assert.Equal(t, 1000, params.MaxTokens)

	// The prompt lists every tool as "- name: description".
	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Create an execution plan to achieve this goal: add 1 and 2")
	assert.Contains(t, prompts[0], "- calc: adds two numbers")
}

func TestAIEngine_CreatePlan_FallbackOnNonJSONResponse(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("I am unable to produce a plan.")

	eng := NewAIEngine(mock)

	first := tool.NewFunctionTool("first", "first tool", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})
	second := tool.NewFunctionTool("second", "second tool", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})

	plan, err := eng.CreatePlan(context.Background(), "do the thing", []tool.Tool{first, second})
	require.NoError(t, err)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "first", plan.Steps[0].ToolName)
	assert.Equal(t, "Execute goal: do the thing", plan.Steps[0].Action)
	assert.Equal(t, "Complete the requested task", plan.Steps[0].ExpectedOutcome)
	assert.Equal(t, 5*time.Second, plan.EstimatedTime)
	assert.InDelta(t, 0.5, plan.Confidence, 1e-9)
}

func TestAIEngine_CreatePlan_FallbackOnModelFailure(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.FailWith(errors.New("provider unavailable"))

	eng := NewAIEngine(mock)

	first := tool.NewFunctionTool("first", "first tool", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})

	plan, err := eng.CreatePlan(context.Background(), "recover", []tool.Tool{first})
	require.NoError(t, err)

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, "first", plan.Steps[0].ToolName)
	assert.InDelta(t, 0.5, plan.Confidence, 1e-9)
}

func TestAIEngine_CreatePlan_FallbackWithoutToolsIsEmpty(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("gibberish")

	eng := NewAIEngine(mock)

	plan, err := eng.CreatePlan(context.Background(), "impossible", nil)
	require.NoError(t, err)

	assert.Empty(t, plan.Steps)
	assert.InDelta(t, 0.5, plan.Confidence, 1e-9)
}

// -------------------- ExecuteGoal Tests --------------------

func TestAIEngine_ExecuteGoal_RunsAllStepsInOrder(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse(`{"steps": [
		{"toolName": "breaker", "action": "break things", "expectedOutcome": "boom"},
		{"toolName": "fixer", "action": "fix things", "expectedOutcome": "fixed"}
	], "estimatedTime": 1000, "confidence": 0.8}`)

	eng := NewAIEngine(mock)

	breaker := tool.NewFunctionTool("breaker", "breaks", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("cannot break")
	})
	fixer := tool.NewFunctionTool("fixer", "fixes", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "fixed it", nil
	})

	result, err := eng.ExecuteGoal(context.Background(), "break and fix", []tool.Tool{breaker, fixer})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✗ break things -> ERROR: cannot break", lines[0])
	assert.Equal(t, "✓ fix things -> fixed it", lines[1])
}

func TestAIEngine_ExecuteGoal_FallbackPlanStillExecutes(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("no plan from me")

	eng := NewAIEngine(mock)

	echo := tool.NewFunctionTool("echo", "echoes", map[string]any{}, func(_ context.Context, _ map[string]any) (any, error) {
		return "echoed", nil
	})

	result, err := eng.ExecuteGoal(context.Background(), "just echo", []tool.Tool{echo})
	require.NoError(t, err)

	assert.Equal(t, "✓ Execute goal: just echo -> echoed", result)
}

// -------------------- ChooseBest Tests --------------------

func TestAIEngine_ChooseBest_NoOptions(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")

	eng := NewAIEngine(mock)

	_, err := eng.ChooseBest(context.Background(), nil, "fastest")

	require.Error(t, err)
	assert.True(t, core.IsCode(err, core.CodeInvalidArgument))
	assert.Zero(t, mock.Calls())
}

func TestAIEngine_ChooseBest_SingleOptionSkipsModel(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")

	eng := NewAIEngine(mock)

	choice, err := eng.ChooseBest(context.Background(), []string{"only"}, "fastest")
	require.NoError(t, err)

	assert.Equal(t, "only", choice)
	assert.Zero(t, mock.Calls())
}

func TestAIEngine_ChooseBest_PicksIndexedOption(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse(" 1 ")

	eng := NewAIEngine(mock)

	choice, err := eng.ChooseBest(context.Background(), []string{"red", "green", "blue"}, "most calming")
	require.NoError(t, err)

	assert.Equal(t, "green", choice)

	prompts := mock.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "criteria: most calming")
	assert.Contains(t, prompts[0], "- red\n- green\n- blue")
}

func TestAIEngine_ChooseBest_NonNumericFallsBackToFirst(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("the second one, definitely")

	eng := NewAIEngine(mock)

	choice, err := eng.ChooseBest(context.Background(), []string{"a", "b"}, "whatever")
	require.NoError(t, err)

	assert.Equal(t, "a", choice)
}

func TestAIEngine_ChooseBest_OutOfRangeFallsBackToFirst(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.EnqueueResponse("7")

	eng := NewAIEngine(mock)

	choice, err := eng.ChooseBest(context.Background(), []string{"a", "b"}, "whatever")
	require.NoError(t, err)

	assert.Equal(t, "a", choice)
}

func TestAIEngine_ChooseBest_ModelFailureFallsBackToFirst(t *testing.T) {
	mock := model.NewMockModel("mock-model", "mock")
	mock.FailWith(errors.New("provider unavailable"))

	eng := NewAIEngine(mock)

	choice, err := eng.ChooseBest(context.Background(), []string{"a", "b"}, "whatever")
	require.NoError(t, err)

	assert.Equal(t, "a", choice)
}
