package testutil

import (
	"encoding/json"
	"time"

	"github.com/hupe1980/agentcore/engine"
)

// PlanBuilder helps construct execution plans with fluent chaining for tests.
// Example:
//
//	plan := NewPlanBuilder().Step("search", "find docs").Param("query", "go").Build()
//
// JSON renders the same plan in the wire format models emit, which makes it
// handy for scripting mock model responses.
type PlanBuilder struct {
	steps         []engine.ExecutionStep
	estimatedTime time.Duration
	confidence    float64
}

// NewPlanBuilder creates a builder with the parser's default estimate and
// confidence. Use chainable methods (Step, Param, Outcome, ...) then call
// Build or JSON.
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{
		estimatedTime: 5 * time.Second,
		confidence:    0.7,
	}
}

// Step appends a step invoking the named tool (chainable).
func (b *PlanBuilder) Step(toolName, action string) *PlanBuilder {
	b.steps = append(b.steps, engine.ExecutionStep{
		ToolName:   toolName,
		Action:     action,
		Parameters: map[string]any{},
	})

	return b
}

// Param sets a parameter on the most recently added step (chainable).
func (b *PlanBuilder) Param(key string, value any) *PlanBuilder {
	if len(b.steps) > 0 {
		b.steps[len(b.steps)-1].Parameters[key] = value
	}

	return b
}

// Outcome sets the expected outcome of the most recently added step (chainable).
func (b *PlanBuilder) Outcome(outcome string) *PlanBuilder {
	if len(b.steps) > 0 {
		b.steps[len(b.steps)-1].ExpectedOutcome = outcome
	}

	return b
}

// EstimatedTime sets the plan's overall time estimate (chainable).
func (b *PlanBuilder) EstimatedTime(d time.Duration) *PlanBuilder {
	b.estimatedTime = d

	return b
}

// Confidence sets the plan's confidence score (chainable).
func (b *PlanBuilder) Confidence(c float64) *PlanBuilder {
	b.confidence = c

	return b
}

// Build constructs the *engine.ExecutionPlan value.
func (b *PlanBuilder) Build() *engine.ExecutionPlan {
	steps := make([]engine.ExecutionStep, len(b.steps))
	copy(steps, b.steps)

	return &engine.ExecutionPlan{
		Steps:         steps,
		EstimatedTime: b.estimatedTime,
		Confidence:    b.confidence,
	}
}

// JSON renders the plan in the wire format plan parsing expects, with the
// time estimate in milliseconds.
func (b *PlanBuilder) JSON() string {
	steps := make([]map[string]any, 0, len(b.steps))

	for _, s := range b.steps {
		step := map[string]any{
			"toolName":        s.ToolName,
			"action":          s.Action,
			"expectedOutcome": s.ExpectedOutcome,
		}

		if len(s.Parameters) > 0 {
			step["parameters"] = s.Parameters
		}

		steps = append(steps, step)
	}

	payload := map[string]any{
		"steps":         steps,
		"estimatedTime": b.estimatedTime.Milliseconds(),
		"confidence":    b.confidence,
	}

	data, _ := json.Marshal(payload)

	return string(data)
}
