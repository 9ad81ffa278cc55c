package engine

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/tool"
)

// Plan defaults applied when the model response omits the fields.
const (
	defaultEstimatedTime = 5 * time.Second
	defaultConfidence    = 0.7

	// fallbackConfidence marks plans that were not produced by the model.
	fallbackConfidence = 0.5
)

// ExecutionStep is a single tool invocation within a plan.
type ExecutionStep struct {
	// ToolName names the registered tool to invoke.
	ToolName string `json:"toolName"`

	// Action describes what the step does. It labels the step's line in the
	// execution log.
	Action string `json:"action"`

	// Parameters are passed to the tool verbatim.
	Parameters map[string]any `json:"parameters,omitempty"`

	// ExpectedOutcome describes what the step should achieve.
	ExpectedOutcome string `json:"expectedOutcome"`
}

// ExecutionPlan is an ordered sequence of tool invocations produced by the
// planner. Steps always execute in declared order, never reordered or
// parallelized.
type ExecutionPlan struct {
	Steps         []ExecutionStep
	EstimatedTime time.Duration
	Confidence    float64
}

// planJSON is the wire shape the planner asks the model to produce.
// EstimatedTime is carried in milliseconds; pointers distinguish absent
// fields from zero values.
type planJSON struct {
	Steps         []json.RawMessage `json:"steps"`
	EstimatedTime *float64          `json:"estimatedTime"`
	Confidence    *float64          `json:"confidence"`
}

// ParsePlan extracts an execution plan from raw model output. The output may
// wrap the JSON object in prose; everything outside the outermost braces is
// discarded. Steps that fail to decode or name no tool are skipped; missing
// estimatedTime and confidence fall back to defaults. A CodePlanParse error
// is returned only when no JSON object can be decoded at all.
func ParsePlan(content string) (*ExecutionPlan, error) {
	raw := extractJSON(content)

	var wire planJSON
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, core.WrapError(core.CodePlanParse, "decode plan", err)
	}

	steps := make([]ExecutionStep, 0, len(wire.Steps))

	for _, rawStep := range wire.Steps {
		var step ExecutionStep
		if err := json.Unmarshal(rawStep, &step); err != nil {
			continue
		}

		if step.ToolName == "" {
			continue
		}

		steps = append(steps, step)
	}

	estimatedTime := defaultEstimatedTime
	if wire.EstimatedTime != nil {
		estimatedTime = time.Duration(*wire.EstimatedTime * float64(time.Millisecond))
	}

	confidence := defaultConfidence
	if wire.Confidence != nil {
		confidence = *wire.Confidence
	}

	return &ExecutionPlan{
		Steps:         steps,
		EstimatedTime: estimatedTime,
		Confidence:    confidence,
	}, nil
}

// extractJSON returns the substring between the first '{' and the last '}',
// or the content unchanged when no such pair exists.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start >= 0 && end > start {
		return content[start : end+1]
	}

	return content
}

// FallbackPlan builds the plan used when model planning fails: a single step
// handing the whole goal to the first available tool, or an empty plan when
// no tools are registered.
func FallbackPlan(goal string, tools []tool.Tool) *ExecutionPlan {
	steps := []ExecutionStep{}

	if len(tools) > 0 {
		steps = append(steps, ExecutionStep{
			ToolName:        tools[0].Name(),
			Action:          "Execute goal: " + goal,
			Parameters:      map[string]any{},
			ExpectedOutcome: "Complete the requested task",
		})
	}

	return &ExecutionPlan{
		Steps:         steps,
		EstimatedTime: defaultEstimatedTime,
		Confidence:    fallbackConfidence,
	}
}
