package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/metrics"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/tool"
)

// Engine makes decisions on behalf of an agent: it answers messages no
// behavior claimed, turns goals into plans, executes those plans and ranks
// options. Implementations must absorb model failures into degraded results
// (apology replies, fallback plans, first option) instead of propagating
// them; only structurally invalid requests may fail.
type Engine interface {
	// ProcessMessage generates a reply to a message.
	ProcessMessage(ctx context.Context, msg core.Message) (core.Message, error)

	// CreatePlan turns a goal into an execution plan over the given tools.
	CreatePlan(ctx context.Context, goal string, tools []tool.Tool) (*ExecutionPlan, error)

	// ExecuteGoal plans and executes a goal, returning the execution log.
	ExecuteGoal(ctx context.Context, goal string, tools []tool.Tool) (string, error)

	// ChooseBest picks one option according to the criteria.
	ChooseBest(ctx context.Context, options []string, criteria string) (string, error)
}

// apologyReply is returned when message processing fails.
const apologyReply = "I'm sorry, I encountered an error processing your message."

// Sampling parameters for planning. Low temperature keeps plans
// deterministic.
const (
	planTemperature = 0.3
	planMaxTokens   = 1000
)

const defaultSystemPrompt = `You are an AI decision engine for an intelligent agent system. Your role is to:

1. Process messages and generate appropriate responses
2. Create execution plans to achieve goals using available tools
3. Make decisions based on given criteria
4. Think step-by-step and be practical in your approach

When creating execution plans:
- Break down complex goals into simple, actionable steps
- Use available tools effectively
- Provide realistic time estimates
- Be specific about expected outcomes

Always respond in a helpful, clear, and actionable manner.`

const defaultProcessMessageTemplate = `Process this message and generate an appropriate response:
Message Type: {{.Type}}
Content: {{.Content}}
Sender: {{.Sender}}

Generate a helpful and contextual response.`

const defaultCreatePlanTemplate = `Create an execution plan to achieve this goal: {{.Goal}}

Available tools:
{{.Tools}}

Return a JSON plan with this structure:
{
  "steps": [
    {
      "toolName": "tool_name",
      "action": "description of action",
      "parameters": {"param1": "value1"},
      "expectedOutcome": "what should happen"
    }
  ],
  "estimatedTime": 5000,
  "confidence": 0.85
}`

const defaultChooseBestTemplate = `Choose the best option based on the criteria: {{.Criteria}}

Options:
{{.Options}}

Return only the index (0-based) of the best option as a number.`

// PromptTemplates holds the Go text templates rendered into model prompts.
// Empty fields fall back to the built-in templates. Custom templates should
// keep the placeholders of the template they replace:
//
//	ProcessMessage: {{.Type}} {{.Content}} {{.Sender}}
//	CreatePlan:     {{.Goal}} {{.Tools}}
//	ChooseBest:     {{.Criteria}} {{.Options}}
type PromptTemplates struct {
	ProcessMessage string
	CreatePlan     string
	ChooseBest     string
}

// DefaultPromptTemplates returns the built-in prompt templates.
func DefaultPromptTemplates() PromptTemplates {
	return PromptTemplates{
		ProcessMessage: defaultProcessMessageTemplate,
		CreatePlan:     defaultCreatePlanTemplate,
		ChooseBest:     defaultChooseBestTemplate,
	}
}

// AIEngineOptions configures an AIEngine.
type AIEngineOptions struct {
	// SystemPrompt primes the model during planning.
	SystemPrompt string

	// Templates override the built-in prompt templates.
	Templates PromptTemplates

	// Logger receives engine progress and failure logs.
	Logger logging.Logger
}

// AIEngine is the model-backed Engine implementation. It degrades gracefully:
// a failed model call yields an apology reply, a fallback plan or the first
// option depending on the operation, never an error.
type AIEngine struct {
	model        model.Model
	systemPrompt string
	templates    PromptTemplates
	logger       logging.Logger
	executor     *StepExecutor
}

var _ Engine = (*AIEngine)(nil)

// NewAIEngine creates an Engine backed by the given model.
func NewAIEngine(m model.Model, optFns ...func(o *AIEngineOptions)) *AIEngine {
	opts := AIEngineOptions{
		SystemPrompt: defaultSystemPrompt,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	defaults := DefaultPromptTemplates()

	if opts.Templates.ProcessMessage == "" {
		opts.Templates.ProcessMessage = defaults.ProcessMessage
	}

	if opts.Templates.CreatePlan == "" {
		opts.Templates.CreatePlan = defaults.CreatePlan
	}

	if opts.Templates.ChooseBest == "" {
		opts.Templates.ChooseBest = defaults.ChooseBest
	}

	return &AIEngine{
		model:        m,
		systemPrompt: opts.SystemPrompt,
		templates:    opts.Templates,
		logger:       opts.Logger,
		executor: NewStepExecutor(func(o *StepExecutorOptions) {
			o.Logger = opts.Logger
		}),
	}
}

// ProcessMessage prompts the model with the message and wraps its answer as a
// reply. Every failure mode resolves to an apology reply so message handling
// never breaks the dispatch path.
func (e *AIEngine) ProcessMessage(ctx context.Context, msg core.Message) (core.Message, error) {
	prompt, err := util.RenderTemplate(e.templates.ProcessMessage, map[string]any{
		"Type":    string(msg.Type),
		"Content": msg.Content,
		"Sender":  msg.SenderID,
	})
	if err != nil {
		e.logger.Error("failed to render message prompt", "message_id", msg.ID, "error", err)

		return msg.Reply(apologyReply), nil
	}

	start := time.Now()

	resp, err := e.model.Generate(ctx, prompt)
	e.recordModelCall(start, resp, err)

	if err != nil {
		e.logger.Error("model call failed while processing message", "message_id", msg.ID, "error", err)

		return msg.Reply(apologyReply), nil
	}

	return msg.Reply(resp.Content), nil
}

// CreatePlan asks the model for a JSON plan over the given tools. The
// planning conversation carries the system prompt and runs at low
// temperature. A failed call or unparseable response yields the fallback
// plan, never an error.
func (e *AIEngine) CreatePlan(ctx context.Context, goal string, tools []tool.Tool) (*ExecutionPlan, error) {
	descriptions := make([]string, 0, len(tools))
	for _, t := range tools {
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}

	prompt, err := util.RenderTemplate(e.templates.CreatePlan, map[string]any{
		"Goal":  goal,
		"Tools": strings.Join(descriptions, "\n"),
	})
	if err != nil {
		e.logger.Error("failed to render plan prompt", "goal", goal, "error", err)
		metrics.RecordPlanFallback("template")

		return FallbackPlan(goal, tools), nil
	}

	messages := []model.ChatMessage{
		model.SystemMessage(e.systemPrompt),
		model.UserMessage(prompt),
	}

	start := time.Now()

	resp, err := e.model.Converse(ctx, messages, func(p *model.Parameters) {
		p.Temperature = planTemperature
		p.MaxTokens = planMaxTokens
	})
	e.recordModelCall(start, resp, err)

	if err != nil {
		e.logger.Error("model call failed while planning", "goal", goal, "error", err)
		metrics.RecordPlanFallback("model_call")

		return FallbackPlan(goal, tools), nil
	}

	plan, err := ParsePlan(resp.Content)
	if err != nil {
		e.logger.Warn("unparseable plan response, using fallback", "goal", goal, "error", err)
		metrics.RecordPlanFallback("parse")

		return FallbackPlan(goal, tools), nil
	}

	e.logger.Debug("plan created", "goal", goal, "steps", len(plan.Steps), "confidence", plan.Confidence)

	return plan, nil
}

// ExecuteGoal plans the goal and runs the plan, returning the newline-joined
// step log. Step failures are recorded in the log and never abort the
// remaining steps; only context cancellation stops execution early.
func (e *AIEngine) ExecuteGoal(ctx context.Context, goal string, tools []tool.Tool) (string, error) {
	e.logger.Info("executing goal", "goal", goal, "tools", len(tools))

	plan, err := e.CreatePlan(ctx, goal, tools)
	if err != nil {
		return "", err
	}

	result, err := e.executor.ExecutePlan(ctx, plan, tools)
	if err != nil {
		return result, err
	}

	e.logger.Info("goal execution completed", "goal", goal, "steps", len(plan.Steps))

	return result, nil
}

// ChooseBest asks the model for the zero-based index of the best option.
// Zero options fail with CodeInvalidArgument; a single option is returned
// without consulting the model; a non-numeric or out-of-range answer resolves
// silently to the first option.
func (e *AIEngine) ChooseBest(ctx context.Context, options []string, criteria string) (string, error) {
	if len(options) == 0 {
		return "", core.NewError(core.CodeInvalidArgument, "no options provided")
	}

	if len(options) == 1 {
		return options[0], nil
	}

	rendered := make([]string, 0, len(options))
	for _, opt := range options {
		rendered = append(rendered, "- "+opt)
	}

	prompt, err := util.RenderTemplate(e.templates.ChooseBest, map[string]any{
		"Criteria": criteria,
		"Options":  strings.Join(rendered, "\n"),
	})
	if err != nil {
		e.logger.Error("failed to render choice prompt", "error", err)

		return options[0], nil
	}

	start := time.Now()

	resp, err := e.model.Generate(ctx, prompt)
	e.recordModelCall(start, resp, err)

	if err != nil {
		e.logger.Error("model call failed while choosing option", "error", err)

		return options[0], nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(resp.Content))
	if err != nil || index < 0 || index >= len(options) {
		e.logger.Warn("model returned unusable choice, using first option", "choice", resp.Content)

		return options[0], nil
	}

	return options[index], nil
}

// recordModelCall feeds one model invocation into the metrics collectors.
func (e *AIEngine) recordModelCall(start time.Time, resp *model.Response, err error) {
	status := metrics.StatusSuccess

	var promptTokens, completionTokens int

	if err != nil {
		status = metrics.StatusError
	} else {
		promptTokens = resp.Usage.PromptTokens
		completionTokens = resp.Usage.CompletionTokens
	}

	metrics.RecordModelCall(e.model.Info().Name, status, time.Since(start), promptTokens, completionTokens)
}
