// Package openai adapts the OpenAI Chat Completions API to the generic
// model.Model interface, including native function calling via
// model.FunctionCaller.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentcore/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI model adapter. Sampling options ride on each
// call via model.Parameters; Options only pins the target model and the
// client credentials.
type Options struct {
	Model  string
	APIKey string
}

// Model talks to the OpenAI Chat Completions API and satisfies model.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client. The API key
// falls back to the OPENAI_API_KEY environment variable when unset.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient reuses a caller-managed client, e.g. one with custom
// retry or proxy settings.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Generate implements model.Model for a single free-form prompt.
func (m *Model) Generate(ctx context.Context, prompt string, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	return m.Converse(ctx, []model.ChatMessage{model.UserMessage(prompt)}, optFns...)
}

// Converse implements model.Model for a full conversation history.
func (m *Model) Converse(ctx context.Context, messages []model.ChatMessage, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	params := m.buildParams(model.ResolveParameters(optFns...), buildMessages(messages))

	return m.complete(ctx, params)
}

// GenerateWithFunctions implements model.FunctionCaller.
func (m *Model) GenerateWithFunctions(ctx context.Context, messages []model.ChatMessage, functions []model.Function, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	params := m.buildParams(model.ResolveParameters(optFns...), buildMessages(messages))
	params.Tools = buildTools(functions)

	return m.complete(ctx, params)
}

// Info reports the provider name and configured model id.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:              m.opts.Model,
		Provider:          "openai",
		SupportsFunctions: true,
	}
}

// complete issues the request and normalizes the first choice.
func (m *Model) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*model.Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]

	out := &model.Response{
		Content:      ch0.Message.Content,
		FinishReason: ch0.FinishReason,
		Usage: model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}

	if len(ch0.Message.ToolCalls) > 0 {
		tc := ch0.Message.ToolCalls[0]
		payload, err := json.Marshal(map[string]any{
			"name":      tc.Function.Name,
			"arguments": tc.Function.Arguments,
		})
		if err == nil {
			out.FunctionCall = string(payload)
		}
	}

	return out, nil
}

// buildMessages converts flat chat messages into OpenAI chat messages.
// Function outputs become tool messages keyed by the function name since the
// flat surface carries no call id.
func buildMessages(messages []model.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case model.RoleFunction:
			out = append(out, openai.ToolMessage(msg.Content, msg.Name))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}

	return out
}

// buildParams assembles the request parameters from resolved call options.
func (m *Model) buildParams(p model.Parameters, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(p.Temperature),
		MaxCompletionTokens: openai.Int(int64(p.MaxTokens)),
		TopP:                openai.Float(p.TopP),
	}

	if p.FrequencyPenalty != 0 {
		params.FrequencyPenalty = openai.Float(p.FrequencyPenalty)
	}

	if p.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(p.PresencePenalty)
	}

	if len(p.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: p.Stop}
	}

	return params
}

// buildTools converts function declarations into OpenAI tool definitions.
func buildTools(functions []model.Function) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, len(functions))

	for i, fn := range functions {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        fn.Name,
				Description: openai.String(fn.Description),
				Parameters:  fn.Parameters,
			},
		}
	}

	return tools
}
