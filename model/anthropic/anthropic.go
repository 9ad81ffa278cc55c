// Package anthropic adapts the Anthropic Messages API to the generic
// model.Model interface, including native function calling via
// model.FunctionCaller. Frequency/presence penalties have no Anthropic
// equivalent and are ignored.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/agentcore/model"
)

// Options configure the Anthropic model adapter. Sampling options ride on
// each call via model.Parameters; Options only pins the target model and the
// client credentials.
type Options struct {
	Model  anthropic.Model
	APIKey string
}

// Model talks to the Anthropic Messages API and satisfies model.Model.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client. The API
// key falls back to the ANTHROPIC_API_KEY environment variable when unset.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient reuses a caller-managed client, e.g. one with custom
// retry or proxy settings.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

// Generate implements model.Model for a single free-form prompt.
func (m *Model) Generate(ctx context.Context, prompt string, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	return m.Converse(ctx, []model.ChatMessage{model.UserMessage(prompt)}, optFns...)
}

// Converse implements model.Model for a full conversation history.
func (m *Model) Converse(ctx context.Context, messages []model.ChatMessage, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	params := m.buildParams(model.ResolveParameters(optFns...), messages)

	return m.complete(ctx, params)
}

// GenerateWithFunctions implements model.FunctionCaller.
func (m *Model) GenerateWithFunctions(ctx context.Context, messages []model.ChatMessage, functions []model.Function, optFns ...func(p *model.Parameters)) (*model.Response, error) {
	params := m.buildParams(model.ResolveParameters(optFns...), messages)
	params.Tools = buildTools(functions)

	return m.complete(ctx, params)
}

// Info reports the provider name and configured model id.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:              string(m.opts.Model),
		Provider:          "anthropic",
		SupportsFunctions: true,
	}
}

// complete issues the request and normalizes the content blocks.
func (m *Model) complete(ctx context.Context, params anthropic.MessageNewParams) (*model.Response, error) {
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var content string

	var functionCall string

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content += block.AsText().Text
		case "tool_use":
			if functionCall != "" {
				continue
			}

			toolBlock := block.AsToolUse()

			args := ""
			if toolBlock.Input != nil {
				if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(argsBytes)
				}
			}

			payload, err := json.Marshal(map[string]any{
				"name":      toolBlock.Name,
				"arguments": args,
			})
			if err == nil {
				functionCall = string(payload)
			}
		}
	}

	finishReason := "stop"
	if resp.StopReason != "" {
		finishReason = string(resp.StopReason)
	}

	return &model.Response{
		Content:      content,
		FinishReason: finishReason,
		FunctionCall: functionCall,
		Usage: model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// buildParams assembles the request parameters from resolved call options.
// System messages are lifted into the dedicated system field.
func (m *Model) buildParams(p model.Parameters, messages []model.ChatMessage) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   int64(p.MaxTokens),
		Temperature: anthropic.Float(p.Temperature),
		TopP:        anthropic.Float(p.TopP),
	}

	if len(p.Stop) > 0 {
		params.StopSequences = p.Stop
	}

	if systemBlocks := extractSystemMessage(messages); len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	return params
}

// buildMessages converts flat chat messages to the Anthropic message format.
// Function outputs are folded into user turns since the flat surface carries
// no tool-use id to pair a tool_result block with.
func buildMessages(messages []model.ChatMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg.Content == "" || msg.Role == model.RoleSystem {
			continue
		}

		switch msg.Role {
		case model.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		case model.RoleFunction:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("[%s] %s", msg.Name, msg.Content))))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return out
}

// extractSystemMessage collects system message blocks
func extractSystemMessage(messages []model.ChatMessage) []anthropic.TextBlockParam {
	var systemBlocks []anthropic.TextBlockParam

	for _, msg := range messages {
		if msg.Role == model.RoleSystem && msg.Content != "" {
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
				Text: msg.Content,
			})
		}
	}

	return systemBlocks
}

// buildTools converts function declarations to the Anthropic tool format
func buildTools(functions []model.Function) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(functions))

	for i, fn := range functions {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		if fn.Parameters != nil {
			if properties, exists := fn.Parameters["properties"]; exists {
				inputSchema.Properties = properties
			}

			if required, exists := fn.Parameters["required"]; exists {
				switch req := required.(type) {
				case []string:
					inputSchema.Required = req
				case []any:
					var reqStrings []string
					for _, r := range req {
						if s, ok := r.(string); ok {
							reqStrings = append(reqStrings, s)
						}
					}

					inputSchema.Required = reqStrings
				}
			}
		}

		anthropicTools[i] = anthropic.ToolUnionParamOfTool(inputSchema, fn.Name)
	}

	return anthropicTools
}
