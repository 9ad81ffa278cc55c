package model

import (
	"context"
	"fmt"
	"sync"
)

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are resolved in order: injected error, scripted queue, canned
// per-prompt answers, then a generic echo. Every call records its prompt and
// resolved parameters for later inspection.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	queue     []string
	err       error
	prompts   []string
	lastParam Parameters
}

// NewMockModel constructs a MockModel with function calling enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:              name,
			Provider:          provider,
			SupportsFunctions: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[prompt] = response
}

// EnqueueResponse appends scripted completions consumed in FIFO order before
// any canned responses are consulted.
func (m *MockModel) EnqueueResponse(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, responses...)
}

// FailWith makes every subsequent call return err. Pass nil to clear.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, prompt string, optFns ...func(p *Parameters)) (*Response, error) {
	return m.complete(ctx, prompt, optFns)
}

// Converse implements Model. The content of the last message acts as the
// prompt key for canned responses.
func (m *MockModel) Converse(ctx context.Context, messages []ChatMessage, optFns ...func(p *Parameters)) (*Response, error) {
	var prompt string
	if len(messages) > 0 {
		prompt = messages[len(messages)-1].Content
	}

	return m.complete(ctx, prompt, optFns)
}

// GenerateWithFunctions implements FunctionCaller. The mock answers with
// plain text; script a JSON payload via EnqueueResponse to simulate a
// function call round-trip.
func (m *MockModel) GenerateWithFunctions(ctx context.Context, messages []ChatMessage, _ []Function, optFns ...func(p *Parameters)) (*Response, error) {
	return m.Converse(ctx, messages, optFns...)
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

// Calls returns the number of completed calls.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.prompts)
}

// Prompts returns the prompts seen so far in call order.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.prompts))
	copy(out, m.prompts)

	return out
}

// LastParameters returns the resolved parameters of the most recent call.
func (m *MockModel) LastParameters() Parameters {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastParam
}

func (m *MockModel) complete(ctx context.Context, prompt string, optFns []func(p *Parameters)) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	m.lastParam = ResolveParameters(optFns...)

	if m.err != nil {
		return nil, m.err
	}

	var content string

	switch {
	case len(m.queue) > 0:
		content = m.queue[0]
		m.queue = m.queue[1:]
	case m.responses[prompt] != "":
		content = m.responses[prompt]
	default:
		content = fmt.Sprintf("Mock response to: %s", prompt)
	}

	return &Response{
		Content:      content,
		FinishReason: "stop",
		Usage: TokenUsage{
			PromptTokens:     len(prompt) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (len(prompt) + len(content)) / 4,
		},
	}, nil
}
