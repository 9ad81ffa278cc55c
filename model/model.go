package model

import "context"

// Role identifies the author of a chat message.
type Role string

// Chat roles understood by every provider adapter.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

// ChatMessage is a single turn in a conversation. Name is only set for
// function messages, where it carries the function's name.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// SystemMessage returns a system-role chat message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role chat message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant-role chat message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// FunctionMessage returns a function-role chat message carrying the output of
// the named function.
func FunctionMessage(name, content string) ChatMessage {
	return ChatMessage{Role: RoleFunction, Content: content, Name: name}
}

// Parameters are the per-call sampling options recognized by adapters.
// Additional carries provider-specific extensions; adapters ignore keys they
// do not understand.
type Parameters struct {
	Temperature      float64        `json:"temperature"`
	MaxTokens        int            `json:"max_tokens"`
	TopP             float64        `json:"top_p"`
	FrequencyPenalty float64        `json:"frequency_penalty"`
	PresencePenalty  float64        `json:"presence_penalty"`
	Stop             []string       `json:"stop,omitempty"`
	Additional       map[string]any `json:"additional,omitempty"`
}

// DefaultParameters returns the baseline sampling options applied when a
// caller passes no overrides.
func DefaultParameters() Parameters {
	return Parameters{
		Temperature: 0.7,
		MaxTokens:   1000,
		TopP:        1.0,
	}
}

// ResolveParameters applies optFns on top of DefaultParameters. Adapters use
// it so every call sees a fully populated Parameters value.
func ResolveParameters(optFns ...func(p *Parameters)) Parameters {
	p := DefaultParameters()
	for _, fn := range optFns {
		fn(&p)
	}

	return p
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the normalized output of a model call.
type Response struct {
	Content      string         `json:"content"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        TokenUsage     `json:"usage"`
	FunctionCall string         `json:"function_call,omitempty"` // raw JSON payload when the model called a function
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// IsFunctionCall reports whether the model answered with a function call
// instead of (or in addition to) plain text.
func (r *Response) IsFunctionCall() bool {
	return r.FunctionCall != ""
}

// Function declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset
// expected).
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name              string `json:"name"`
	Provider          string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsFunctions bool   `json:"supports_functions"`
}

// Model is the language-model capability consumed by the decision engine.
// Implementations must be safe for concurrent use; calls block until the
// provider answers or ctx is done.
type Model interface {
	// Generate produces a completion for a single free-form prompt.
	Generate(ctx context.Context, prompt string, optFns ...func(p *Parameters)) (*Response, error)

	// Converse continues a conversation given its full message history.
	Converse(ctx context.Context, messages []ChatMessage, optFns ...func(p *Parameters)) (*Response, error)

	// Info returns metadata about the model implementation.
	Info() Info
}

// FunctionCaller is implemented by models that support native function
// calling. Callers should type-assert; models without support simply do not
// implement it.
type FunctionCaller interface {
	GenerateWithFunctions(ctx context.Context, messages []ChatMessage, functions []Function, optFns ...func(p *Parameters)) (*Response, error)
}
