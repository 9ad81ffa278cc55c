package testutil

import (
	"github.com/hupe1980/agentcore/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder("user-1").Type(core.MessageTypeCommand).Content("restart").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id       string
	sender   string
	receiver string
	msgType  core.MessageType
	content  any
	priority core.Priority
	metadata map[string]any
}

// NewMessageBuilder creates a builder for a message from the given sender.
// The message type defaults to request.
func NewMessageBuilder(sender string) *MessageBuilder {
	return &MessageBuilder{
		sender:  sender,
		msgType: core.MessageTypeRequest,
	}
}

// ID overrides the auto-generated message ID (chainable). Use mainly in tests
// where determinism matters.
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// Receiver sets the receiving agent's identifier (chainable).
func (b *MessageBuilder) Receiver(id string) *MessageBuilder { b.receiver = id; return b }

// Type sets the message type (chainable).
func (b *MessageBuilder) Type(t core.MessageType) *MessageBuilder { b.msgType = t; return b }

// Content sets the message payload (chainable).
func (b *MessageBuilder) Content(c any) *MessageBuilder { b.content = c; return b }

// Priority sets the message priority (chainable).
func (b *MessageBuilder) Priority(p core.Priority) *MessageBuilder { b.priority = p; return b }

// Meta sets or overwrites a metadata key/value pair (chainable).
func (b *MessageBuilder) Meta(key string, value any) *MessageBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}

	b.metadata[key] = value

	return b
}

// Build constructs the core.Message value.
func (b *MessageBuilder) Build() core.Message {
	msg := core.NewMessage(b.sender, b.msgType, b.content, func(o *core.MessageOptions) {
		o.ReceiverID = b.receiver

		if b.priority != 0 {
			o.Priority = b.priority
		}

		if len(b.metadata) > 0 {
			o.Metadata = b.metadata
		}
	})

	if b.id != "" {
		msg.ID = b.id
	}

	return msg
}
