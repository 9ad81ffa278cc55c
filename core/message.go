package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the semantic category of a message. The runtime
// treats types as opaque except for replies; custom types are allowed.
type MessageType string

// Well-known message types.
const (
	MessageTypeRequest      MessageType = "request"
	MessageTypeResponse     MessageType = "response"
	MessageTypeNotification MessageType = "notification"
	MessageTypeCommand      MessageType = "command"
	MessageTypeEvent        MessageType = "event"
	MessageTypeError        MessageType = "error"
	MessageTypeHeartbeat    MessageType = "heartbeat"
	MessageTypeReply        MessageType = "reply"
)

// Priority orders messages by urgency. Higher values are more urgent.
type Priority int

// Priority levels.
const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 5
	PriorityHigh   Priority = 8
	PriorityUrgent Priority = 10
)

// String returns the human readable name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// MetadataKeyReplyTo links a reply message back to the message it answers.
const MetadataKeyReplyTo = "replyTo"

// Message is the immutable unit of communication between agents and their
// collaborators. Once constructed a message is never mutated; replies are new
// messages referencing the original via the replyTo metadata key.
//
// The JSON field names define the wire shape for any serialized transport.
type Message struct {
	ID         string         `json:"id"`
	SenderID   string         `json:"senderId"`
	ReceiverID string         `json:"receiverId,omitempty"`
	Type       MessageType    `json:"type"`
	Content    any            `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Priority   Priority       `json:"priority"`
}

// MessageOptions contains the optional attributes of a new message.
type MessageOptions struct {
	// ReceiverID addresses the message to a specific agent. Empty means
	// broadcast / unaddressed.
	ReceiverID string

	// Metadata carries free-form key/value annotations. The map is copied.
	Metadata map[string]any

	// Priority defaults to PriorityNormal.
	Priority Priority
}

// NewMessage creates an immutable message with a fresh ID and timestamp.
func NewMessage(senderID string, msgType MessageType, content any, optFns ...func(o *MessageOptions)) Message {
	opts := MessageOptions{Priority: PriorityNormal}

	for _, fn := range optFns {
		fn(&opts)
	}

	return Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: opts.ReceiverID,
		Type:       msgType,
		Content:    content,
		Metadata:   copyMetadata(opts.Metadata),
		Timestamp:  time.Now(),
		Priority:   opts.Priority,
	}
}

// Reply creates a response message addressed back to the sender of m. The
// reply carries type MessageTypeReply and references m via replyTo metadata.
// Sender of the reply is the receiver of the original message; if the
// original was unaddressed a fresh identity is generated.
func (m Message) Reply(content any, optFns ...func(o *MessageOptions)) Message {
	opts := MessageOptions{Priority: PriorityNormal}

	for _, fn := range optFns {
		fn(&opts)
	}

	senderID := m.ReceiverID
	if senderID == "" {
		senderID = uuid.NewString()
	}

	metadata := copyMetadata(opts.Metadata)
	if metadata == nil {
		metadata = make(map[string]any, 1)
	}

	metadata[MetadataKeyReplyTo] = m.ID

	return Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: m.SenderID,
		Type:       MessageTypeReply,
		Content:    content,
		Metadata:   metadata,
		Timestamp:  time.Now(),
		Priority:   opts.Priority,
	}
}

// ReplyTo returns the ID of the message this message answers, if any.
func (m Message) ReplyTo() (string, bool) {
	if m.Metadata == nil {
		return "", false
	}

	id, ok := m.Metadata[MetadataKeyReplyTo].(string)

	return id, ok
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}
