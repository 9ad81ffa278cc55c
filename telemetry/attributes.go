package telemetry

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/hupe1980/agentcore/core"
)

// Span attribute keys used by the runtime.
const (
	// Agent attributes
	AttrAgentID    = "agentcore.agent.id"
	AttrAgentName  = "agentcore.agent.name"
	AttrAgentState = "agentcore.agent.state"

	// Message attributes
	AttrMessageID       = "agentcore.message.id"
	AttrMessageType     = "agentcore.message.type"
	AttrMessageSender   = "agentcore.message.sender"
	AttrMessagePriority = "agentcore.message.priority"
	AttrDispatchOutcome = "agentcore.dispatch.outcome"
	AttrBehaviorName    = "agentcore.behavior.name"

	// Goal attributes
	AttrGoal           = "agentcore.goal"
	AttrGoalTools      = "agentcore.goal.tool_count"
	AttrPlanSteps      = "agentcore.plan.step_count"
	AttrPlanConfidence = "agentcore.plan.confidence"
)

// maxGoalAttrLen caps the goal text recorded on spans.
const maxGoalAttrLen = 200

// AgentAttributes returns the identity attributes for agent spans.
func AgentAttributes(id, name string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAgentID, id),
		attribute.String(AttrAgentName, name),
	}
}

// MessageAttributes returns the attributes describing a dispatched message.
func MessageAttributes(msg core.Message) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrMessageID, msg.ID),
		attribute.String(AttrMessageType, string(msg.Type)),
		attribute.String(AttrMessagePriority, msg.Priority.String()),
	}

	if msg.SenderID != "" {
		attrs = append(attrs, attribute.String(AttrMessageSender, msg.SenderID))
	}

	return attrs
}

// GoalAttributes returns the attributes describing a goal execution. Long
// goal texts are truncated.
func GoalAttributes(goal string, toolCount int) []attribute.KeyValue {
	if len(goal) > maxGoalAttrLen {
		goal = goal[:maxGoalAttrLen] + "..."
	}

	return []attribute.KeyValue{
		attribute.String(AttrGoal, goal),
		attribute.Int(AttrGoalTools, toolCount),
	}
}
