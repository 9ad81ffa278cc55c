package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcore/memory"
)

// memoryManager exposes an agent's working memory to plan steps through a
// single operation-dispatch tool.
type memoryManager struct {
	store memory.Store
}

// NewMemoryManagerTool creates a tool that lets plans read and write the
// given memory store.
//
// This tool provides operations for:
//   - Reading and writing key/value scratch space
//   - Inspecting recent message history and stored goals
//   - Reporting store statistics and clearing the store
//
// Register it on the agent that owns the store so planned steps can stash
// intermediate results and recall earlier context.
func NewMemoryManagerTool(store memory.Store) *FunctionTool {
	m := &memoryManager{store: store}

	return NewFunctionTool(
		"memory_manager",
		"Manages the agent's working memory. Supports operations: get, set, "+
			"delete, recent_messages, goals, stats, clear.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{
						"get", "set", "delete", "recent_messages", "goals", "stats", "clear",
					},
					"description": "The memory operation to perform",
				},
				"key": map[string]any{
					"type":        "string",
					"description": "Key for get/set/delete operations",
				},
				"value": map[string]any{
					"description": "Value for set operations (any type)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Limit for recent_messages (default: 10)",
					"default":     10,
				},
			},
			"required": []string{"operation"},
		},
		m.call,
	)
}

func (m *memoryManager) call(_ context.Context, params map[string]any) (any, error) {
	operation, ok := params["operation"].(string)
	if !ok {
		return nil, fmt.Errorf("operation parameter is required")
	}

	switch operation {
	case "get":
		return m.handleGet(params)
	case "set":
		return m.handleSet(params)
	case "delete":
		return m.handleDelete(params)
	case "recent_messages":
		return m.handleRecentMessages(params)
	case "goals":
		return m.handleGoals()
	case "stats":
		return m.handleStats()
	case "clear":
		return m.handleClear()
	default:
		return nil, fmt.Errorf("unknown operation: %s", operation)
	}
}

func (m *memoryManager) handleGet(params map[string]any) (any, error) {
	key, ok := params["key"].(string)
	if !ok {
		return nil, fmt.Errorf("key parameter is required for get operation")
	}

	value, exists := m.store.Get(key)

	return map[string]any{
		"key":    key,
		"exists": exists,
		"value":  value,
	}, nil
}

func (m *memoryManager) handleSet(params map[string]any) (any, error) {
	key, ok := params["key"].(string)
	if !ok {
		return nil, fmt.Errorf("key parameter is required for set operation")
	}

	value := params["value"] // Can be any type

	m.store.Put(key, value)

	return map[string]any{
		"key":     key,
		"value":   value,
		"success": true,
		"message": fmt.Sprintf("Memory key '%s' set successfully", key),
	}, nil
}

func (m *memoryManager) handleDelete(params map[string]any) (any, error) {
	key, ok := params["key"].(string)
	if !ok {
		return nil, fmt.Errorf("key parameter is required for delete operation")
	}

	deleted := m.store.Delete(key)

	return map[string]any{
		"key":     key,
		"deleted": deleted,
		"success": true,
	}, nil
}

func (m *memoryManager) handleRecentMessages(params map[string]any) (any, error) {
	limit := 10
	if l, ok := params["limit"].(float64); ok {
		limit = int(l)
	}

	history := m.store.RecentMessages(limit)

	// Convert messages to a more readable format with truncated previews.
	messages := make([]map[string]any, len(history))
	for i, msg := range history {
		preview := fmt.Sprintf("%v", msg.Content)
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}

		messages[i] = map[string]any{
			"id":        msg.ID,
			"sender":    msg.SenderID,
			"type":      string(msg.Type),
			"content":   preview,
			"timestamp": msg.Timestamp,
		}
	}

	return map[string]any{
		"limit":    limit,
		"count":    len(messages),
		"messages": messages,
		"success":  true,
	}, nil
}

func (m *memoryManager) handleGoals() (any, error) {
	goals := m.store.Goals()

	return map[string]any{
		"goals":   goals,
		"count":   len(goals),
		"success": true,
	}, nil
}

func (m *memoryManager) handleStats() (any, error) {
	stats := m.store.Stats()

	return map[string]any{
		"message_count":   stats.MessageCount,
		"goal_count":      stats.GoalCount,
		"key_value_count": stats.KeyValueCount,
		"estimated_bytes": stats.EstimatedBytes,
		"success":         true,
	}, nil
}

func (m *memoryManager) handleClear() (any, error) {
	m.store.Clear()

	return map[string]any{
		"success": true,
		"message": "Memory cleared successfully",
	}, nil
}
