package core

import "github.com/google/uuid"

// Role identifies the conversational origin of a message.
type Role string

const (
	// RoleSystem marks instructions framing the whole conversation.
	RoleSystem Role = "system"
	// RoleUser marks caller supplied content.
	RoleUser Role = "user"
	// RoleAssistant marks model produced content.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool invocations and observations fed back to the model.
	RoleTool Role = "tool"
)

// Message is a single role-tagged text unit exchanged with a model.
// Messages are value types; after construction they should be treated as
// immutable.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant role message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// ToolMessage builds a tool role message.
func ToolMessage(content string) Message { return Message{Role: RoleTool, Content: content} }

// MessageRecords converts messages into plain field->value mappings for
// export paths that require JSON-like structures.
func MessageRecords(msgs []Message) []map[string]any {
	out := make([]map[string]any, len(msgs))
	for i, m := range msgs {
		out[i] = map[string]any{"role": string(m.Role), "content": m.Content}
	}
	return out
}

// NewID generates a new unique identifier for runs, tool calls and sessions.
func NewID() string { return uuid.NewString() }
