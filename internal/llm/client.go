package llm

import "context"

// Roles in Message. Tool results travel as RoleUser with ToolCallID set.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// IsToolResult reports whether m carries a tool's output back to the model.
func (m Message) IsToolResult() bool {
	return m.Role == RoleUser && m.ToolCallID != ""
}

type ToolCall struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Client is one chat completion backend.
type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error)

func (f ClientFunc) Chat(ctx context.Context, systemPrompt string, messages []Message, tools []Tool) (*Response, error) {
	return f(ctx, systemPrompt, messages, tools)
}
