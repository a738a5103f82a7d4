package llm

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "hi", 1},
		{"exactly four chars", "test", 1},
		{"five chars rounds up", "hello", 2},
		{"cyrillic counts runes not bytes", "привет", 3},
		{"mixed", "hi привет", 4},
		{"emoji", "💧", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			if got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want int
	}{
		{
			name: "simple user message",
			msg:  Message{Role: "user", Content: "hello"},
			want: 4 + 2,
		},
		{
			name: "empty message",
			msg:  Message{Role: "assistant"},
			want: 4,
		},
		{
			name: "message with tool call",
			msg: Message{
				Role:      "assistant",
				ToolCalls: []ToolCall{{ID: "call_1", Name: "get_quit_stats", Params: map[string]any{"days": 10}}},
			},
			// overhead + name + {"days":10} + call framing
			want: 4 + 4 + 3 + 4,
		},
		{
			name: "tool result message",
			msg:  Message{Role: "user", Content: `{"days":10,"money":"220.00"}`, ToolCallID: "call_1"},
			want: 4 + 7 + 2 + 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMessageTokens(tt.msg)
			if got != tt.want {
				t.Errorf("EstimateMessageTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateMessagesTokens(t *testing.T) {
	messages := []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	if got := EstimateMessagesTokens(messages); got != 12 {
		t.Errorf("EstimateMessagesTokens() = %d, want 12", got)
	}
}

func TestEstimateToolsTokens_AgentTools(t *testing.T) {
	got := EstimateToolsTokens(AgentTools)
	if got < 30 || got > 1000 {
		t.Errorf("EstimateToolsTokens(AgentTools) = %d, expected between 30 and 1000", got)
	}
}

func TestBudget(t *testing.T) {
	if got := Budget(100, "", nil, 10); got != 90 {
		t.Errorf("Budget() = %d, want 90", got)
	}
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	if got := Budget(50, string(long), nil, 0); got != 0 {
		t.Errorf("Budget() = %d, want 0 when the prompt alone is over", got)
	}
}
