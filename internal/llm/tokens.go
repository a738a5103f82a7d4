package llm

import (
	"encoding/json"
	"unicode/utf8"
)

// Rough tokenizer model: ASCII text runs about four characters per token,
// Cyrillic and other non-ASCII scripts about two.
const (
	asciiPerToken = 4
	otherPerToken = 2
)

// EstimateTokens returns a rough token count for s.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	runes := utf8.RuneCountInString(s)
	ascii := 0
	for i := 0; i < len(s); i++ {
		if s[i] < utf8.RuneSelf {
			ascii++
		}
	}
	// Weight in ASCII-equivalent characters, rounded up to whole tokens.
	weight := ascii + (runes-ascii)*(asciiPerToken/otherPerToken)
	return (weight + asciiPerToken - 1) / asciiPerToken
}

// EstimateMessageTokens counts content, tool calls and per-message framing.
func EstimateMessageTokens(m Message) int {
	tokens := 4
	tokens += EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name)
		if params, err := json.Marshal(tc.Params); err == nil {
			tokens += EstimateTokens(string(params))
		}
		tokens += 4
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}

// EstimateToolsTokens counts tool definitions, which are sent with every
// request.
func EstimateToolsTokens(tools []Tool) int {
	total := 0
	for _, t := range tools {
		total += EstimateTokens(t.Name) + EstimateTokens(t.Description)
		if schema, err := json.Marshal(t.Parameters); err == nil {
			total += EstimateTokens(string(schema))
		}
		total += 10
	}
	return total
}

// Budget is what is left for history after the system prompt, the tools and
// an output reserve. Never below zero.
func Budget(maxContext int, systemPrompt string, tools []Tool, reserve int) int {
	b := maxContext - EstimateTokens(systemPrompt) - EstimateToolsTokens(tools) - reserve
	if b < 0 {
		return 0
	}
	return b
}
