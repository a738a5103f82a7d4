package llm

// TrimMessages drops the oldest history until the rest fits in maxTokens.
//
// Messages are dropped in turns: an assistant message that calls tools goes
// together with its tool results. The newest turn always survives, even if
// it alone is over budget. After trimming, history never starts with an
// assistant turn, since chat APIs expect the first message to be the user's.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	turns := splitTurns(messages)
	total := 0
	for _, t := range turns {
		total += t.tokens
	}
	if total <= maxTokens {
		return messages
	}

	first := 0
	for first < len(turns)-1 && total > maxTokens {
		total -= turns[first].tokens
		first++
	}
	for first < len(turns)-1 && !turns[first].fromUser {
		first++
	}

	var out []Message
	for _, t := range turns[first:] {
		out = append(out, t.messages...)
	}
	return out
}

type turn struct {
	messages []Message
	tokens   int
	fromUser bool
}

// splitTurns groups messages into units that are kept or dropped whole.
func splitTurns(messages []Message) []turn {
	var turns []turn
	for i := 0; i < len(messages); {
		m := messages[i]
		t := turn{
			messages: []Message{m},
			tokens:   EstimateMessageTokens(m),
			fromUser: m.Role == RoleUser && !m.IsToolResult(),
		}
		i++
		if m.Role == RoleAssistant && len(m.ToolCalls) > 0 {
			for i < len(messages) && messages[i].IsToolResult() {
				t.messages = append(t.messages, messages[i])
				t.tokens += EstimateMessageTokens(messages[i])
				i++
			}
		}
		turns = append(turns, t)
	}
	return turns
}
