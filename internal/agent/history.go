package agent

import (
	"sync"

	"github.com/chris/nudge/internal/llm"
)

// History keeps each chat's recent messages in memory. Nothing survives a
// restart.
type History struct {
	mu        sync.Mutex
	chats     map[int64][]llm.Message
	maxTokens int
}

func NewHistory(maxTokens int) *History {
	return &History{chats: make(map[int64][]llm.Message), maxTokens: maxTokens}
}

// Get returns a copy of the chat's history.
func (h *History) Get(chatID int64) []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := h.chats[chatID]
	out := make([]llm.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Set replaces the chat's history, trimmed to the token limit.
func (h *History) Set(chatID int64, msgs []llm.Message) {
	trimmed := llm.TrimMessages(msgs, h.maxTokens)
	h.mu.Lock()
	h.chats[chatID] = trimmed
	h.mu.Unlock()
}

func (h *History) Reset(chatID int64) {
	h.mu.Lock()
	delete(h.chats, chatID)
	h.mu.Unlock()
}
