// Package agent runs the chat loop: the LLM may call a few read-only tools
// before answering.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/counter"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/scheduler"
)

const (
	maxToolRounds = 10
	outputReserve = 500
	minBudget     = 1000
)

// StatsSource reports quit-smoking statistics. Implemented by counter.Tracker.
type StatsSource interface {
	Calculate(ctx context.Context) counter.Stats
}

// JobLister lists scheduled reminders. Implemented by scheduler.Scheduler.
type JobLister interface {
	Jobs() []scheduler.JobInfo
}

type Agent struct {
	client           llm.Client
	stats            StatsSource
	jobs             JobLister
	clock            clock.Clock
	log              *zap.Logger
	MaxContextTokens int
	DefaultTimezone  string
}

func New(client llm.Client, stats StatsSource, jobs JobLister, clk clock.Clock, log *zap.Logger, maxContextTokens int) *Agent {
	return &Agent{
		client:           client,
		stats:            stats,
		jobs:             jobs,
		clock:            clk,
		log:              log,
		MaxContextTokens: maxContextTokens,
		DefaultTimezone:  "America/Vancouver",
	}
}

// Run answers userMessage given history, calling tools as the model asks.
// It returns the reply and the history extended with this turn.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history), len(history)+1)
	copy(messages, history)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	budget := llm.Budget(a.MaxContextTokens, llm.SystemPrompt, llm.AgentTools, outputReserve)
	if budget < minBudget {
		budget = minBudget
	}

	for i := 0; i < maxToolRounds; i++ {
		trimmed := llm.TrimMessages(messages, budget)
		if len(trimmed) < len(messages) {
			a.log.Debug("context trimmed", zap.Int("from", len(messages)), zap.Int("to", len(trimmed)))
		}
		resp, err := a.client.Chat(ctx, llm.SystemPrompt, trimmed, llm.AgentTools)
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			return resp.Content, messages, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			result := a.executeTool(ctx, tc.Name, tc.Params)
			a.log.Debug("tool call", zap.String("tool", tc.Name), zap.String("result", truncate(result, 200)))
			messages = append(messages, llm.Message{
				Role:       llm.RoleUser,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	return "Слишком много шагов, вот что успел выяснить.", messages, nil
}

func (a *Agent) executeTool(ctx context.Context, name string, params map[string]any) string {
	var result any
	var err error

	switch name {
	case "get_time":
		tz, _ := getString(params, "timezone")
		if tz == "" {
			tz = a.DefaultTimezone
		}
		result, err = a.timeIn(tz)

	case "get_quit_stats":
		st := a.stats.Calculate(ctx)
		result = map[string]any{
			"days":        st.Days,
			"cigarettes":  st.Cigarettes,
			"packs":       st.Packs,
			"money_saved": fmt.Sprintf("%.2f", st.MoneySaved),
		}

	case "list_reminders":
		family, _ := getString(params, "family")
		var out []map[string]any
		for _, j := range a.jobs.Jobs() {
			if family != "" && !strings.Contains(j.ID, family) {
				continue
			}
			out = append(out, map[string]any{
				"id":       j.ID,
				"name":     j.Name,
				"schedule": j.Spec,
				"timezone": j.Timezone,
				"next":     j.Next.Format(time.RFC3339),
			})
		}
		if out == nil {
			out = []map[string]any{}
		}
		result = out

	default:
		result = map[string]any{"error": "unknown tool: " + name}
	}

	if err != nil {
		result = map[string]any{"error": err.Error()}
	}

	b, _ := json.Marshal(result) // maps of plain values only
	return string(b)
}

func (a *Agent) timeIn(tz string) (map[string]any, error) {
	loc, err := clock.Location(tz)
	if err != nil {
		return nil, err
	}
	now := a.clock.Now()
	local := now.In(loc)
	return map[string]any{
		"utc":      now.UTC().Format(time.RFC3339),
		"local":    local.Format("2006-01-02 15:04:05"),
		"timezone": tz,
		"weekday":  local.Weekday().String(),
	}, nil
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
