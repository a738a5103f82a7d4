package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
)

const ownerOnly = "🔒 Эта команда доступна только владельцу."

// HandleUpdate routes one update. Only text messages are handled.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || !b.ready {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.reply(ctx, chatID, catalog.Greeting)
	case msg.IsCommand() && (msg.Command() == "stats" || msg.Command() == "reminders") && chatID != b.deps.Owner:
		b.log.Warn("owner-only command refused", zap.Int64("chat", chatID), zap.String("command", msg.Command()))
		b.reply(ctx, chatID, ownerOnly)
	case msg.IsCommand() && msg.Command() == "stats":
		b.handleStats(ctx, chatID)
	case msg.IsCommand() && msg.Command() == "reminders":
		b.reply(ctx, chatID, b.remindersText())
	case msg.IsCommand() && msg.Command() == "reset":
		b.deps.History.Reset(chatID)
		b.reply(ctx, chatID, "🧹 История разговора очищена.")
	default:
		b.handleChat(ctx, chatID, text)
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	text, err := b.deps.Status.StatusMessage(ctx)
	if err != nil {
		b.log.Error("building status", zap.Error(err))
		text = b.deps.Select.Pick(catalog.ChatErrors)
	}
	b.reply(ctx, chatID, text)
}

func (b *Bot) handleChat(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("typing action", zap.Error(err))
	}

	history := b.deps.History.Get(chatID)
	reply, updated, err := b.deps.Chat.Run(ctx, history, text)
	if err != nil {
		b.log.Error("chat failed", zap.Int64("chat", chatID), zap.Error(err))
		b.reply(ctx, chatID, b.deps.Select.Pick(catalog.ChatErrors))
		return
	}
	b.deps.History.Set(chatID, updated)
	if strings.TrimSpace(reply) == "" {
		reply = "🤷"
	}
	b.reply(ctx, chatID, reply)
}

func (b *Bot) remindersText() string {
	jobs := b.deps.Jobs.Jobs()
	if len(jobs) == 0 {
		return "Напоминаний нет."
	}
	var sb strings.Builder
	sb.WriteString("⏰ Напоминания:\n")
	for _, j := range jobs {
		next := "-"
		if !j.Next.IsZero() {
			t := j.Next
			if loc, err := clock.Location(j.Timezone); err == nil {
				t = t.In(loc)
			}
			next = t.Format(time.DateTime)
		}
		fmt.Fprintf(&sb, "• %s: %s (%s), следующее %s\n", j.ID, j.Spec, j.Timezone, next)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.Send(ctx, chatID, text); err != nil {
		b.log.Error("reply failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}
