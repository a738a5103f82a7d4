// Package telegram connects the bot to the Telegram Bot API, by long polling
// or by webhook.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/chris/nudge/internal/agent"
	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/chunk"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/scheduler"
)

// maxMessageLen is Telegram's limit on one text message.
const maxMessageLen = 4096

type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Chatter answers free text. Implemented by agent.Agent.
type Chatter interface {
	Run(ctx context.Context, history []llm.Message, userMessage string) (string, []llm.Message, error)
}

// StatusSource renders the smoking status report.
type StatusSource interface {
	StatusMessage(ctx context.Context) (string, error)
}

// JobLister lists scheduled reminders.
type JobLister interface {
	Jobs() []scheduler.JobInfo
}

type Deps struct {
	// Owner is the only chat allowed to see /stats and /reminders.
	Owner   int64
	Chat    Chatter
	History *agent.History
	Status  StatusSource
	Jobs    JobLister
	Select  *catalog.Selector
}

type Bot struct {
	api   messenger
	raw   *tgbotapi.BotAPI
	deps  Deps
	ready bool
	log   *zap.Logger
	wg    sync.WaitGroup
}

// New logs in with token. Updates are ignored until WithDeps is called.
func New(token string, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}
	log.Info("telegram bot connected", zap.String("username", api.Self.UserName))
	return newBot(api, api, log), nil
}

func newBot(api messenger, raw *tgbotapi.BotAPI, log *zap.Logger) *Bot {
	return &Bot{api: api, raw: raw, log: log}
}

// WithDeps sets what incoming messages are answered with. Call it before
// RunPolling or RunWebhook.
func (b *Bot) WithDeps(deps Deps) *Bot {
	b.deps = deps
	b.ready = true
	return b
}

// Send delivers text to a chat, split into several messages if it is over
// Telegram's length limit.
func (b *Bot) Send(ctx context.Context, recipient int64, text string) error {
	for _, part := range chunk.Split(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := b.api.Send(tgbotapi.NewMessage(recipient, part)); err != nil {
			return fmt.Errorf("sending to %d: %w", recipient, err)
		}
	}
	return nil
}

// Wait blocks until in-flight update handlers are done.
func (b *Bot) Wait() {
	b.wg.Wait()
}
