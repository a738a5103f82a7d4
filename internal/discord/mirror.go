// Package discord mirrors delivered reminders to a Discord channel webhook.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/chris/nudge/internal/chunk"
)

// Discord has a 2000 char limit per message.
const maxMessageLen = 2000

type executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Mirror struct {
	session executor
	id      string
	token   string
}

// NewMirror parses a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func NewMirror(webhookURL string) (*Mirror, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook execution needs no bot token.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}
	return &Mirror{session: s, id: id, token: token}, nil
}

// Post sends text to the webhook, split if needed.
func (m *Mirror) Post(ctx context.Context, text string) error {
	for _, part := range chunk.Split(text, maxMessageLen) {
		params := &discordgo.WebhookParams{Content: part}
		if _, err := m.session.WebhookExecute(m.id, m.token, false, params, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("posting to Discord webhook: %w", err)
		}
	}
	return nil
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parsing webhook URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", errors.New("webhook URL must end in /webhooks/{id}/{token}")
}
