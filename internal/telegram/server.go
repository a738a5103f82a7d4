package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RunPolling long-polls for updates until ctx is done. Handlers may still be
// running when it returns; see Wait.
func (b *Bot) RunPolling(ctx context.Context) error {
	if _, err := b.raw.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("removing webhook: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.raw.GetUpdatesChan(u)
	b.log.Info("polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.raw.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, upd)
			}()
		}
	}
}

// RunWebhook registers publicURL+path with Telegram and serves updates on
// addr until ctx is done. Like RunPolling it does not wait for handlers.
func (b *Bot) RunWebhook(ctx context.Context, publicURL, path, addr string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(publicURL, "/") + path)
	if err != nil {
		return fmt.Errorf("building webhook: %w", err)
	}
	wh.DropPendingUpdates = true
	if _, err := b.raw.Request(wh); err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           b.Router(ctx, path),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	b.log.Info("serving webhook", zap.String("addr", addr), zap.String("path", path))

	select {
	case err := <-errc:
		return fmt.Errorf("webhook server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stopping webhook server: %w", err)
	}
	return nil
}

// HealthRouter serves only /healthz, for hosts that health-check the bot while it
// long-polls.
func HealthRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/healthz", healthz)
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Router serves Telegram updates on path and a health check on /healthz.
// Updates are acknowledged at once and handled in the background.
func (b *Bot) Router(ctx context.Context, path string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthz)
	r.Post(path, func(w http.ResponseWriter, r *http.Request) {
		upd, err := b.raw.HandleUpdate(r)
		if err != nil {
			b.log.Warn("bad update", zap.Error(err))
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.HandleUpdate(ctx, *upd)
		}()
		w.WriteHeader(http.StatusOK)
	})
	return r
}
