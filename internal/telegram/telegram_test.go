package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chris/nudge/internal/agent"
	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/scheduler"
)

type sent struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sent
	actions int
	err     error
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	f.sent = append(f.sent, sent{chatID: msg.ChatID, text: msg.Text})
	return tgbotapi.Message{}, nil
}

func (f *fakeMessenger) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.sent {
		out = append(out, s.text)
	}
	return out
}

type fakeChat struct {
	reply string
	err   error
	seen  [][]llm.Message
}

func (f *fakeChat) Run(_ context.Context, history []llm.Message, msg string) (string, []llm.Message, error) {
	f.seen = append(f.seen, history)
	if f.err != nil {
		return "", nil, f.err
	}
	out := append(append([]llm.Message{}, history...),
		llm.Message{Role: llm.RoleUser, Content: msg},
		llm.Message{Role: llm.RoleAssistant, Content: f.reply},
	)
	return f.reply, out, nil
}

type fakeStatus struct{}

func (fakeStatus) StatusMessage(context.Context) (string, error) { return "📊 Текущая статистика курения:", nil }

type fakeJobs []scheduler.JobInfo

func (f fakeJobs) Jobs() []scheduler.JobInfo { return f }

func newTestBot(t *testing.T, chat Chatter) (*Bot, *fakeMessenger) {
	t.Helper()
	m := &fakeMessenger{}
	deps := Deps{
		Owner:   7,
		Chat:    chat,
		History: agent.NewHistory(8000),
		Status:  fakeStatus{},
		Jobs: fakeJobs{{
			ID:       "daily_smoking_reminder",
			Spec:     "40 6 * * *",
			Timezone: "America/Vancouver",
			Next:     time.Date(2024, 7, 2, 13, 40, 0, 0, time.UTC),
		}},
		Select: catalog.NewSeededSelector(1),
	}
	return newBot(m, &tgbotapi.BotAPI{}, zaptest.NewLogger(t)).WithDeps(deps), m
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

func TestSend_LongTextSplit(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	text := strings.Repeat("ж", maxMessageLen+10)

	require.NoError(t, b.Send(context.Background(), 42, text))

	got := m.texts()
	require.Len(t, got, 2)
	assert.Equal(t, maxMessageLen, utf8.RuneCountInString(got[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(got[1]))
}

func TestSend_Error(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	m.err = errors.New("forbidden")

	err := b.Send(context.Background(), 42, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending to 42")
}

func TestHandleUpdate_Start(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	b.HandleUpdate(context.Background(), textUpdate(7, "/start"))
	assert.Equal(t, []string{catalog.Greeting}, m.texts())
}

func TestHandleUpdate_Stats(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	b.HandleUpdate(context.Background(), textUpdate(7, "/stats"))
	assert.Equal(t, []string{"📊 Текущая статистика курения:"}, m.texts())
}

func TestHandleUpdate_Reminders(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	b.HandleUpdate(context.Background(), textUpdate(7, "/reminders"))

	got := m.texts()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "daily_smoking_reminder: 40 6 * * * (America/Vancouver)")
	assert.Contains(t, got[0], "2024-07-02 06:40:00")
}

func TestHandleUpdate_OwnerOnlyCommands(t *testing.T) {
	for _, cmd := range []string{"/stats", "/reminders"} {
		t.Run(cmd, func(t *testing.T) {
			chat := &fakeChat{reply: "x"}
			b, m := newTestBot(t, chat)
			b.HandleUpdate(context.Background(), textUpdate(99, cmd))

			got := m.texts()
			require.Len(t, got, 1)
			assert.Equal(t, ownerOnly, got[0])
			assert.Equal(t, int64(99), m.sent[0].chatID)
			assert.Empty(t, chat.seen, "refused command must not reach the chat model")
		})
	}
}

func TestHandleUpdate_ChatKeepsHistory(t *testing.T) {
	chat := &fakeChat{reply: "Привет!"}
	b, m := newTestBot(t, chat)

	b.HandleUpdate(context.Background(), textUpdate(7, "привет"))
	b.HandleUpdate(context.Background(), textUpdate(7, "как дела?"))

	assert.Equal(t, []string{"Привет!", "Привет!"}, m.texts())
	require.Len(t, chat.seen, 2)
	assert.Empty(t, chat.seen[0])
	assert.Len(t, chat.seen[1], 2)
	assert.Equal(t, 2, m.actions)
}

func TestHandleUpdate_ResetClearsHistory(t *testing.T) {
	chat := &fakeChat{reply: "ok"}
	b, _ := newTestBot(t, chat)

	b.HandleUpdate(context.Background(), textUpdate(7, "привет"))
	b.HandleUpdate(context.Background(), textUpdate(7, "/reset"))
	b.HandleUpdate(context.Background(), textUpdate(7, "снова"))

	require.Len(t, chat.seen, 2)
	assert.Empty(t, chat.seen[1])
}

func TestHandleUpdate_ChatErrorUsesCatalog(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{err: errors.New("rate limited")})
	b.HandleUpdate(context.Background(), textUpdate(7, "привет"))

	got := m.texts()
	require.Len(t, got, 1)
	assert.Contains(t, catalog.ChatErrors, got[0])
}

func TestHandleUpdate_IgnoresNonText(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	b.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1})
	b.HandleUpdate(context.Background(), textUpdate(7, "   "))
	assert.Empty(t, m.texts())
}

func TestHandleUpdate_IgnoredWithoutDeps(t *testing.T) {
	m := &fakeMessenger{}
	b := newBot(m, &tgbotapi.BotAPI{}, zaptest.NewLogger(t))
	b.HandleUpdate(context.Background(), textUpdate(7, "/start"))
	assert.Empty(t, m.texts())
}

func TestRouter_Healthz(t *testing.T) {
	b, _ := newTestBot(t, &fakeChat{})
	srv := httptest.NewServer(b.Router(context.Background(), "/telegram"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthRouter(t *testing.T) {
	srv := httptest.NewServer(HealthRouter())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/telegram", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Update(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	srv := httptest.NewServer(b.Router(context.Background(), "/telegram"))
	defer srv.Close()

	body := `{"update_id":5,"message":{"message_id":1,"date":0,"chat":{"id":9,"type":"private"},` +
		`"text":"/start","entities":[{"type":"bot_command","offset":0,"length":6}]}}`
	resp, err := http.Post(srv.URL+"/telegram", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b.Wait()
	assert.Equal(t, []string{catalog.Greeting}, m.texts())
}

func TestRouter_BadUpdate(t *testing.T) {
	b, m := newTestBot(t, &fakeChat{})
	srv := httptest.NewServer(b.Router(context.Background(), "/telegram"))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/telegram", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, m.texts())
}
