// Package app wires configuration, storage, reminders and transports into
// the commands the binary exposes.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/chris/nudge/config"
	"github.com/chris/nudge/internal/agent"
	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/counter"
	"github.com/chris/nudge/internal/db"
	"github.com/chris/nudge/internal/discord"
	"github.com/chris/nudge/internal/llm"
	"github.com/chris/nudge/internal/reminder"
	"github.com/chris/nudge/internal/scheduler"
	"github.com/chris/nudge/internal/telegram"
)

const counterName = "smoking"

type App struct {
	cfg     *config.Config
	log     *zap.Logger
	clock   clock.Clock
	db      *db.DB
	sel     *catalog.Selector
	store   counter.Store
	loc     *time.Location
	tracker *counter.Tracker
	sched   *scheduler.Scheduler
}

// New opens storage and builds the pieces every command shares.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	return newApp(cfg, log, clock.System{}, catalog.NewRandomSelector())
}

func newApp(cfg *config.Config, log *zap.Logger, clk clock.Clock, sel *catalog.Selector) (*App, error) {
	if _, err := clock.Location(cfg.SmokingTZ); err != nil {
		return nil, fmt.Errorf("smoking timezone: %w", err)
	}
	// The day count rolls over at host midnight unless COUNTER_TZ says otherwise.
	loc := time.Local
	if cfg.CounterTZ != "" {
		l, err := clock.Location(cfg.CounterTZ)
		if err != nil {
			return nil, fmt.Errorf("counter timezone: %w", err)
		}
		loc = l
	}
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	var store counter.Store = counter.NewFileStore(cfg.CounterFile)
	if cfg.CounterBackend == "sqlite" {
		store = database.CounterStore(counterName)
	}

	a := &App{
		cfg:   cfg,
		log:   log,
		clock: clk,
		db:    database,
		sel:   sel,
		store: store,
		loc:   loc,
		sched: scheduler.New(clk, log),
	}
	a.tracker = a.newTracker(store)
	return a, nil
}

func (a *App) newTracker(store counter.Store) *counter.Tracker {
	rates := counter.Rates{
		CigarettesPerDay:  a.cfg.CigarettesPerDay,
		CigarettesPerPack: a.cfg.CigarettesPerPack,
		PricePerPack:      a.cfg.PricePerPack,
	}
	return counter.NewTracker(store, a.clock, rates, a.log).WithLocation(a.loc)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) recipients() reminder.Recipients {
	return reminder.Recipients{
		Owner:    a.cfg.UserID,
		Water:    a.cfg.LinaUserID,
		Medicine: a.cfg.MomUserID,
	}
}

func (a *App) timezones() reminder.Timezones {
	return reminder.Timezones{
		Smoking:  a.cfg.SmokingTZ,
		Water:    a.cfg.WaterTZ,
		Medicine: a.cfg.MedicineTZ,
		French:   a.cfg.FrenchTZ,
	}
}

// reminders builds the dispatcher around sender and registers every enabled
// family with the scheduler. A dry run records nothing, mirrors nothing and
// works on a scratch copy of the counter record.
func (a *App) reminders(ctx context.Context, sender reminder.Sender, dryRun bool) (*reminder.Set, *reminder.Dispatcher, error) {
	d := reminder.NewDispatcher(sender, a.clock, a.log)
	tracker := a.tracker
	if dryRun {
		scratch := counter.NewMemoryStore()
		if rec, err := a.store.Get(ctx); err == nil {
			if err := scratch.Put(ctx, rec); err != nil {
				return nil, nil, err
			}
		}
		tracker = a.newTracker(scratch)
	} else {
		d.WithRecorder(a.db)
		if a.cfg.DiscordWebhook != "" {
			m, err := discord.NewMirror(a.cfg.DiscordWebhook)
			if err != nil {
				a.log.Warn("discord mirror disabled", zap.Error(err))
			} else {
				d.WithMirror(m)
			}
		}
	}
	set := reminder.NewSet(d, a.sel, tracker, a.clock, a.timezones()).WithOverrides(a.cfg.Schedules)
	if err := set.Register(a.sched, a.recipients(), a.log); err != nil {
		return nil, nil, err
	}
	return set, d, nil
}

func (a *App) agent() (*agent.Agent, error) {
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:    a.cfg.LLMProvider,
		APIKey:      a.cfg.LLMKey(),
		AuthToken:   a.cfg.AnthropicToken,
		Model:       a.cfg.LLMModel,
		BaseURL:     a.baseURL(),
		MaxTokens:   a.cfg.LLMMaxTokens,
		Temperature: a.cfg.LLMTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	ag := agent.New(client, a.tracker, a.sched, a.clock, a.log, a.cfg.MaxContextTokens)
	ag.DefaultTimezone = a.cfg.SmokingTZ
	return ag, nil
}

func (a *App) baseURL() string {
	if a.cfg.LLMProvider == "ollama" {
		return a.cfg.OllamaBaseURL
	}
	return ""
}

// Run starts the bot and blocks until SIGINT/SIGTERM or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting nudge",
		zap.String("mode", a.cfg.RunMode),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("counter", a.cfg.CounterBackend),
	)

	bot, err := telegram.New(a.cfg.TelegramToken, a.log)
	if err != nil {
		return err
	}
	set, _, err := a.reminders(ctx, bot, false)
	if err != nil {
		return err
	}
	ag, err := a.agent()
	if err != nil {
		return err
	}
	bot.WithDeps(telegram.Deps{
		Owner:   a.cfg.UserID,
		Chat:    ag,
		History: agent.NewHistory(a.cfg.MaxContextTokens),
		Status:  set.Smoking,
		Jobs:    a.sched,
		Select:  a.sel,
	})

	// Creates the record on first start.
	rec := a.tracker.Load(ctx)
	a.log.Info("counter loaded", zap.String("start_date", rec.StartDate))

	if err := a.sched.Start(); err != nil {
		return err
	}
	defer a.stopScheduler()

	if a.cfg.SendStartup {
		a.sendStartup(ctx, bot, set)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer bot.Wait()

	if a.cfg.RunMode == "webhook" {
		return bot.RunWebhook(ctx, a.cfg.WebhookURL, a.cfg.WebhookPath, a.cfg.HTTPAddr)
	}

	srv := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      telegram.HealthRouter(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()
	err = bot.RunPolling(ctx)

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if serr := srv.Shutdown(shCtx); serr != nil {
		a.log.Warn("http server shutdown error", zap.Error(serr))
	}
	cancel()
	return err
}

func (a *App) sendStartup(ctx context.Context, bot *telegram.Bot, set *reminder.Set) {
	text, err := set.Smoking.StartupMessage(ctx)
	if err != nil {
		a.log.Error("building startup message", zap.Error(err))
		return
	}
	if err := bot.Send(ctx, a.cfg.UserID, text); err != nil {
		a.log.Error("sending startup message", zap.Error(err))
		return
	}
	a.log.Info("startup message sent", zap.Int64("recipient", a.cfg.UserID))
}

func (a *App) stopScheduler() {
	a.log.Info("shutting down scheduler")
	select {
	case <-a.sched.Shutdown().Done():
	case <-time.After(30 * time.Second):
		a.log.Warn("reminders still running at shutdown")
	}
}

// Stats writes the smoking status report.
func (a *App) Stats(ctx context.Context, out io.Writer) error {
	set, _, err := a.reminders(ctx, writerSender{out}, false)
	if err != nil {
		return err
	}
	text, err := set.Smoking.StatusMessage(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

// Jobs writes the reminder table with each job's next fire time in its own
// timezone.
func (a *App) Jobs(out io.Writer) error {
	if _, _, err := a.reminders(context.Background(), writerSender{out}, true); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPEC\tTIMEZONE\tNEXT")
	for _, j := range a.sched.Jobs() {
		next := "-"
		if !j.Next.IsZero() {
			t := j.Next
			if loc, err := clock.Location(j.Timezone); err == nil {
				t = t.In(loc)
			}
			next = t.Format("2006-01-02 15:04 MST")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", j.ID, j.Spec, j.Timezone, next)
	}
	return tw.Flush()
}

// Send delivers one family's main reminder now. to overrides the configured
// recipient; dryRun writes the text to out instead of Telegram.
func (a *App) Send(ctx context.Context, family string, to int64, dryRun bool, out io.Writer) error {
	var sender reminder.Sender = writerSender{out}
	if !dryRun {
		bot, err := telegram.New(a.cfg.TelegramToken, a.log)
		if err != nil {
			return err
		}
		sender = bot
	}
	set, d, err := a.reminders(ctx, sender, dryRun)
	if err != nil {
		return err
	}
	if to == 0 {
		to = a.recipients().For(family)
	}
	if to == 0 {
		return fmt.Errorf("no recipient configured for %q", family)
	}
	return set.Send(ctx, d, family, to)
}

// Deliveries writes the newest delivery log rows, optionally for one job.
func (a *App) Deliveries(ctx context.Context, jobID string, limit int, out io.Writer) error {
	rows, err := a.db.ListDeliveries(ctx, jobID, limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SENT\tJOB\tRECIPIENT\tOK\tERROR")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", r.SentAt.Format(time.DateTime), r.JobID, r.Recipient, r.OK, r.Error)
	}
	return tw.Flush()
}

// Chat runs a REPL against the agent. When in is not a terminal a single
// exchange is made.
func (a *App) Chat(ctx context.Context, in *os.File, out io.Writer) error {
	if _, _, err := a.reminders(ctx, writerSender{io.Discard}, true); err != nil {
		return err
	}
	ag, err := a.agent()
	if err != nil {
		return err
	}

	stat, _ := in.Stat()
	isPipe := stat == nil || (stat.Mode()&os.ModeCharDevice) == 0
	prompt := func() {
		if !isPipe {
			fmt.Fprint(out, "nudge> ")
		}
	}

	scanner := bufio.NewScanner(in)
	var history []llm.Message
	prompt()
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			prompt()
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, newHistory, err := ag.Run(ctx, history, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintln(out, reply)
			history = llm.TrimMessages(newHistory, a.cfg.MaxContextTokens)
		}

		if isPipe {
			break // single exchange in pipe mode
		}
		prompt()
	}
	return scanner.Err()
}

// writerSender prints reminders instead of sending them.
type writerSender struct {
	w io.Writer
}

func (s writerSender) Send(_ context.Context, recipient int64, text string) error {
	_, err := fmt.Fprintf(s.w, "-> %d\n%s\n", recipient, text)
	return err
}
