package reminder

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/counter"
	"github.com/chris/nudge/internal/scheduler"
)

const (
	smokingHour   = 6
	smokingMinute = 40
	smokingJobID  = "daily_smoking_reminder"
)

// Smoking sends the daily quit-smoking progress report.
type Smoking struct {
	TZ       string
	Tracker  *counter.Tracker
	Clock    clock.Clock
	Dispatch *Dispatcher

	// at replaces the default 06:40 when the schedule is overridden.
	at *scheduler.RecurrenceSpec
}

func (f *Smoking) recurrence() scheduler.RecurrenceSpec {
	if f.at != nil {
		return *f.at
	}
	return scheduler.Daily(smokingHour, smokingMinute, f.TZ)
}

// when renders the reminder time as H:MM, or as a cron expression for
// schedules that are not once a day.
func (f *Smoking) when() string {
	rec := f.recurrence()
	if rec.Hour == nil || rec.Minute == nil || len(rec.Weekdays) > 0 {
		return rec.String()
	}
	return fmt.Sprintf("%d:%02d", *rec.Hour, *rec.Minute)
}

func (f *Smoking) Name() string { return "smoking" }

func (f *Smoking) Jobs(recipient int64) []scheduler.Job {
	return []scheduler.Job{{
		ID:         smokingJobID,
		Name:       "Ежедневное напоминание о курении",
		Recurrence: f.recurrence(),
		Action:     f.Dispatch.Job(smokingJobID, recipient, f.Message),
	}}
}

// Message is the daily report: milestone, statistics and a health note.
func (f *Smoking) Message(ctx context.Context) (string, error) {
	st := f.Tracker.Calculate(ctx)
	return fmt.Sprintf(`🚭 %s

📊 Статистика за %d дней:
💰 Сэкономлено: $%s
🚬 Не выкурено: %s сигарет
📦 Не куплено: %s пачек

%s

🏃‍♂️ Продолжай в том же духе!`,
		catalog.Motivational(st.Days),
		st.Days,
		money(st.MoneySaved),
		humanize.Comma(int64(st.Cigarettes)),
		humanize.FormatFloat("#,###.#", st.Packs),
		catalog.HealthBenefit(st.Days),
	), nil
}

// StatusMessage is the /stats reply.
func (f *Smoking) StatusMessage(ctx context.Context) (string, error) {
	st := f.Tracker.Calculate(ctx)
	loc, err := clock.Location(f.TZ)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`📊 Текущая статистика курения:
🗓️ Дней без курения: %d
💰 Сэкономлено: $%s
🚬 Не выкурено: %s сигарет

⏰ Ежедневные напоминания в %s (%s)
🕒 Текущее время: %s`,
		st.Days,
		money(st.MoneySaved),
		humanize.Comma(int64(st.Cigarettes)),
		f.when(), f.TZ,
		f.Clock.Now().In(loc).Format("15:04:05"),
	), nil
}

// StartupMessage is StatusMessage under the startup banner.
func (f *Smoking) StartupMessage(ctx context.Context) (string, error) {
	status, err := f.StatusMessage(ctx)
	if err != nil {
		return "", err
	}
	return "🤖 Бот запущен!\n\n" + status, nil
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
