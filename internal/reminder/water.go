package reminder

import (
	"context"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/scheduler"
)

// Hourly water reminders go out only between these local hours, inclusive.
const (
	waterFirstHour = 7
	waterLastHour  = 22
)

// Water sends hourly hydration reminders plus three window messages a day.
type Water struct {
	TZ       string
	Select   *catalog.Selector
	Clock    clock.Clock
	Dispatch *Dispatcher
}

func (f *Water) Name() string { return "water" }

func (f *Water) Jobs(recipient int64) []scheduler.Job {
	special := func(id, name string, hour, minute int) scheduler.Job {
		return scheduler.Job{
			ID:         id,
			Name:       name,
			Recurrence: scheduler.Daily(hour, minute, f.TZ),
			Action:     f.Dispatch.Job(id, recipient, f.Special),
		}
	}
	return []scheduler.Job{
		{
			ID:         "hourly_water_reminder",
			Name:       "Ежечасное напоминание о воде",
			Recurrence: scheduler.Hourly(0, f.TZ),
			Action:     f.Dispatch.Job("hourly_water_reminder", recipient, f.Hourly),
		},
		special("morning_water_reminder", "Утреннее напоминание о воде", 7, 30),
		special("lunch_water_reminder", "Обеденное напоминание о воде", 12, 30),
		special("evening_water_reminder", "Вечернее напоминание о воде", 18, 30),
	}
}

// Hourly skips night hours and otherwise sends Message.
func (f *Water) Hourly(ctx context.Context) (string, error) {
	hour, err := f.localHour()
	if err != nil {
		return "", err
	}
	if hour < waterFirstHour || hour > waterLastHour {
		return "", ErrSkip
	}
	return f.Message(ctx)
}

// Message is a plain reminder, or 30% of the time a reminder with a fact.
func (f *Water) Message(context.Context) (string, error) {
	if f.Select.Chance(0.3) {
		return catalog.Compose(f.Select.Pick(catalog.WaterReminders), f.Select.Pick(catalog.WaterFacts)), nil
	}
	return f.Select.Pick(catalog.WaterReminders), nil
}

// Special is the message for the current part of the day.
func (f *Water) Special(context.Context) (string, error) {
	hour, err := f.localHour()
	if err != nil {
		return "", err
	}
	return catalog.HourReminder(hour), nil
}

func (f *Water) localHour() (int, error) {
	c, err := clock.In(f.Clock.Now(), f.TZ)
	if err != nil {
		return 0, err
	}
	return c.Hour, nil
}
