package reminder

import (
	"context"
	"time"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/scheduler"
)

// French sends the nightly study reminder and weekend extras.
type French struct {
	TZ       string
	Select   *catalog.Selector
	Dispatch *Dispatcher
}

var frenchKinds = []string{"simple", "motivational", "with_tip", "with_phrase"}

func (f *French) Name() string { return "french" }

func (f *French) Jobs(recipient int64) []scheduler.Job {
	return []scheduler.Job{
		{
			ID:         "daily_french_reminder",
			Name:       "Ежедневное напоминание о французском",
			Recurrence: scheduler.Daily(22, 15, f.TZ),
			Action:     f.Dispatch.Job("daily_french_reminder", recipient, f.Message),
		},
		{
			ID:         "weekend_french_motivation",
			Name:       "Мотивация на выходных",
			Recurrence: scheduler.Daily(10, 0, f.TZ, time.Saturday, time.Sunday),
			Action:     f.Dispatch.Job("weekend_french_motivation", recipient, f.Weekend),
		},
		{
			ID:         "weekly_french_progress",
			Name:       "Еженедельный прогресс",
			Recurrence: scheduler.Daily(19, 0, f.TZ, time.Sunday),
			Action:     f.Dispatch.Job("weekly_french_progress", recipient, f.Weekly),
		},
	}
}

// Message picks uniformly among a plain reminder and a reminder followed by
// a motivation, a tip or a phrase.
func (f *French) Message(context.Context) (string, error) {
	base := f.Select.Pick(catalog.FrenchReminders)
	switch f.Select.Pick(frenchKinds) {
	case "motivational":
		return catalog.Compose(base, f.Select.Pick(catalog.FrenchMotivation)), nil
	case "with_tip":
		return catalog.Compose(base, f.Select.Pick(catalog.FrenchTips)), nil
	case "with_phrase":
		return catalog.Compose(base, f.Select.Pick(catalog.FrenchPhrases)), nil
	default:
		return base, nil
	}
}

func (f *French) Weekend(context.Context) (string, error) {
	return f.Select.Pick(catalog.FrenchWeekend), nil
}

func (f *French) Weekly(context.Context) (string, error) {
	return f.Select.Pick(catalog.FrenchWeekly), nil
}
