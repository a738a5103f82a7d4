package reminder

import (
	"context"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/scheduler"
)

// Medicine sends medication reminders five times a day.
type Medicine struct {
	TZ       string
	Select   *catalog.Selector
	Dispatch *Dispatcher
}

func (f *Medicine) Name() string { return "medicine" }

func (f *Medicine) Jobs(recipient int64) []scheduler.Job {
	job := func(id, name string, hour, minute int, build BuildFunc) scheduler.Job {
		return scheduler.Job{
			ID:         id,
			Name:       name,
			Recurrence: scheduler.Daily(hour, minute, f.TZ),
			Action:     f.Dispatch.Job(id, recipient, build),
		}
	}
	return []scheduler.Job{
		job("morning_medicine_reminder", "Утреннее напоминание о лекарствах", 8, 0, f.Morning),
		job("morning_medicine_reminder_2", "Дополнительное утреннее напоминание", 8, 30, f.Message),
		job("afternoon_medicine_reminder", "Дневное напоминание о лекарствах", 14, 0, f.Message),
		job("evening_medicine_reminder", "Вечернее напоминание о лекарствах", 20, 0, f.Evening),
		job("evening_medicine_reminder_2", "Дополнительное вечернее напоминание", 20, 30, f.Message),
	}
}

// Message: 70% plain, 15% motivational, 15% plain with a tip.
func (f *Medicine) Message(context.Context) (string, error) {
	if f.Select.Chance(0.7) {
		return f.Select.Pick(catalog.MedicineReminders), nil
	}
	if f.Select.Chance(0.5) {
		return f.Select.Pick(catalog.MedicineMotivation), nil
	}
	return catalog.Compose(f.Select.Pick(catalog.MedicineReminders), f.Select.Pick(catalog.MedicineTips)), nil
}

func (f *Medicine) Morning(context.Context) (string, error) {
	return f.Select.Pick(catalog.MedicineMorning), nil
}

func (f *Medicine) Evening(context.Context) (string, error) {
	return f.Select.Pick(catalog.MedicineEvening), nil
}
