package reminder

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/counter"
	"github.com/chris/nudge/internal/scheduler"
)

// Family is a set of jobs sharing a topic and a timezone.
type Family interface {
	Name() string
	Jobs(recipient int64) []scheduler.Job
	// Message builds the family's main reminder text.
	Message(ctx context.Context) (string, error)
}

// Recipients are the chat ids each family is delivered to. Zero means the
// family is off.
type Recipients struct {
	Owner    int64 // smoking, french
	Water    int64
	Medicine int64
}

// For returns the recipient of the named family.
func (r Recipients) For(family string) int64 {
	switch family {
	case "smoking", "french":
		return r.Owner
	case "water":
		return r.Water
	case "medicine":
		return r.Medicine
	}
	return 0
}

type Timezones struct {
	Smoking  string
	Water    string
	Medicine string
	French   string
}

var DefaultTimezones = Timezones{
	Smoking:  "America/Vancouver",
	Water:    "America/Vancouver",
	Medicine: "Europe/Helsinki",
	French:   "America/Vancouver",
}

// Set holds one instance of every family.
type Set struct {
	Smoking  *Smoking
	Water    *Water
	Medicine *Medicine
	French   *French

	overrides map[string]string
}

func NewSet(d *Dispatcher, sel *catalog.Selector, tracker *counter.Tracker, clk clock.Clock, tz Timezones) *Set {
	return &Set{
		Smoking:  &Smoking{TZ: tz.Smoking, Tracker: tracker, Clock: clk, Dispatch: d},
		Water:    &Water{TZ: tz.Water, Select: sel, Clock: clk, Dispatch: d},
		Medicine: &Medicine{TZ: tz.Medicine, Select: sel, Dispatch: d},
		French:   &French{TZ: tz.French, Select: sel, Dispatch: d},
	}
}

// Off as an override value leaves the job unscheduled.
const Off = "off"

// WithOverrides replaces the schedule of the jobs named in o (job id to
// five-field cron expression, read in the job's timezone, or Off).
func (s *Set) WithOverrides(o map[string]string) *Set {
	s.overrides = o
	return s
}

// Family looks a family up by name.
func (s *Set) Family(name string) (Family, bool) {
	for _, f := range s.all() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Names lists family names in sorted order.
func (s *Set) Names() []string {
	var names []string
	for _, f := range s.all() {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

func (s *Set) all() []Family {
	return []Family{s.Smoking, s.Water, s.Medicine, s.French}
}

// Register adds every enabled family's jobs to sch. Families without a
// recipient are logged and left out.
func (s *Set) Register(sch *scheduler.Scheduler, r Recipients, log *zap.Logger) error {
	plan := []struct {
		f         Family
		recipient int64
	}{
		{s.Smoking, r.Owner},
		{s.French, r.Owner},
		{s.Water, r.Water},
		{s.Medicine, r.Medicine},
	}
	used := make(map[string]bool)
	for _, p := range plan {
		if p.recipient == 0 {
			log.Info("reminder family disabled, no recipient", zap.String("family", p.f.Name()))
			continue
		}
		jobs := p.f.Jobs(p.recipient)
		for _, job := range jobs {
			used[job.ID] = true
			if s.overrides[job.ID] == Off {
				sch.Remove(job.ID)
				log.Info("job disabled by override", zap.String("job", job.ID))
				continue
			}
			if err := s.override(&job); err != nil {
				return err
			}
			if err := sch.Register(job); err != nil {
				return fmt.Errorf("registering %s reminders: %w", p.f.Name(), err)
			}
		}
		log.Info("reminder family enabled", zap.String("family", p.f.Name()), zap.Int("jobs", len(jobs)))
	}
	for id := range s.overrides {
		if !used[id] {
			log.Warn("schedule override for unregistered job", zap.String("job", id))
		}
	}
	return nil
}

func (s *Set) override(job *scheduler.Job) error {
	expr, ok := s.overrides[job.ID]
	if !ok {
		return nil
	}
	rec, err := scheduler.ParseRecurrence(expr, job.Recurrence.Timezone)
	if err != nil {
		return fmt.Errorf("schedule override for %s: %w", job.ID, err)
	}
	job.Recurrence = rec
	if job.ID == smokingJobID {
		s.Smoking.at = &rec
	}
	return nil
}

// Send builds and delivers one family's main reminder immediately.
func (s *Set) Send(ctx context.Context, d *Dispatcher, name string, recipient int64) error {
	f, ok := s.Family(name)
	if !ok {
		return fmt.Errorf("unknown reminder family %q", name)
	}
	return d.Fire(ctx, "manual_"+name+"_reminder", recipient, f.Message)
}
