// Package clock resolves wall-clock time and civil time in IANA timezones.
package clock

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata" // IANA rules even on hosts without zoneinfo
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Civil is a timezone-local calendar reading of an instant.
type Civil struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Weekday time.Weekday
}

var locations sync.Map // name -> *time.Location

// Location loads (and caches) a named IANA zone.
func Location(name string) (*time.Location, error) {
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	locations.Store(name, loc)
	return loc, nil
}

// In converts t into the named zone and returns its civil fields.
func In(t time.Time, tz string) (Civil, error) {
	loc, err := Location(tz)
	if err != nil {
		return Civil{}, err
	}
	return CivilOf(t.In(loc)), nil
}

// CivilOf reads the civil fields of t in t's own location.
func CivilOf(t time.Time) Civil {
	return Civil{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Weekday: t.Weekday(),
	}
}

// Manual is a settable clock for tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
