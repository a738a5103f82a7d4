package scheduler

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chris/nudge/internal/clock"
)

// ErrInvalidRecurrence is returned for recurrences that can never be
// registered.
var ErrInvalidRecurrence = errors.New("invalid recurrence")

// robfig marks "*" fields with the top bit.
const starBit = 1 << 63

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// RecurrenceSpec describes the wall-clock minutes a job fires on. A nil
// Minute or Hour means every one; empty Weekdays means every day.
type RecurrenceSpec struct {
	Minute   *int
	Hour     *int
	Weekdays []time.Weekday
	Timezone string
}

// Daily fires once a day at hour:minute in tz, optionally only on days.
func Daily(hour, minute int, tz string, days ...time.Weekday) RecurrenceSpec {
	return RecurrenceSpec{Minute: &minute, Hour: &hour, Weekdays: days, Timezone: tz}
}

// Hourly fires at the given minute of every hour in tz.
func Hourly(minute int, tz string) RecurrenceSpec {
	return RecurrenceSpec{Minute: &minute, Timezone: tz}
}

func (r RecurrenceSpec) Validate() error {
	if r.Minute == nil && r.Hour == nil {
		return fmt.Errorf("%w: minute or hour must be set", ErrInvalidRecurrence)
	}
	if r.Minute != nil && (*r.Minute < 0 || *r.Minute > 59) {
		return fmt.Errorf("%w: minute %d out of range", ErrInvalidRecurrence, *r.Minute)
	}
	if r.Hour != nil && (*r.Hour < 0 || *r.Hour > 23) {
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidRecurrence, *r.Hour)
	}
	for _, d := range r.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidRecurrence, d)
		}
	}
	if r.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidRecurrence)
	}
	if _, err := clock.Location(r.Timezone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	return nil
}

// Matches reports whether t, read in the spec's timezone, falls on a firing
// minute. An unloadable timezone never matches.
func (r RecurrenceSpec) Matches(t time.Time) bool {
	c, err := clock.In(t, r.Timezone)
	if err != nil {
		return false
	}
	if r.Minute != nil && c.Minute != *r.Minute {
		return false
	}
	if r.Hour != nil && c.Hour != *r.Hour {
		return false
	}
	return len(r.Weekdays) == 0 || slices.Contains(r.Weekdays, c.Weekday)
}

// String renders the spec as a five-field cron expression.
func (r RecurrenceSpec) String() string {
	field := func(v *int) string {
		if v == nil {
			return "*"
		}
		return strconv.Itoa(*v)
	}
	dow := "*"
	if len(r.Weekdays) > 0 {
		days := slices.Clone(r.Weekdays)
		slices.Sort(days)
		days = slices.Compact(days)
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = strconv.Itoa(int(d))
		}
		dow = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%s %s * * %s", field(r.Minute), field(r.Hour), dow)
}

// Next returns the first firing instant strictly after after, or the zero
// time if the spec is invalid.
func (r RecurrenceSpec) Next(after time.Time) time.Time {
	loc, err := clock.Location(r.Timezone)
	if err != nil {
		return time.Time{}
	}
	sched, err := parser.Parse(r.String())
	if err != nil {
		return time.Time{}
	}
	spec, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return time.Time{}
	}
	spec.Location = loc
	return spec.Next(after)
}

// ParseRecurrence converts a five-field cron expression such as
// "40 6 * * *" or "0 10 * * sat,sun" into a RecurrenceSpec. Day-of-month
// and month must be "*"; minute and hour must be a single value or "*".
func ParseRecurrence(expr, tz string) (RecurrenceSpec, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return RecurrenceSpec{}, fmt.Errorf("%w: %q: expected 5 fields", ErrInvalidRecurrence, expr)
	}
	if fields[2] != "*" || fields[3] != "*" {
		return RecurrenceSpec{}, fmt.Errorf("%w: %q: day-of-month and month must be *", ErrInvalidRecurrence, expr)
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return RecurrenceSpec{}, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	spec, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return RecurrenceSpec{}, fmt.Errorf("%w: %q", ErrInvalidRecurrence, expr)
	}

	r := RecurrenceSpec{Timezone: tz}
	if r.Minute, err = single(spec.Minute, 60, "minute"); err != nil {
		return RecurrenceSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidRecurrence, expr, err)
	}
	if r.Hour, err = single(spec.Hour, 24, "hour"); err != nil {
		return RecurrenceSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidRecurrence, expr, err)
	}
	dow := spec.Dow &^ starBit
	if bits.OnesCount64(dow) < 7 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if dow&(1<<uint(d)) != 0 {
				r.Weekdays = append(r.Weekdays, d)
			}
		}
	}
	if err := r.Validate(); err != nil {
		return RecurrenceSpec{}, err
	}
	return r, nil
}

// single returns nil when every one of size values is set, the value when
// exactly one is set, and an error otherwise.
func single(mask uint64, size int, name string) (*int, error) {
	mask &^= starBit
	switch n := bits.OnesCount64(mask); n {
	case size:
		return nil, nil
	case 1:
		v := bits.TrailingZeros64(mask)
		return &v, nil
	default:
		return nil, fmt.Errorf("%s must be a single value or *", name)
	}
}
