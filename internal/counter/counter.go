// Package counter keeps the persisted quit date and derives day counts and
// savings from it.
package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chris/nudge/internal/clock"
)

// DateLayout is the on-disk format of Record.StartDate.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound means the store holds no record yet.
	ErrNotFound = errors.New("counter record not found")
	// ErrCorrupt means a record exists but cannot be used.
	ErrCorrupt = errors.New("counter record corrupt")
)

// Record is the single unit of durable state. TotalDays is a cache of the
// last Calculate and is never read back as a source of truth.
type Record struct {
	StartDate      string `json:"start_date"`
	TotalDays      int    `json:"total_days"`
	CreatedAt      string `json:"created_at,omitempty"`
	LastCalculated string `json:"last_calculated,omitempty"`
}

// Store persists whole records (load-modify-save).
type Store interface {
	Get(ctx context.Context) (Record, error)
	Put(ctx context.Context, rec Record) error
}

// Rates are the smoking habit constants the savings are derived from.
type Rates struct {
	CigarettesPerDay  int
	CigarettesPerPack int
	PricePerPack      float64
}

var DefaultRates = Rates{CigarettesPerDay: 20, CigarettesPerPack: 20, PricePerPack: 22}

// Stats are the derived statistics for one day count.
type Stats struct {
	Days       int
	Cigarettes int
	Packs      float64
	MoneySaved float64
}

// Tracker reads and touches the record. Every failure is logged and
// downgraded to a default record; no method returns an error.
type Tracker struct {
	store Store
	clock clock.Clock
	rates Rates
	loc   *time.Location
	log   *zap.Logger
}

func NewTracker(store Store, clk clock.Clock, rates Rates, log *zap.Logger) *Tracker {
	if rates.CigarettesPerPack <= 0 {
		rates.CigarettesPerPack = DefaultRates.CigarettesPerPack
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, clock: clk, rates: rates, loc: time.Local, log: log}
}

// WithLocation sets the zone "today" is resolved in. Defaults to the
// process local zone.
func (t *Tracker) WithLocation(loc *time.Location) *Tracker {
	t.loc = loc
	return t
}

// Load returns the persisted record. A missing or unusable record is replaced
// by a fresh one starting today and saved; other read failures return the
// fresh record without saving it.
func (t *Tracker) Load(ctx context.Context) Record {
	rec, _ := t.load(ctx)
	return rec
}

// load also reports whether rec is backed by the store. A fallback record
// must never be written over the stored one.
func (t *Tracker) load(ctx context.Context) (Record, bool) {
	rec, err := t.store.Get(ctx)
	if err == nil {
		if _, perr := time.Parse(DateLayout, rec.StartDate); perr == nil {
			return rec, true
		}
		err = fmt.Errorf("%w: start_date %q", ErrCorrupt, rec.StartDate)
	}

	fresh := t.fresh()
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt) {
		if !errors.Is(err, ErrNotFound) {
			t.log.Warn("counter record unusable, starting over", zap.Error(err))
		}
		t.Save(ctx, fresh)
		return fresh, true
	}
	t.log.Error("loading counter record", zap.Error(err))
	return fresh, false
}

// Save persists rec; failure is logged only.
func (t *Tracker) Save(ctx context.Context, rec Record) {
	if err := t.store.Put(ctx, rec); err != nil {
		t.log.Error("saving counter record", zap.Error(err))
	}
}

// Calculate derives today's stats and rewrites the record's TotalDays and
// LastCalculated. Nothing is written when the store could not be read.
func (t *Tracker) Calculate(ctx context.Context) Stats {
	rec, stored := t.load(ctx)
	now := t.clock.Now().In(t.loc)

	start, _ := time.Parse(DateLayout, rec.StartDate) // Load guarantees the layout
	days := DaysPassed(start, now)

	if stored {
		rec.TotalDays = days
		rec.LastCalculated = now.Format(time.RFC3339)
		t.Save(ctx, rec)
	}

	return t.rates.StatsFor(days)
}

// StatsFor derives the statistics for a given day count.
func (r Rates) StatsFor(days int) Stats {
	cigs := days * r.CigarettesPerDay
	packs := float64(cigs) / float64(r.CigarettesPerPack)
	return Stats{
		Days:       days,
		Cigarettes: cigs,
		Packs:      packs,
		MoneySaved: packs * r.PricePerPack,
	}
}

// DaysPassed counts calendar days from start to today inclusive, so the
// start day itself is day 1. A start date in the future yields 0.
func DaysPassed(start, today time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(n.Sub(s).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

func (t *Tracker) fresh() Record {
	now := t.clock.Now().In(t.loc)
	return Record{
		StartDate: now.Format(DateLayout),
		TotalDays: 0,
		CreatedAt: now.Format(time.RFC3339),
	}
}
