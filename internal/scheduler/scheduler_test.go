package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/chris/nudge/internal/clock"
)

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(now)
	return New(clk, zaptest.NewLogger(t)), clk
}

// firings records the minutes an action ran at.
type firings struct {
	mu    sync.Mutex
	times []time.Time
	clk   clock.Clock
}

func (f *firings) action(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = append(f.times, f.clk.Now())
}

func (f *firings) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.times)
}

func TestTick_OncePerDayOverFullDay(t *testing.T) {
	van := mustLoad(t, vancouver)
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, van)
	s, clk := newTestScheduler(t, start)
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "daily_smoking_reminder", Recurrence: Daily(6, 40, vancouver), Action: f.action}))

	for i := 0; i < 1440; i++ {
		now := start.Add(time.Duration(i) * time.Minute)
		clk.Set(now)
		s.Tick(now)
		s.Tick(now.Add(30 * time.Second)) // same minute, late tick
		s.Wait()
	}

	require.Equal(t, 1, f.count())
	assert.True(t, f.times[0].Equal(time.Date(2024, 7, 1, 6, 40, 0, 0, van)), f.times[0])
}

func TestTick_HelsinkiAcrossDST(t *testing.T) {
	tests := []struct {
		name  string
		at    time.Time
		fires bool
	}{
		{"winter 08:00 EET", time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC), true},
		{"winter 07:00 EET", time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC), false},
		{"summer 08:00 EEST", time.Date(2024, 7, 15, 5, 0, 0, 0, time.UTC), true},
		{"summer 09:00 EEST", time.Date(2024, 7, 15, 6, 0, 0, 0, time.UTC), false},
		{"day of switch", time.Date(2024, 3, 31, 5, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clk := newTestScheduler(t, tt.at)
			f := &firings{clk: clk}
			require.NoError(t, s.Register(Job{ID: "morning_medicine_reminder", Recurrence: Daily(8, 0, helsinki), Action: f.action}))
			s.Tick(tt.at)
			s.Wait()
			assert.Equal(t, tt.fires, f.count() == 1)
		})
	}
}

func TestTick_FallBackHourRepeats(t *testing.T) {
	// Vancouver leaves DST on 2024-11-03; 01:30 local happens twice.
	s, clk := newTestScheduler(t, time.Date(2024, 11, 3, 8, 0, 0, 0, time.UTC))
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "night", Recurrence: Daily(1, 30, vancouver), Action: f.action}))

	s.Tick(time.Date(2024, 11, 3, 8, 30, 0, 0, time.UTC)) // 01:30 PDT
	s.Tick(time.Date(2024, 11, 3, 9, 30, 0, 0, time.UTC)) // 01:30 PST
	s.Wait()
	assert.Equal(t, 2, f.count())
}

func TestTick_WeekdayFilter(t *testing.T) {
	van := mustLoad(t, vancouver)
	s, clk := newTestScheduler(t, time.Date(2024, 7, 1, 0, 0, 0, 0, van))
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "weekend_french_motivation", Recurrence: Daily(10, 0, vancouver, time.Saturday, time.Sunday), Action: f.action}))

	for day := 1; day <= 14; day++ {
		s.Tick(time.Date(2024, 7, day, 10, 0, 0, 0, van))
	}
	s.Wait()
	assert.Equal(t, 4, f.count())
}

func TestTick_NoBackfill(t *testing.T) {
	van := mustLoad(t, vancouver)
	s, clk := newTestScheduler(t, time.Date(2024, 7, 1, 6, 0, 0, 0, van))
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "j", Recurrence: Daily(6, 40, vancouver), Action: f.action}))

	s.Tick(time.Date(2024, 7, 1, 6, 39, 0, 0, van))
	s.Tick(time.Date(2024, 7, 1, 6, 41, 0, 0, van))
	s.Wait()
	assert.Zero(t, f.count())
}

func TestTick_StaleMinuteIgnored(t *testing.T) {
	s, clk := newTestScheduler(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "hourly", Recurrence: Hourly(0, "UTC"), Action: f.action}))

	s.Tick(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	s.Tick(time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC))
	s.Wait()
	assert.Equal(t, 1, f.count())
}

func TestRegister_ReplaceKeepsFiredMinute(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(t, at)
	var a, b atomic.Int32
	require.NoError(t, s.Register(Job{ID: "hourly", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { a.Add(1) }}))

	s.Tick(at)
	s.Wait()
	require.NoError(t, s.Register(Job{ID: "hourly", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { b.Add(1) }}))
	s.Tick(at.Add(10 * time.Second))
	s.Wait()
	assert.Equal(t, int32(1), a.Load())
	assert.Zero(t, b.Load())

	s.Tick(at.Add(time.Hour))
	s.Wait()
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
	assert.Len(t, s.Jobs(), 1)
}

func TestRegister_Invalid(t *testing.T) {
	s, _ := newTestScheduler(t, time.Now())
	noop := func(context.Context) {}

	err := s.Register(Job{ID: "bad", Recurrence: Daily(25, 0, vancouver), Action: noop})
	require.ErrorIs(t, err, ErrInvalidRecurrence)
	err = s.Register(Job{ID: "zone", Recurrence: Daily(6, 0, "Atlantis/Capital"), Action: noop})
	require.ErrorIs(t, err, ErrInvalidRecurrence)
	require.Error(t, s.Register(Job{Recurrence: Daily(6, 0, vancouver), Action: noop}))
	require.Error(t, s.Register(Job{ID: "no-action", Recurrence: Daily(6, 0, vancouver)}))
	assert.Empty(t, s.Jobs())
}

func TestRemove(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s, clk := newTestScheduler(t, at)
	f := &firings{clk: clk}
	require.NoError(t, s.Register(Job{ID: "hourly", Recurrence: Hourly(0, "UTC"), Action: f.action}))

	assert.True(t, s.Remove("hourly"))
	assert.False(t, s.Remove("hourly"))
	s.Tick(at)
	s.Wait()
	assert.Zero(t, f.count())
}

func TestJobs_SortedWithNext(t *testing.T) {
	van := mustLoad(t, vancouver)
	s, _ := newTestScheduler(t, time.Date(2024, 7, 1, 0, 0, 0, 0, van))
	noop := func(context.Context) {}
	require.NoError(t, s.Register(Job{ID: "b", Name: "water", Recurrence: Hourly(0, vancouver), Action: noop}))
	require.NoError(t, s.Register(Job{ID: "a", Name: "smoking", Recurrence: Daily(6, 40, vancouver), Action: noop}))

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "smoking", jobs[0].Name)
	assert.Equal(t, "40 6 * * *", jobs[0].Spec)
	assert.Equal(t, vancouver, jobs[0].Timezone)
	assert.True(t, jobs[0].Next.Equal(time.Date(2024, 7, 1, 6, 40, 0, 0, van)))
	assert.Equal(t, "b", jobs[1].ID)
	assert.True(t, jobs[1].Next.Equal(time.Date(2024, 7, 1, 1, 0, 0, 0, van)))
}

func TestTick_DoesNotWaitForActions(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(t, at)
	release := make(chan struct{})
	var other atomic.Int32
	require.NoError(t, s.Register(Job{ID: "slow", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { <-release }}))
	require.NoError(t, s.Register(Job{ID: "fast", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { other.Add(1) }}))

	done := make(chan int)
	go func() { done <- s.Tick(at) }()
	select {
	case n := <-done:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("Tick blocked on a running action")
	}
	assert.Eventually(t, func() bool { return other.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	close(release)
	s.Wait()
}

func TestTick_PanicIsRecovered(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(t, at)
	var runs, other atomic.Int32
	require.NoError(t, s.Register(Job{ID: "boom", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) {
		runs.Add(1)
		panic("catalog exploded")
	}}))
	require.NoError(t, s.Register(Job{ID: "ok", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { other.Add(1) }}))

	s.Tick(at)
	s.Wait()
	s.Tick(at.Add(time.Hour))
	s.Wait()
	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, int32(2), other.Load())
}

func TestShutdown(t *testing.T) {
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	s := New(clock.NewManual(at.Add(-30*time.Minute)), zap.NewNop())
	release := make(chan struct{})
	var after atomic.Int32
	require.NoError(t, s.Register(Job{ID: "slow", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { <-release }}))
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	require.Equal(t, 1, s.Tick(at))
	ctx := s.Shutdown()
	select {
	case <-ctx.Done():
		t.Fatal("shutdown context done while an action is still running")
	default:
	}

	require.NoError(t, s.Register(Job{ID: "late", Recurrence: Hourly(0, "UTC"), Action: func(context.Context) { after.Add(1) }}))
	assert.Zero(t, s.Tick(at.Add(time.Hour)))
	assert.Error(t, s.Start())

	close(release)
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown context never finished")
	}
	assert.Zero(t, after.Load())
}
