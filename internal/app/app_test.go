package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chris/nudge/config"
	"github.com/chris/nudge/internal/catalog"
	"github.com/chris/nudge/internal/clock"
	"github.com/chris/nudge/internal/counter"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		UserID:            1,
		MomUserID:         3,
		LLMProvider:       "openai",
		MaxContextTokens:  8000,
		RunMode:           "polling",
		DatabasePath:      filepath.Join(dir, "nudge.db"),
		CounterBackend:    "sqlite",
		CounterFile:       filepath.Join(dir, "counter.json"),
		SmokingTZ:         "America/Vancouver",
		WaterTZ:           "America/Vancouver",
		MedicineTZ:        "Europe/Helsinki",
		FrenchTZ:          "America/Vancouver",
		CigarettesPerDay:  20,
		CigarettesPerPack: 20,
		PricePerPack:      22,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	return newTestAppAt(t, cfg, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
}

func newTestAppAt(t *testing.T, cfg *config.Config, at time.Time) *App {
	t.Helper()
	clk := clock.NewManual(at)
	a, err := newApp(cfg, zaptest.NewLogger(t), clk, catalog.NewSeededSelector(7))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.SmokingTZ = "Mars/Olympus"
	_, err := newApp(cfg, zaptest.NewLogger(t), clock.System{}, catalog.NewSeededSelector(1))
	assert.Error(t, err)
}

func TestJobs_ListsEnabledFamilies(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	var out bytes.Buffer

	require.NoError(t, a.Jobs(&out))

	got := out.String()
	assert.Contains(t, got, "daily_smoking_reminder")
	assert.Contains(t, got, "2024-07-01 06:40 PDT")
	assert.Contains(t, got, "morning_medicine_reminder")
	assert.Contains(t, got, "Europe/Helsinki")
	assert.Contains(t, got, "weekly_french_progress")
	// LINA_USER_ID unset: no water jobs.
	assert.NotContains(t, got, "water")
}

func TestStats(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	var out bytes.Buffer

	require.NoError(t, a.Stats(context.Background(), &out))

	assert.Contains(t, out.String(), "📊 Текущая статистика курения:")
	assert.NotContains(t, out.String(), "Бот запущен")
	assert.Contains(t, out.String(), "🕒 Текущее время: 05:00:00")
}

func TestSend_DryRunRecordsNothing(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	var out bytes.Buffer

	require.NoError(t, a.Send(context.Background(), "medicine", 0, true, &out))
	require.NoError(t, a.Send(context.Background(), "smoking", 0, true, &out))
	assert.Contains(t, out.String(), "-> 3\n")
	assert.Contains(t, out.String(), "-> 1\n")

	rows, err := a.db.ListDeliveries(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = a.store.Get(context.Background())
	assert.ErrorIs(t, err, counter.ErrNotFound)
}

func TestSend_DryRunLeavesCounterUntouched(t *testing.T) {
	cfg := testConfig(t)
	cfg.CounterTZ = "UTC"
	a := newTestApp(t, cfg)
	ctx := context.Background()
	before := counter.Record{StartDate: "2024-01-01", CreatedAt: "2024-01-01T00:00:00Z"}
	require.NoError(t, a.store.Put(ctx, before))

	var out bytes.Buffer
	require.NoError(t, a.Send(ctx, "smoking", 0, true, &out))
	assert.Contains(t, out.String(), "Статистика за 183 дней")

	after, err := a.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSend_Override(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	var out bytes.Buffer

	require.NoError(t, a.Send(context.Background(), "water", 42, true, &out))
	assert.Contains(t, out.String(), "-> 42\n")
}

func TestSend_NoRecipient(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	err := a.Send(context.Background(), "water", 0, true, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient")
}

func TestSend_UnknownFamily(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	err := a.Send(context.Background(), "yoga", 5, true, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestCounter_HostLocalDayByDefault(t *testing.T) {
	prev := time.Local
	time.Local = time.UTC
	t.Cleanup(func() { time.Local = prev })

	// 03:00 UTC on Jan 10 is still Jan 9 in Vancouver.
	at := time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
	a := newTestAppAt(t, testConfig(t), at)
	require.NoError(t, a.store.Put(context.Background(), counter.Record{StartDate: "2024-01-01"}))
	assert.Equal(t, 10, a.tracker.Calculate(context.Background()).Days)

	cfg := testConfig(t)
	cfg.CounterTZ = "America/Vancouver"
	b := newTestAppAt(t, cfg, at)
	require.NoError(t, b.store.Put(context.Background(), counter.Record{StartDate: "2024-01-01"}))
	assert.Equal(t, 9, b.tracker.Calculate(context.Background()).Days)
}

func TestNew_BadCounterTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.CounterTZ = "Nowhere/Town"
	_, err := newApp(cfg, zaptest.NewLogger(t), clock.System{}, catalog.NewSeededSelector(1))
	assert.Error(t, err)
}

func TestJobs_ScheduleOverrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedules = config.Schedules{
		"daily_smoking_reminder": "30 7 * * *",
		"weekly_french_progress": "off",
	}
	a := newTestApp(t, cfg)
	var out bytes.Buffer

	require.NoError(t, a.Jobs(&out))

	got := out.String()
	assert.Contains(t, got, "2024-07-01 07:30 PDT")
	assert.NotContains(t, got, "06:40")
	assert.NotContains(t, got, "weekly_french_progress")
	assert.Contains(t, got, "daily_french_reminder")
}
