package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIn_AppliesDST(t *testing.T) {
	// 16:00 UTC is 08:00 PST in January and 09:00 PDT in July.
	winter, err := In(time.Date(2024, time.January, 15, 16, 0, 0, 0, time.UTC), "America/Vancouver")
	require.NoError(t, err)
	assert.Equal(t, 8, winter.Hour)

	summer, err := In(time.Date(2024, time.July, 15, 16, 0, 0, 0, time.UTC), "America/Vancouver")
	require.NoError(t, err)
	assert.Equal(t, 9, summer.Hour)
}

func TestIn_CrossesDateLine(t *testing.T) {
	c, err := In(time.Date(2024, time.March, 4, 23, 30, 0, 0, time.UTC), "Europe/Helsinki")
	require.NoError(t, err)
	assert.Equal(t, Civil{Year: 2024, Month: time.March, Day: 5, Hour: 1, Minute: 30, Weekday: time.Tuesday}, c)
}

func TestIn_UnknownZone(t *testing.T) {
	_, err := In(time.Now(), "Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestLocation_Cached(t *testing.T) {
	a, err := Location("Europe/Helsinki")
	require.NoError(t, err)
	b, err := Location("Europe/Helsinki")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestManual(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)
	assert.Equal(t, start, m.Now())
	assert.Equal(t, start.Add(time.Minute), m.Advance(time.Minute))
	m.Set(start)
	assert.Equal(t, start, m.Now())
}
