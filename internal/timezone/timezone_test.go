package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.False(t, IsValid(""))
}

func TestParseInstant(t *testing.T) {
	got, err := ParseInstant("2025-03-01T10:00:00Z", "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), got)

	got, err = ParseInstant("2025-03-01T10:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC), got)

	_, err = ParseInstant("tomorrow", "UTC")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	loc := Location("America/New_York")
	start, end := DayBounds(time.Date(2025, 3, 4, 13, 45, 0, 0, loc))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), end)
}
