package wallclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	t.Parallel()

	got, err := ParseDateTime("2024-05-17", "19:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 17, 19, 30, 0, 0, time.UTC), got)

	_, err = ParseDateTime("17.05.2024", "19:30")
	require.Error(t, err)

	_, err = ParseDateTime("2024-05-17", "7pm")
	require.Error(t, err)
}

func TestAddMinutesAndFormat(t *testing.T) {
	t.Parallel()

	start, err := ParseDateTime("2024-05-17", "19:00")
	require.NoError(t, err)

	assert.Equal(t, "21:00", FormatTime(AddMinutes(start, 120)))
	assert.Equal(t, "21:01", FormatTime(AddMinutes(start, 121)))
	assert.Equal(t, "18:30", FormatTime(AddMinutes(start, -30)))
	assert.Equal(t, "2024-05-18", FormatDate(AddMinutes(start, 6*60)))
}

func TestWithinIntervalIsInclusive(t *testing.T) {
	t.Parallel()

	start, _ := ParseDateTime("2024-05-17", "19:00")
	end, _ := ParseDateTime("2024-05-17", "21:00")

	tests := []struct {
		clock string
		want  bool
	}{
		{"18:59", false},
		{"19:00", true},
		{"20:00", true},
		{"21:00", true},
		{"21:01", false},
	}
	for _, tt := range tests {
		probe, err := ParseDateTime("2024-05-17", tt.clock)
		require.NoError(t, err)
		assert.Equal(t, tt.want, WithinInterval(probe, start, end), tt.clock)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidDate("2024-02-29"))
	assert.False(t, ValidDate("2023-02-29"))
	assert.False(t, ValidDate("2024-2-9"))

	assert.True(t, ValidTime("06:00"))
	assert.False(t, ValidTime("6:00"))
	assert.False(t, ValidTime("24:00"))

	assert.True(t, WithinBusinessHours("06:00"))
	assert.True(t, WithinBusinessHours("22:00"))
	assert.False(t, WithinBusinessHours("05:59"))
	assert.False(t, WithinBusinessHours("22:01"))
}

func TestInKeepsWallClock(t *testing.T) {
	t.Parallel()

	istanbul := time.FixedZone("TRT", 3*60*60)
	now := time.Date(2024, time.May, 17, 16, 0, 0, 0, time.UTC) // 19:00 in Istanbul

	got := In(now, istanbul)
	assert.Equal(t, "19:00", FormatTime(got))
	assert.Equal(t, "2024-05-17", FormatDate(got))
}
