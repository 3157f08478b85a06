package slots

import (
	"testing"
	"time"

	"escaperoom/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cal = Calendar{
	WeekSlots:    []string{"10:00", "14:00"},
	WeekendSlots: []string{"11:00"},
}

func TestDayTypeOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want DayType
	}{
		{time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), DayWeek},    // Monday
		{time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC), DayWeek},  // Friday
		{time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), DayWeekend}, // Saturday
		{time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC), DayWeekend}, // Sunday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DayTypeOf(tt.date), tt.date.Weekday().String())
	}
}

func TestSlotsFor(t *testing.T) {
	dt, set, err := cal.SlotsFor(time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, DayWeek, dt)
	assert.Equal(t, []string{"10:00", "14:00"}, set)

	dt, set, err = cal.SlotsFor(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, DayWeekend, dt)
	assert.Equal(t, []string{"11:00"}, set)
}

func TestSlotsFor_NoSlotsConfigured(t *testing.T) {
	c := Calendar{WeekSlots: []string{"10:00"}}

	dt, _, err := c.SlotsFor(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, DayWeekend, dt)
	assert.ErrorIs(t, err, apperr.ErrNoSlotsConfigured)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOffers_ExactMatch(t *testing.T) {
	tuesday := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)

	ok, err := cal.Offers(tuesday, "14:00")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, s := range []string{"14:0", "14:00:00", "2:00", "11:00", " 14:00"} {
		ok, err := cal.Offers(tuesday, s)
		require.NoError(t, err)
		assert.False(t, ok, s)
	}
}

func TestOffers_IsPure(t *testing.T) {
	saturday := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	first, err1 := cal.Offers(saturday, "11:00")
	second, err2 := cal.Offers(saturday, "11:00")
	assert.Equal(t, first, second)
	assert.Equal(t, err1, err2)
}

func TestOffersAt(t *testing.T) {
	tests := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2026, 10, 13, 14, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 10, 13, 14, 0, 30, 0, time.UTC), false},
		{time.Date(2026, 10, 13, 14, 0, 0, 1, time.UTC), false},
		{time.Date(2026, 10, 13, 14, 1, 0, 0, time.UTC), false},
		{time.Date(2026, 10, 17, 11, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		got, err := cal.OffersAt(tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.at.String())
	}
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	day := time.Date(2026, 10, 13, 18, 45, 0, 0, loc)

	got, err := At(day, "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 13, 9, 30, 0, 0, loc), got)
	assert.Equal(t, "09:30", ClockOf(got))

	for _, bad := range []string{"9:30", "0930", "25:00", "aa:bb", ""} {
		_, err := At(day, bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, bad)
	}
}

func TestValidateSet(t *testing.T) {
	assert.NoError(t, ValidateSet([]string{"10:00", "23:59"}))
	assert.Error(t, ValidateSet([]string{"10:00", "24:00"}))
}
