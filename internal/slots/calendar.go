// Package slots derives the bookable time slots of a room for a calendar date.
//
// Dates and "HH:mm" strings are taken as wall-clock values in the location of the
// time.Time passed in; no timezone conversion happens here.
package slots

import (
	"fmt"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"
)

type DayType string

const (
	DayWeek    DayType = "week"
	DayWeekend DayType = "weekend"
)

const clockLayout = "15:04"

// Calendar holds the two slot policies of a room.
type Calendar struct {
	WeekSlots    []string
	WeekendSlots []string
}

func ForRoom(r *domain.Room) Calendar {
	return Calendar{WeekSlots: r.WeekSlots, WeekendSlots: r.WeekendSlots}
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func DayTypeOf(date time.Time) DayType {
	if IsWeekend(date) {
		return DayWeekend
	}
	return DayWeek
}

// SlotsFor returns the ordered slot set that applies on date.
func (c Calendar) SlotsFor(date time.Time) (DayType, []string, error) {
	dt := DayTypeOf(date)
	set := c.WeekSlots
	if dt == DayWeekend {
		set = c.WeekendSlots
	}
	if len(set) == 0 {
		return dt, nil, apperr.ErrNoSlotsConfigured
	}
	return dt, set, nil
}

// Offers reports whether hhmm is one of the slots that apply on date. Matching is exact.
func (c Calendar) Offers(date time.Time, hhmm string) (bool, error) {
	_, set, err := c.SlotsFor(date)
	if err != nil {
		return false, err
	}
	for _, s := range set {
		if s == hhmm {
			return true, nil
		}
	}
	return false, nil
}

// OffersAt reports whether at is exactly the instant of a slot on its own day: the wall
// clock must be in the day's set and seconds must be zero.
func (c Calendar) OffersAt(at time.Time) (bool, error) {
	hhmm := ClockOf(at)
	ok, err := c.Offers(at, hhmm)
	if err != nil || !ok {
		return false, err
	}
	want, err := At(at, hhmm)
	if err != nil {
		return false, err
	}
	return at.Equal(want), nil
}

// ClockOf formats the wall-clock time of t as zero-padded "HH:mm".
func ClockOf(t time.Time) string {
	return t.Format(clockLayout)
}

// At builds the timestamp of slot on the calendar day of date, in date's location.
// A wall time that does not exist on that day (DST gap) is normalised by time.Date, so
// ClockOf(result) differs from slot.
func At(date time.Time, slot string) (time.Time, error) {
	if len(slot) != len(clockLayout) || slot[2] != ':' {
		return time.Time{}, fmt.Errorf("%w: slot %q is not HH:mm", apperr.ErrInvalidInput, slot)
	}
	t, err := time.Parse(clockLayout, slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: slot %q is not HH:mm", apperr.ErrInvalidInput, slot)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// ValidateSet checks that every entry is a well-formed "HH:mm" string.
func ValidateSet(set []string) error {
	for _, s := range set {
		if _, err := At(time.Time{}, s); err != nil {
			return err
		}
	}
	return nil
}
