// Package availability projects the slots of a room on one date onto its bookings.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"
	"escaperoom/internal/slots"
)

const DateLayout = "2006-01-02"

type Service struct {
	rooms    RoomReader
	bookings BookingReader
	loc      *time.Location
	window   time.Duration
	now      func() time.Time
}

// NewService interprets dates in loc and flags slots closer than window as call-required.
// A non-positive window falls back to the default lead time.
func NewService(rooms RoomReader, bookings BookingReader, loc *time.Location, window time.Duration) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		rooms:    rooms,
		bookings: bookings,
		loc:      loc,
		window:   domain.CallRequiredWindow(window),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetAvailability lists every slot of the room on date with its booking state.
// A day without configured slots yields an empty list.
func (s *Service) GetAvailability(ctx context.Context, roomID int64, date string) (*Result, error) {
	room, err := s.rooms.GetActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation(DateLayout, date, s.loc)
	if err != nil {
		return nil, apperr.Invalid("date must be YYYY-MM-DD")
	}

	res := &Result{RoomID: room.ID, Date: date, Slots: []Slot{}}

	dayType, set, err := slots.ForRoom(room).SlotsFor(day)
	res.DayType = dayType
	if errors.Is(err, apperr.ErrNoSlotsConfigured) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	held, err := s.bookings.ActiveTimesBetween(ctx, room.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	taken := make(map[int64]struct{}, len(held))
	for _, t := range held {
		taken[t.Unix()] = struct{}{}
	}

	now := s.now()
	for _, slot := range set {
		at, err := slots.At(day, slot)
		if err != nil {
			return nil, err
		}
		// wall time skipped by a DST jump
		if slots.ClockOf(at) != slot {
			continue
		}
		diff := at.Sub(now)
		_, booked := taken[at.Unix()]

		res.Slots = append(res.Slots, Slot{
			Slot:         slot,
			ScheduledAt:  at,
			Available:    !booked && diff > 0,
			CallRequired: diff > 0 && diff < s.window,
		})
	}
	return res, nil
}
