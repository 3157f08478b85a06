// Package events fans booking and review changes out to other services (RabbitMQ)
// and to live clients watching a room (WebSocket).
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingDeleted   = "booking.deleted"
	ReviewChanged    = "review.changed"
)

type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	RoomID      int64     `json:"room_id"`
	BookingID   int64     `json:"booking_id,omitempty"`
	ReviewID    int64     `json:"review_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
	RatingAvg   *float64  `json:"rating_avg,omitempty"`
	RatingCount *int      `json:"rating_count,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func New(typ string, roomID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		RoomID:     roomID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi delivers to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
