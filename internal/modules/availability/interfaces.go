package availability

import (
	"context"
	"time"

	"escaperoom/internal/domain"
)

// RoomReader returns active rooms only; inactive or missing rooms are apperr.ErrNotFound.
type RoomReader interface {
	GetActive(ctx context.Context, id int64) (*domain.Room, error)
}

// BookingReader lists the timestamps held by pending or confirmed bookings in [from, to).
type BookingReader interface {
	ActiveTimesBetween(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error)
}
