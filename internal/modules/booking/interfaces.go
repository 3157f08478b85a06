package booking

import (
	"context"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/events"
	"escaperoom/internal/repository"
)

// BookingRepository defines the booking store operations the lifecycle needs
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ExistsActive(ctx context.Context, roomID int64, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error)
	UpdateNotes(ctx context.Context, id int64, customerNote, internalNote string) (*domain.Booking, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListForOwner(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
}

// RoomRepository returns bookable rooms only
type RoomRepository interface {
	GetActive(ctx context.Context, id int64) (*domain.Room, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// OwnershipResolver resolves the owner of the venue a room belongs to
type OwnershipResolver interface {
	OwnerOfRoom(ctx context.Context, roomID int64) (int64, error)
}

// EventPublisher receives booking changes after they are stored
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
