package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses hold a slot; at most one booking per (room, scheduled_at) may be in them.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// DefaultCallRequiredWindow is the lead time under which customers must phone the venue.
const DefaultCallRequiredWindow = 12 * time.Hour

// CallRequiredWindow returns d, or the default when d is not positive.
func CallRequiredWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultCallRequiredWindow
	}
	return d
}

const (
	MaxCustomerNoteLen = 500
	MaxInternalNoteLen = 1000
)

type Booking struct {
	ID              int64         `json:"id"`
	RoomID          int64         `json:"room_id"`
	UserID          int64         `json:"user_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	Players         int           `json:"players"`
	Status          BookingStatus `json:"status"`
	CustomerNote    string        `json:"customer_note"`
	InternalNote    string        `json:"internal_note,omitempty"`
	CreatedByUserID int64         `json:"created_by_user_id"`
	CreatedByRole   UserRole      `json:"created_by_role"`
	ConfirmedAt     *time.Time    `json:"confirmed_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
	IsDeleted       bool          `json:"-"`
	DeletedAt       *time.Time    `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
