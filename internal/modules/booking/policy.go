package booking

import (
	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"
)

type Operation string

const (
	// OpTransition is the generic status update.
	OpTransition Operation = "transition"
	// OpCancelOwn is the customer's cancellation of their own booking.
	OpCancelOwn Operation = "cancel_own"
	// OpManage covers confirm, complete and owner-cancel.
	OpManage           Operation = "manage"
	OpEditCustomerNote Operation = "edit_customer_note"
	OpEditInternalNote Operation = "edit_internal_note"
	OpDelete           Operation = "delete"
)

// Ownership is the requester's relation to one booking.
type Ownership struct {
	// Customer: the booking was made for the requester.
	Customer bool
	// VenueOwner: the requester owns the venue of the booked room.
	VenueOwner bool
}

// Authorize is the access rule for every booking operation. Admins are unrestricted,
// owners act on bookings of their venues, customers on their own bookings.
func Authorize(op Operation, role domain.UserRole, own Ownership) error {
	if allowed(op, role, own) {
		return nil
	}
	return apperr.ErrForbidden
}

func allowed(op Operation, role domain.UserRole, own Ownership) bool {
	switch op {
	case OpCancelOwn:
		return own.Customer
	case OpDelete:
		return role == domain.RoleAdmin
	case OpEditCustomerNote:
		return role == domain.RoleAdmin || own.Customer
	}

	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleOwner:
		return own.VenueOwner
	case domain.RoleUser:
		return op == OpTransition && own.Customer
	}
	return false
}

// customerTransition narrows the table for plain customers: they may only cancel,
// and only while the booking is pending.
func customerTransition(from, to domain.BookingStatus) error {
	if to != domain.BookingCancelled {
		return apperr.ErrForbidden
	}
	if from != domain.BookingPending {
		return &apperr.TransitionError{From: string(from), To: string(to)}
	}
	return nil
}
