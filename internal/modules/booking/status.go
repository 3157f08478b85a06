package booking

import (
	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"
)

// transitions lists the legal next states of every status. Terminal states map to nothing.
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingCompleted, domain.BookingCancelled},
	domain.BookingCancelled: {},
	domain.BookingCompleted: {},
}

// CanTransition reports whether from -> to is in the table. Same-status moves are not.
func CanTransition(from, to domain.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns a *apperr.TransitionError for moves outside the table.
func checkTransition(from, to domain.BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return &apperr.TransitionError{From: string(from), To: string(to)}
}

func IsTerminal(s domain.BookingStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
