// Package apperr declares the error kinds shared by the booking core.
// Callers add detail with fmt.Errorf("%w: ...") and match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrCallRequired = errors.New("call_required")
	ErrInternal     = errors.New("internal")

	ErrInvalidTransition = errors.New("invalid_status_transition")

	// Availability specialisations of ErrInvalidInput.
	ErrNoSlotsConfigured  = fmt.Errorf("%w: no slots configured", ErrInvalidInput)
	ErrSlotNotOffered     = fmt.Errorf("%w: slot not offered", ErrInvalidInput)
	ErrCapacityOutOfRange = fmt.Errorf("%w: players out of range", ErrInvalidInput)
)

// TransitionError reports a status change the transition table does not allow.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Invalid wraps ErrInvalidInput with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
