package booking

import (
	"fmt"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// allowedTransitions is the explicit state machine for booking statuses.
// Bookings are created directly as confirmed (the pending state exists for
// clients that stage a booking before payment), and both live states can be
// canceled.  Canceled is terminal.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCanceled},
	model.StatusConfirmed: {model.StatusCanceled},
	model.StatusCanceled:  {},
}

// ValidStatus reports whether s names a known booking status.
func ValidStatus(s model.BookingStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether from -> to is a legal status change.
// A no-op transition to the current status is always allowed.
func CanTransition(from, to model.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition wraps CanTransition with the error callers surface:
// unknown target statuses are invalid input, known-but-illegal moves
// (e.g. confirmed -> pending) are conflicts.
func checkTransition(from, to model.BookingStatus) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: illegal status transition %s -> %s", ErrConflict, from, to)
	}
	return nil
}
