// Package booking implements the reservation core: the availability ledger,
// the overlap detector, the booking state machine and pricing.  Handlers stay
// thin and translate the sentinel errors defined here into HTTP responses;
// nothing in this package knows about Echo or JSON.
package booking

import "errors"

// Every failure the core can produce wraps exactly one of these sentinels so
// callers can classify outcomes with errors.Is.  Handlers map them to
// 404 / 409 / 403 / 400 / 503 respectively.
var (
	// ErrNotFound means the vehicle or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means the requested range collides with a ledger block or
	// another live booking, or a status change is not a legal transition.
	ErrConflict = errors.New("conflict")

	// ErrForbidden means the caller is neither the booking owner nor an admin.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput covers malformed dates, inverted ranges and missing fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransient marks storage contention (deadlock, lock wait timeout,
	// deadline exceeded).  The service retries these a bounded number of
	// times before letting the caller see one.
	ErrTransient = errors.New("transient storage error")
)
