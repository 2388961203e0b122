package booking

import (
	"context"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// Store is the persistence boundary of the booking core.  The production
// implementation lives in internal/repository and runs fn inside a MySQL
// transaction; tests substitute an in-memory fake.
type Store interface {
	// InTx runs fn against a transaction-scoped view and commits when fn
	// returns nil.  Any error from fn rolls the transaction back and is
	// returned unchanged.  Implementations translate storage contention
	// (deadlock, lock wait timeout, deadline exceeded) into errors that
	// wrap ErrTransient.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is a single transaction over bookings and the availability ledger.
// LockVehicle must serialize concurrent transactions touching the same
// vehicle: two overlapping booking attempts may both begin, but the second
// must not run its availability checks until the first has committed or
// rolled back.  That lock is what turns check-then-write into an atomic
// step.
type Tx interface {
	// LockVehicle loads the vehicle row under an exclusive lock held until
	// the transaction ends.  Returns an error wrapping ErrNotFound when the
	// vehicle does not exist.
	LockVehicle(ctx context.Context, vehicleID uint64) (*model.Vehicle, error)

	// CountBlockingPeriods counts ledger rows with is_available=false whose
	// range overlaps r.
	CountBlockingPeriods(ctx context.Context, vehicleID uint64, r DateRange) (int, error)

	// CountLiveBookings counts non-canceled bookings on the vehicle whose
	// range overlaps r.
	CountLiveBookings(ctx context.Context, vehicleID uint64, r DateRange) (int, error)

	// InsertBooking persists b and fills in its generated ID.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// InsertPeriod appends a ledger row and fills in its generated ID.
	InsertPeriod(ctx context.Context, p *model.AvailabilityPeriod) error

	// BookingByID loads a booking or returns an error wrapping ErrNotFound.
	BookingByID(ctx context.Context, id uint64) (*model.Booking, error)

	// SetBookingStatus updates the status column of an existing booking.
	SetBookingStatus(ctx context.Context, id uint64, s model.BookingStatus) error

	// DeleteBooking removes the booking row.
	DeleteBooking(ctx context.Context, id uint64) error

	// DeletePeriodsByBooking removes the ledger rows carved out by the given
	// booking and reports how many were removed.  Rows without a booking
	// reference (open windows) are never touched.
	DeletePeriodsByBooking(ctx context.Context, bookingID uint64) (int64, error)
}
