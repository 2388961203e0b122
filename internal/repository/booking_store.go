package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/vehicle-rental-booking/internal/booking"
	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// MySQL error numbers that indicate lock contention rather than a broken
// request.  Both are safe to retry once the losing transaction has been
// rolled back.
const (
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
)

// BookingStore is the MySQL implementation of booking.Store.  Each InTx call
// is one transaction; the vehicle row lock taken by LockVehicle (SELECT ...
// FOR UPDATE) serializes concurrent booking attempts on the same vehicle so
// the overlap checks and the inserts behave as a single atomic step.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore returns a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx begins a transaction, runs fn against it and commits when fn returns
// nil.  Contention and deadline errors are rewrapped as booking.ErrTransient
// so the service layer can retry them.
func (s *BookingStore) InTx(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	committed = true
	return nil
}

// classify rewraps storage-level contention as booking.ErrTransient and
// passes every other error through untouched, preserving any taxonomy
// sentinel already wrapped by the caller.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number == mysqlErrLockDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout {
			return fmt.Errorf("%w: %v", booking.ErrTransient, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", booking.ErrTransient, err)
	}
	return err
}

// bookingTx implements booking.Tx over an open *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) LockVehicle(ctx context.Context, vehicleID uint64) (*model.Vehicle, error) {
	const q = `SELECT id, kind, make, model, year, transmission, fuel_type, seats, capacity,
		price_per_day_cents, location_id, image, created_at, updated_at
		FROM vehicles WHERE id = ? FOR UPDATE`
	v, err := scanVehicle(t.tx.QueryRowContext(ctx, q, vehicleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: vehicle %d", booking.ErrNotFound, vehicleID)
		}
		return nil, err
	}
	return v, nil
}

func (t *bookingTx) CountBlockingPeriods(ctx context.Context, vehicleID uint64, r booking.DateRange) (int, error) {
	// Inclusive-inclusive interval test: [s1,e1] and [s2,e2] overlap iff
	// s1 <= e2 AND e1 >= s2.
	const q = `SELECT COUNT(*) FROM availability_periods
		WHERE vehicle_id = ? AND is_available = 0 AND start_date <= ? AND end_date >= ?`
	var n int
	err := t.tx.QueryRowContext(ctx, q, vehicleID, r.End, r.Start).Scan(&n)
	return n, err
}

func (t *bookingTx) CountLiveBookings(ctx context.Context, vehicleID uint64, r booking.DateRange) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE vehicle_id = ? AND status <> 'canceled' AND start_date <= ? AND end_date >= ?`
	var n int
	err := t.tx.QueryRowContext(ctx, q, vehicleID, r.End, r.Start).Scan(&n)
	return n, err
}

func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, vehicle_id, start_date, end_date, total_price_cents, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, b.UserID, b.VehicleID, b.StartDate, b.EndDate, b.TotalPriceCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (t *bookingTx) InsertPeriod(ctx context.Context, p *model.AvailabilityPeriod) error {
	const q = `INSERT INTO availability_periods (vehicle_id, start_date, end_date, is_available, booking_id)
		VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, p.VehicleID, p.StartDate, p.EndDate, p.IsAvailable, p.BookingID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (t *bookingTx) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, vehicle_id, start_date, end_date, total_price_cents, status, created_at, updated_at
		FROM bookings WHERE id = ?`
	var b model.Booking
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.VehicleID, &b.StartDate, &b.EndDate,
		&b.TotalPriceCents, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", booking.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

func (t *bookingTx) SetBookingStatus(ctx context.Context, id uint64, s model.BookingStatus) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, s, id)
	return err
}

func (t *bookingTx) DeleteBooking(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

func (t *bookingTx) DeletePeriodsByBooking(ctx context.Context, bookingID uint64) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM availability_periods WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
