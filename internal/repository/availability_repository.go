package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// AvailabilityRepo manages the availability ledger rows that admins touch
// directly: open windows and, in maintenance situations, booking blocks.
// The automatic block lifecycle (carve on create, free on cancel/delete)
// bypasses this repo and runs inside BookingStore transactions.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo returns an AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

const periodColumns = `id, vehicle_id, start_date, end_date, is_available, booking_id, created_at`

func scanPeriod(rs rowScanner) (*model.AvailabilityPeriod, error) {
	var (
		p         model.AvailabilityPeriod
		bookingID sql.NullInt64
	)
	err := rs.Scan(&p.ID, &p.VehicleID, &p.StartDate, &p.EndDate, &p.IsAvailable, &bookingID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		id := uint64(bookingID.Int64)
		p.BookingID = &id
	}
	return &p, nil
}

// ListByVehicle returns a vehicle's full ledger ordered by start date.
func (r *AvailabilityRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]model.AvailabilityPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+periodColumns+` FROM availability_periods WHERE vehicle_id = ? ORDER BY start_date, id`,
		vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.AvailabilityPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID fetches a single ledger row.
func (r *AvailabilityRepo) GetByID(ctx context.Context, id uint64) (*model.AvailabilityPeriod, error) {
	p, err := scanPeriod(r.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM availability_periods WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create appends a ledger row.  Admin-created rows carry no booking
// reference; periods are appended as-is and never merged with neighbours.
func (r *AvailabilityRepo) Create(ctx context.Context, p *model.AvailabilityPeriod) error {
	const q = `INSERT INTO availability_periods (vehicle_id, start_date, end_date, is_available, booking_id)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.VehicleID, p.StartDate, p.EndDate, p.IsAvailable, p.BookingID)
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

// Update rewrites the dates and flag of an existing row, addressed by its
// stable id.  Editing a booking-owned block is allowed (maintenance
// override) and does not detach it from its booking: cancellation still
// finds the block by booking id regardless of what the dates say now.
func (r *AvailabilityRepo) Update(ctx context.Context, id uint64, start, end time.Time, isAvailable bool) (*model.AvailabilityPeriod, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE availability_periods SET start_date = ?, end_date = ?, is_available = ? WHERE id = ?`,
		start, end, isAvailable, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		// Zero rows affected is ambiguous (missing vs. unchanged); resolve
		// with a lookup.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a ledger row by id.
func (r *AvailabilityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM availability_periods WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPeriodNotFound
	}
	return nil
}
