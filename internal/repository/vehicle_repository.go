package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/vehicle-rental-booking/internal/booking"
	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// VehicleRepo provides CRUD and search over the vehicles table.  Booking
// creation never goes through this repo — the transactional path lives in
// BookingStore — so nothing here takes row locks.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleColumns = `id, kind, make, model, year, transmission, fuel_type, seats, capacity,
	price_per_day_cents, location_id, image, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(rs rowScanner) (*model.Vehicle, error) {
	var (
		v        model.Vehicle
		seats    sql.NullInt64
		capacity sql.NullString
	)
	err := rs.Scan(
		&v.ID, &v.Kind, &v.Make, &v.Model, &v.Year, &v.Transmission, &v.FuelType,
		&seats, &capacity, &v.PricePerDayCents, &v.LocationID, &v.Image,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if seats.Valid {
		n := int(seats.Int64)
		v.Seats = &n
	}
	if capacity.Valid {
		c := capacity.String
		v.Capacity = &c
	}
	return &v, nil
}

// Create inserts a vehicle and populates its generated ID.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `INSERT INTO vehicles
		(kind, make, model, year, transmission, fuel_type, seats, capacity, price_per_day_cents, location_id, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		v.Kind, v.Make, v.Model, v.Year, v.Transmission, v.FuelType,
		v.Seats, v.Capacity, v.PricePerDayCents, v.LocationID, v.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches one vehicle, optionally constrained to a kind so that
// /v1/cars/:id cannot fetch a truck and vice versa.  Pass an empty kind to
// skip the constraint.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64, kind model.VehicleKind) (*model.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`
	args := []any{id}
	if kind != "" {
		q += ` AND kind = ?`
		args = append(args, kind)
	}
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// Update overwrites the mutable columns of a vehicle.  Returns
// ErrVehicleNotFound when no row matches.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	const q = `UPDATE vehicles SET make = ?, model = ?, year = ?, transmission = ?, fuel_type = ?,
		seats = ?, capacity = ?, price_per_day_cents = ?, location_id = ?, image = ?
		WHERE id = ? AND kind = ?`
	res, err := r.db.ExecContext(ctx, q,
		v.Make, v.Model, v.Year, v.Transmission, v.FuelType,
		v.Seats, v.Capacity, v.PricePerDayCents, v.LocationID, v.Image,
		v.ID, v.Kind)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, v.ID, v.Kind); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vehicle unless non-canceled bookings still reference it,
// in which case it returns ErrVehicleInUse.  Ledger rows go with the vehicle
// via the FK cascade.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64, kind model.VehicleKind) error {
	var live int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE vehicle_id = ? AND status <> 'canceled'`, id).Scan(&live)
	if err != nil {
		return err
	}
	if live > 0 {
		return ErrVehicleInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ? AND kind = ?`, id, kind)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// SearchAvailable returns vehicles of the given kind at a location that can
// serve the requested range: an open ledger window must contain the range,
// and neither a ledger block nor a live booking may overlap it.  This is the
// read-side counterpart of the overlap detector; it never locks anything, so
// a hit here is only a hint that booking creation will re-verify under lock.
func (r *VehicleRepo) SearchAvailable(ctx context.Context, kind model.VehicleKind, locationID uint64, rng booking.DateRange) ([]model.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles v
		WHERE v.kind = ? AND v.location_id = ?
		AND EXISTS (
			SELECT 1 FROM availability_periods w
			WHERE w.vehicle_id = v.id AND w.is_available = 1
			AND w.start_date <= ? AND w.end_date >= ?
		)
		AND NOT EXISTS (
			SELECT 1 FROM availability_periods p
			WHERE p.vehicle_id = v.id AND p.is_available = 0
			AND p.start_date <= ? AND p.end_date >= ?
		)
		AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = v.id AND b.status <> 'canceled'
			AND b.start_date <= ? AND b.end_date >= ?
		)
		ORDER BY v.id`
	rows, err := r.db.QueryContext(ctx, q, kind, locationID,
		rng.Start, rng.End, // open window must contain [start, end]
		rng.End, rng.Start, // block overlap
		rng.End, rng.Start, // booking overlap
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// ListByKind returns every vehicle of a kind, optionally filtered by
// location.  Used by the unfiltered public listings.
func (r *VehicleRepo) ListByKind(ctx context.Context, kind model.VehicleKind, locationID uint64) ([]model.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE kind = ?`
	args := []any{kind}
	if locationID != 0 {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
