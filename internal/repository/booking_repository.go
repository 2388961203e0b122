package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// BookingRepo serves the read side of bookings: the listings shown to
// customers and admins.  All mutations go through BookingStore so they stay
// transactional with the ledger.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a booking joined with its vehicle for display.
type BookingDetail struct {
	ID              uint64              `json:"id"`
	UserID          uint64              `json:"user_id"`
	VehicleID       uint64              `json:"vehicle_id"`
	Vehicle         string              `json:"vehicle"`
	VehicleKind     model.VehicleKind   `json:"vehicle_kind"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	TotalPriceCents int64               `json:"total_price_cents"`
	Status          model.BookingStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

const bookingDetailQuery = `SELECT b.id, b.user_id, b.vehicle_id,
	CONCAT(v.make, ' ', v.model), v.kind,
	b.start_date, b.end_date, b.total_price_cents, b.status, b.created_at
	FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id`

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.VehicleID, &d.Vehicle, &d.VehicleKind,
			&d.StartDate, &d.EndDate, &d.TotalPriceCents, &d.Status, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, bookingDetailQuery+` WHERE b.user_id = ? ORDER BY b.created_at DESC`, userID)
}

// ListByVehicle returns every booking on a vehicle, newest first.  Admin
// surface: customers never see other users' bookings.
func (r *BookingRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, bookingDetailQuery+` WHERE b.vehicle_id = ? ORDER BY b.created_at DESC`, vehicleID)
}
