package model

import "time"

// AvailabilityPeriod mirrors the 'availability_periods' table — one labeled
// date interval in a vehicle's ledger.  Two flavors exist:
//
//   - open windows: IsAvailable=true, BookingID nil, created by admins when
//     the vehicle is put up for rental;
//   - blocks: IsAvailable=false, BookingID set, carved out automatically
//     when a booking is confirmed and removed when it is canceled or deleted.
//
// Rows are addressed by their own id or by the owning booking id, never by
// value equality on the dates, so an admin editing a window can never strand
// a block.  Periods are appended, not merged; overlapping open windows are
// tolerated.
type AvailabilityPeriod struct {
	ID          uint64    `json:"id"`
	VehicleID   uint64    `json:"vehicle_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsAvailable bool      `json:"is_available"`
	BookingID   *uint64   `json:"booking_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
