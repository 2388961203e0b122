// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names the booking events are published to.  Each event goes to its
// own durable queue on the default exchange.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCanceledQueue  = "booking.canceled"
)

// BookingConfirmedEvent is published when a booking is successfully created.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	VehicleID       uint64 `json:"vehicle_id"`
	Vehicle         string `json:"vehicle"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalPriceCents int64  `json:"total_price_cents"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// BookingCanceledEvent is published when a booking is canceled or deleted
// and its blocked date range becomes bookable again.
type BookingCanceledEvent struct {
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	VehicleID  uint64 `json:"vehicle_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CanceledAt string `json:"canceled_at"`
}
