package model

import "time"

// BookingStatus enumerates the booking lifecycle states.  The legal
// transitions between them live in the booking package's transition table;
// this type only names the states as persisted in the status column.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

// Booking mirrors the 'bookings' table.  Dates are day-granularity closed
// intervals stored as DATE columns and normalized to midnight UTC in Go.
// TotalPriceCents is a snapshot taken at creation time and is never
// recomputed afterwards, even if the vehicle's daily rate changes.
type Booking struct {
	ID              uint64        `json:"id"`
	UserID          uint64        `json:"user_id"`
	VehicleID       uint64        `json:"vehicle_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
