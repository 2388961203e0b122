package model

import "time"

// VehicleKind distinguishes the two rentable fleet types.  Cars and trucks
// share one table and one booking flow; the public API simply filters on
// this column so /v1/cars and /v1/trucks stay separate surfaces.
type VehicleKind string

const (
	KindCar   VehicleKind = "CAR"
	KindTruck VehicleKind = "TRUCK"
)

// Vehicle mirrors the 'vehicles' table.  Seats is only meaningful for cars
// and Capacity (a free-text payload rating such as "3.5t") only for trucks;
// the unused column is NULL for the other kind.
type Vehicle struct {
	ID               uint64      `json:"id"`
	Kind             VehicleKind `json:"kind"`
	Make             string      `json:"make"`
	Model            string      `json:"model"`
	Year             int         `json:"year"`
	Transmission     string      `json:"transmission"`
	FuelType         string      `json:"fuel_type"`
	Seats            *int        `json:"seats,omitempty"`
	Capacity         *string     `json:"capacity,omitempty"`
	PricePerDayCents int64       `json:"price_per_day_cents"`
	LocationID       uint64      `json:"location_id"`
	Image            string      `json:"image"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Description is the human-readable label used in booking summaries and
// published events, e.g. "Volvo FH16".
func (v *Vehicle) Description() string {
	return v.Make + " " + v.Model
}
