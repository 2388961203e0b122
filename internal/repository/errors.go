// Package repository is the data access layer: raw SQL over database/sql
// against MySQL.  Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting SQL errors themselves; for example
// ErrLocationNotFound becomes an HTTP 404 while ErrLocationInUse becomes
// a 409.
package repository

import "errors"

// ErrLocationNotFound is returned when a location lookup matches no row.
var ErrLocationNotFound = errors.New("location not found")

// ErrVehicleNotFound is returned when a vehicle lookup matches no row.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrPeriodNotFound is returned when an availability period lookup matches
// no row.
var ErrPeriodNotFound = errors.New("availability period not found")

// ErrLocationInUse is returned when a location cannot be deleted because
// vehicles still reference it.  Handlers translate this into HTTP 409.
var ErrLocationInUse = errors.New("location still has vehicles")

// ErrVehicleInUse is returned when a vehicle cannot be deleted because
// non-canceled bookings still reference it.
var ErrVehicleInUse = errors.New("vehicle still has bookings")
