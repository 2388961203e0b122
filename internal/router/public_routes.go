package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  Guests can list locations and inspect the car and truck
// fleets, including availability search by location and date range, without
// logging in.  The optional cache middleware (Redis-backed) is applied to
// these GET routes; pass nil to register them uncached.
func RegisterPublic(e *echo.Echo, l *handler.LocationHandler, v *handler.VehicleHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)

	// ---- Locations ----
	g.GET("/locations", l.List)
	g.GET("/locations/:id", l.Get)

	// ---- Cars ----
	// Plain list, or availability search when location_id + start_date +
	// end_date query parameters are all present.
	g.GET("/cars", v.ListCars)
	g.GET("/cars/:id", v.GetCar)

	// ---- Trucks ----
	g.GET("/trucks", v.ListTrucks)
	g.GET("/trucks/:id", v.GetTruck)

	// ---- Availability ledger ----
	// The full ledger of a vehicle (open windows and booked blocks) so that
	// guests can see when a vehicle is free before registering.
	g.GET("/vehicles/:id/availability", v.ListAvailability)
}
