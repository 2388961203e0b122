package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/handler"
	"github.com/iliyamo/vehicle-rental-booking/internal/middleware"
	"github.com/iliyamo/vehicle-rental-booking/internal/repository"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, l *handler.LocationHandler, v *handler.VehicleHandler, b *handler.BookingHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)

	// ---- Locations ----
	g.POST("/locations", l.Create)
	// NOTE: Listing locations is handled by the public browse API.
	g.PUT("/locations/:id", l.Update)
	g.PATCH("/locations/:id", l.Update) // allow partial/semantic updates via PATCH as well
	g.DELETE("/locations/:id", l.Delete)

	// ---- Cars ----
	g.POST("/cars", v.CreateCar)
	g.PUT("/cars/:id", v.UpdateCar)
	g.PATCH("/cars/:id", v.UpdateCar)
	g.DELETE("/cars/:id", v.DeleteCar)

	// ---- Trucks ----
	g.POST("/trucks", v.CreateTruck)
	g.PUT("/trucks/:id", v.UpdateTruck)
	g.PATCH("/trucks/:id", v.UpdateTruck)
	g.DELETE("/trucks/:id", v.DeleteTruck)

	// ---- Availability ledger ----
	// NOTE: Reading a vehicle's ledger is provided by the public API
	// (GET /v1/vehicles/:id/availability).
	g.POST("/vehicles/:id/availability", v.AddAvailability)
	g.PATCH("/availability/:id", v.UpdateAvailability)
	g.PUT("/availability/:id", v.UpdateAvailability)
	g.DELETE("/availability/:id", v.DeleteAvailability)

	// ---- Bookings ----
	// Every booking placed against a vehicle, regardless of owner.
	g.GET("/vehicles/:id/bookings", b.ListByVehicle)
}
