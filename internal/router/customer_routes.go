package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/handler"
	"github.com/iliyamo/vehicle-rental-booking/internal/middleware"
	"github.com/iliyamo/vehicle-rental-booking/internal/repository"
)

// RegisterCustomer registers booking endpoints under /v1.  All routes require
// a valid JWT; both customers and admins may book.  Ownership checks (a
// customer may only see or modify their own bookings) happen in the booking
// core, not here.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleCustomer, repository.RoleAdmin),
	)

	// Place a booking for a vehicle over a date range.  Returns 201 with the
	// confirmed booking, or 409 when the range is already taken.
	g.POST("/bookings", b.Create)
	// List the caller's own bookings, newest first.
	g.GET("/my-bookings", b.ListMine)

	// Booking detail, status change and deletion.  These endpoints allow a
	// customer to view, cancel or remove a booking belonging to themselves;
	// admins may operate on any booking.
	g.GET("/bookings/:id", b.Get)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)
	g.DELETE("/bookings/:id", b.Delete)
}
