package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/booking"
	"github.com/iliyamo/vehicle-rental-booking/internal/model"
	"github.com/iliyamo/vehicle-rental-booking/internal/queue"
	"github.com/iliyamo/vehicle-rental-booking/internal/repository"
	queue_publisher "github.com/iliyamo/vehicle-rental-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP.  All business
// rules live in the booking service; this layer parses input, checks the
// caller's identity claims and publishes events after successful commits.
type BookingHandler struct {
	Svc      *booking.Service
	Bookings *repository.BookingRepo
	Vehicles *repository.VehicleRepo
}

// NewBookingHandler constructs a BookingHandler and panics on nil deps.
func NewBookingHandler(svc *booking.Service, bookings *repository.BookingRepo, vehicles *repository.VehicleRepo) *BookingHandler {
	if svc == nil || bookings == nil || vehicles == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: bookings, Vehicles: vehicles}
}

type createBookingReq struct {
	VehicleID uint64 `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /v1/bookings.  On success it returns 201 with the
// booking summary and publishes a booking.confirmed event; publish failures
// are logged and never fail the request.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.VehicleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id is required"})
	}
	rng, err := booking.ParseDateRange(strings.TrimSpace(req.StartDate), strings.TrimSpace(req.EndDate))
	if err != nil {
		return bookingError(c, err)
	}

	summary, err := h.Svc.CreateBooking(c.Request().Context(), userID, req.VehicleID, rng)
	if err != nil {
		return bookingError(c, err)
	}

	event := queue.BookingConfirmedEvent{
		BookingID:       summary.ID,
		UserID:          userID,
		VehicleID:       req.VehicleID,
		Vehicle:         summary.Vehicle,
		StartDate:       summary.StartDate,
		EndDate:         summary.EndDate,
		TotalPriceCents: summary.TotalPriceCents,
		ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishBookingConfirmed(c.Request().Context(), event); err != nil {
		log.Printf("booking: publish confirmed event failed for booking %d: %v", summary.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking confirmed",
		"booking": summary,
	})
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	if items == nil {
		items = []repository.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id.  Owners see their own bookings; admins
// see all.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id, userID, isAdmin(c))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  Only transitions in
// the state machine are accepted; moving to canceled frees the blocked
// range and publishes a booking.canceled event.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	b, err := h.Svc.UpdateStatus(c.Request().Context(), id, userID, isAdmin(c), status)
	if err != nil {
		return bookingError(c, err)
	}
	if status == model.StatusCanceled {
		h.publishCanceled(c, b)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /v1/bookings/:id: a hard delete of the booking and
// its ledger block.
func (h *BookingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.DeleteBooking(c.Request().Context(), id, userID, isAdmin(c))
	if err != nil {
		return bookingError(c, err)
	}
	h.publishCanceled(c, b)
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

// ListByVehicle handles GET /v1/vehicles/:id/bookings (admin).
func (h *BookingHandler) ListByVehicle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	items, err := h.Bookings.ListByVehicle(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	if items == nil {
		items = []repository.BookingDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *BookingHandler) publishCanceled(c echo.Context, b *model.Booking) {
	event := queue.BookingCanceledEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		VehicleID:  b.VehicleID,
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		CanceledAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishBookingCanceled(c.Request().Context(), event); err != nil {
		log.Printf("booking: publish canceled event failed for booking %d: %v", b.ID, err)
	}
}
