package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/booking"
	"github.com/iliyamo/vehicle-rental-booking/internal/model"
	"github.com/iliyamo/vehicle-rental-booking/internal/repository"
)

// VehicleHandler serves the fleet CRUD and search for both cars and trucks.
// The two public surfaces (/v1/cars, /v1/trucks) share one implementation
// parameterized by vehicle kind.
type VehicleHandler struct {
	Vehicles  *repository.VehicleRepo
	Periods   *repository.AvailabilityRepo
	Locations *repository.LocationRepo
}

// NewVehicleHandler constructs a VehicleHandler and panics on nil deps.
func NewVehicleHandler(vehicles *repository.VehicleRepo, periods *repository.AvailabilityRepo, locations *repository.LocationRepo) *VehicleHandler {
	if vehicles == nil || periods == nil || locations == nil {
		panic("nil repository passed to NewVehicleHandler")
	}
	return &VehicleHandler{Vehicles: vehicles, Periods: periods, Locations: locations}
}

type vehicleReq struct {
	Make             string  `json:"make"`
	Model            string  `json:"model"`
	Year             int     `json:"year"`
	Transmission     string  `json:"transmission"`
	FuelType         string  `json:"fuel_type"`
	Seats            *int    `json:"seats"`
	Capacity         *string `json:"capacity"`
	PricePerDayCents int64   `json:"price_per_day_cents"`
	LocationID       uint64  `json:"location_id"`
	Image            string  `json:"image"`

	// Availability seeds the vehicle's ledger with open-for-business
	// windows at creation time.  Ignored on update.
	Availability []periodReq `json:"availability"`
}

type periodReq struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsAvailable *bool  `json:"is_available"`
}

func (req *vehicleReq) validate() (string, bool) {
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	req.Transmission = strings.TrimSpace(req.Transmission)
	req.FuelType = strings.TrimSpace(req.FuelType)
	switch {
	case req.Make == "" || req.Model == "":
		return "make and model are required", false
	case req.Year < 1900:
		return "year is required", false
	case req.Transmission == "":
		return "transmission is required", false
	case req.FuelType == "":
		return "fuel_type is required", false
	case req.PricePerDayCents <= 0:
		return "price_per_day_cents must be positive", false
	case req.LocationID == 0:
		return "location_id is required", false
	}
	return "", true
}

// ---- car routes ----

func (h *VehicleHandler) ListCars(c echo.Context) error { return h.list(c, model.KindCar) }
func (h *VehicleHandler) GetCar(c echo.Context) error { return h.get(c, model.KindCar) }
func (h *VehicleHandler) CreateCar(c echo.Context) error { return h.create(c, model.KindCar) }
func (h *VehicleHandler) UpdateCar(c echo.Context) error { return h.update(c, model.KindCar) }
func (h *VehicleHandler) DeleteCar(c echo.Context) error { return h.delete(c, model.KindCar) }

// ---- truck routes ----

func (h *VehicleHandler) ListTrucks(c echo.Context) error { return h.list(c, model.KindTruck) }
func (h *VehicleHandler) GetTruck(c echo.Context) error { return h.get(c, model.KindTruck) }
func (h *VehicleHandler) CreateTruck(c echo.Context) error { return h.create(c, model.KindTruck) }
func (h *VehicleHandler) UpdateTruck(c echo.Context) error { return h.update(c, model.KindTruck) }
func (h *VehicleHandler) DeleteTruck(c echo.Context) error { return h.delete(c, model.KindTruck) }

// list handles GET /v1/cars and GET /v1/trucks.  With location_id,
// start_date and end_date present it becomes an availability search:
// vehicles that have an open window containing the range and no conflicting
// block or booking.  Without dates it is a plain listing.
func (h *VehicleHandler) list(c echo.Context, kind model.VehicleKind) error {
	var locationID uint64
	if raw := strings.TrimSpace(c.QueryParam("location_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location_id"})
		}
		locationID = id
	}
	start := strings.TrimSpace(c.QueryParam("start_date"))
	end := strings.TrimSpace(c.QueryParam("end_date"))

	ctx := c.Request().Context()
	if start == "" && end == "" {
		items, err := h.Vehicles.ListByKind(ctx, kind, locationID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if items == nil {
			items = []model.Vehicle{}
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	}

	// Date-filtered search requires all three parameters.
	if locationID == 0 || start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id, start_date and end_date are required for availability search"})
	}
	rng, err := booking.ParseDateRange(start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.Vehicles.SearchAvailable(ctx, kind, locationID, rng)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []model.Vehicle{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// get handles GET /v1/cars/:id and GET /v1/trucks/:id, returning the vehicle
// together with its availability ledger.
func (h *VehicleHandler) get(c echo.Context, kind model.VehicleKind) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	ctx := c.Request().Context()
	v, err := h.Vehicles.GetByID(ctx, id, kind)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	periods, err := h.Periods.ListByVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if periods == nil {
		periods = []model.AvailabilityPeriod{}
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicle": v, "availability": periods})
}

// create handles POST /v1/cars and POST /v1/trucks (admin).
func (h *VehicleHandler) create(c echo.Context, kind model.VehicleKind) error {
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	// Parse the initial windows before writing anything.
	type window struct {
		rng       booking.DateRange
		available bool
	}
	windows := make([]window, 0, len(req.Availability))
	for _, p := range req.Availability {
		rng, err := booking.ParseDateRange(p.StartDate, p.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		available := true
		if p.IsAvailable != nil {
			available = *p.IsAvailable
		}
		windows = append(windows, window{rng: rng, available: available})
	}

	ctx := c.Request().Context()
	if _, err := h.Locations.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	v := &model.Vehicle{
		Kind: kind,
		Make: req.Make, Model: req.Model, Year: req.Year,
		Transmission: req.Transmission, FuelType: req.FuelType,
		Seats: req.Seats, Capacity: req.Capacity,
		PricePerDayCents: req.PricePerDayCents,
		LocationID:       req.LocationID,
		Image:            req.Image,
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create vehicle"})
	}
	for _, w := range windows {
		p := &model.AvailabilityPeriod{
			VehicleID:   v.ID,
			StartDate:   w.rng.Start,
			EndDate:     w.rng.End,
			IsAvailable: w.available,
		}
		if err := h.Periods.Create(ctx, p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create availability period"})
		}
	}
	return c.JSON(http.StatusCreated, v)
}

// update handles PUT /v1/cars/:id and PUT /v1/trucks/:id (admin).  The
// ledger is managed through the availability endpoints, never here.
func (h *VehicleHandler) update(c echo.Context, kind model.VehicleKind) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	v := &model.Vehicle{
		ID:   id,
		Kind: kind,
		Make: req.Make, Model: req.Model, Year: req.Year,
		Transmission: req.Transmission, FuelType: req.FuelType,
		Seats: req.Seats, Capacity: req.Capacity,
		PricePerDayCents: req.PricePerDayCents,
		LocationID:       req.LocationID,
		Image:            req.Image,
	}
	if err := h.Vehicles.Update(c.Request().Context(), v); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// delete handles DELETE /v1/cars/:id and DELETE /v1/trucks/:id (admin).
func (h *VehicleHandler) delete(c echo.Context, kind model.VehicleKind) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	if err := h.Vehicles.Delete(c.Request().Context(), id, kind); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		if errors.Is(err, repository.ErrVehicleInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle still has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- availability ledger (admin) ----

// ListAvailability handles GET /v1/vehicles/:id/availability.
func (h *VehicleHandler) ListAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Vehicles.GetByID(ctx, id, ""); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	periods, err := h.Periods.ListByVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if periods == nil {
		periods = []model.AvailabilityPeriod{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": periods})
}

// AddAvailability handles POST /v1/vehicles/:id/availability (admin): append
// an open window (or a manual block) to the vehicle's ledger.
func (h *VehicleHandler) AddAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}
	var req periodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rng, err := booking.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	ctx := c.Request().Context()
	if _, err := h.Vehicles.GetByID(ctx, id, ""); err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	p := &model.AvailabilityPeriod{
		VehicleID:   id,
		StartDate:   rng.Start,
		EndDate:     rng.End,
		IsAvailable: available,
	}
	if err := h.Periods.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create availability period"})
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateAvailability handles PATCH /v1/availability/:id (admin).  The row is
// addressed by its stable id; editing a booking-owned block is a maintenance
// override and leaves the booking reference intact.
func (h *VehicleHandler) UpdateAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid period id"})
	}
	var req periodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	current, err := h.Periods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPeriodNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability period not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	// Partial update: absent fields keep their current values.
	start, end := current.StartDate, current.EndDate
	if s := strings.TrimSpace(req.StartDate); s != "" {
		if start, err = booking.ParseDate(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if e := strings.TrimSpace(req.EndDate); e != "" {
		if end, err = booking.ParseDate(e); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	rng, err := booking.NewDateRange(start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	available := current.IsAvailable
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	updated, err := h.Periods.Update(ctx, id, rng.Start, rng.End, available)
	if err != nil {
		if errors.Is(err, repository.ErrPeriodNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability period not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAvailability handles DELETE /v1/availability/:id (admin).
func (h *VehicleHandler) DeleteAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid period id"})
	}
	if err := h.Periods.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPeriodNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "availability period not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
