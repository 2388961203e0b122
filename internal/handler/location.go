package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
	"github.com/iliyamo/vehicle-rental-booking/internal/repository"
)

// LocationHandler serves the rental-hub CRUD.  Reads are public; writes sit
// behind the admin role middleware.
type LocationHandler struct {
	Locations *repository.LocationRepo
}

// NewLocationHandler constructs a LocationHandler and panics if the
// repository is nil.
func NewLocationHandler(locations *repository.LocationRepo) *LocationHandler {
	if locations == nil {
		panic("nil repository passed to NewLocationHandler")
	}
	return &LocationHandler{Locations: locations}
}

type locationReq struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (req *locationReq) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.ZipCode = strings.TrimSpace(req.ZipCode)
	switch {
	case req.Name == "":
		return "name is required", false
	case req.Address == "":
		return "address is required", false
	case req.City == "":
		return "city is required", false
	case req.State == "":
		return "state is required", false
	case req.ZipCode == "":
		return "zip_code is required", false
	}
	return "", true
}

// List handles GET /v1/locations.
func (h *LocationHandler) List(c echo.Context) error {
	items, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []model.Location{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/locations/:id.
func (h *LocationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	l, err := h.Locations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, l)
}

// Create handles POST /v1/locations (admin).
func (h *LocationHandler) Create(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &model.Location{
		Name: req.Name, Address: req.Address, City: req.City,
		State: req.State, ZipCode: req.ZipCode,
		Latitude: req.Latitude, Longitude: req.Longitude,
	}
	if err := h.Locations.Create(c.Request().Context(), l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create location"})
	}
	return c.JSON(http.StatusCreated, l)
}

// Update handles PUT /v1/locations/:id (admin).
func (h *LocationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := req.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &model.Location{
		ID:   id,
		Name: req.Name, Address: req.Address, City: req.City,
		State: req.State, ZipCode: req.ZipCode,
		Latitude: req.Latitude, Longitude: req.Longitude,
	}
	if err := h.Locations.Update(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /v1/locations/:id (admin).
func (h *LocationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	if err := h.Locations.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		if errors.Is(err, repository.ErrLocationInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location still has vehicles"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
