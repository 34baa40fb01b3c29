package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/rental-api/internal/api/metrics"
	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// AmenityHandler handles HTTP requests for the amenity catalogue.
type AmenityHandler struct {
	service ports.AmenityService
}

func NewAmenityHandler(service ports.AmenityService) *AmenityHandler {
	return &AmenityHandler{service: service}
}

// Create handles POST /api/v1/amenities.
//
// @Summary      Create an amenity (admin only)
// @Tags         amenities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      amenityRequest  true  "Amenity name"
// @Success      201   {object}  domain.Amenity
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/amenities [post]
func (h *AmenityHandler) Create(c echo.Context) error {
	var req amenityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	amenity, err := h.service.CreateAmenity(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("amenity").Inc()
	return c.JSON(http.StatusCreated, amenity)
}

// List handles GET /api/v1/amenities.
//
// @Summary      List amenities
// @Tags         amenities
// @Produce      json
// @Success      200  {array}  domain.Amenity
// @Router       /api/v1/amenities [get]
func (h *AmenityHandler) List(c echo.Context) error {
	amenities, err := h.service.GetAllAmenities(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, amenities)
}

// Get handles GET /api/v1/amenities/:id.
//
// @Summary      Get an amenity
// @Tags         amenities
// @Produce      json
// @Param        id   path      string  true  "Amenity ID"
// @Success      200  {object}  domain.Amenity
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/amenities/{id} [get]
func (h *AmenityHandler) Get(c echo.Context) error {
	amenity, err := h.service.GetAmenity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, amenity)
}

// Update handles PUT /api/v1/amenities/:id.
//
// @Summary      Rename an amenity (admin only)
// @Tags         amenities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Amenity ID"
// @Param        body  body      amenityRequest  true  "New name"
// @Success      200   {object}  domain.Amenity
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/amenities/{id} [put]
func (h *AmenityHandler) Update(c echo.Context) error {
	var req amenityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	amenity, err := h.service.UpdateAmenity(c.Request().Context(), c.Param("id"), domain.AmenityPatch{Name: &req.Name})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, amenity)
}

// Delete handles DELETE /api/v1/amenities/:id. Places using the amenity
// lose it.
//
// @Summary      Delete an amenity (admin only)
// @Tags         amenities
// @Security     BearerAuth
// @Param        id  path  string  true  "Amenity ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/amenities/{id} [delete]
func (h *AmenityHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteAmenity(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues("amenity").Inc()
	return c.NoContent(http.StatusNoContent)
}
