package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/rental-api/internal/api/metrics"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// PlaceHandler handles HTTP requests for listings and their reviews.
type PlaceHandler struct {
	places  ports.PlaceService
	reviews ports.ReviewService
}

func NewPlaceHandler(places ports.PlaceService, reviews ports.ReviewService) *PlaceHandler {
	return &PlaceHandler{places: places, reviews: reviews}
}

// Create handles POST /api/v1/places. The caller becomes the owner; only an
// admin may list a place on behalf of another user through owner_id.
//
// @Summary      Create a place
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeRequest  true  "Place details"
// @Success      201   {object}  domain.Place
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/places [post]
func (h *PlaceHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req placeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ownerID := actor.UserID
	if req.OwnerID != nil && *req.OwnerID != actor.UserID {
		if !actor.IsAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "cannot create a place for another user"})
		}
		ownerID = *req.OwnerID
	}

	place, err := h.places.CreatePlace(c.Request().Context(), req.toInput(), ownerID)
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("place").Inc()
	return c.JSON(http.StatusCreated, place)
}

// List handles GET /api/v1/places.
//
// @Summary      List places
// @Tags         places
// @Produce      json
// @Success      200  {array}  placeSummary
// @Router       /api/v1/places [get]
func (h *PlaceHandler) List(c echo.Context) error {
	places, err := h.places.GetAllPlaces(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaceSummaries(places))
}

// Get handles GET /api/v1/places/:id and returns the place with its owner,
// amenities and reviews.
//
// @Summary      Get a place
// @Tags         places
// @Produce      json
// @Param        id   path      string  true  "Place ID"
// @Success      200  {object}  domain.Place
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/places/{id} [get]
func (h *PlaceHandler) Get(c echo.Context) error {
	place, err := h.places.GetPlace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, place)
}

// Update handles PUT /api/v1/places/:id.
//
// @Summary      Update a place (owner or admin)
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Place ID"
// @Param        body  body      placeRequest  true  "Fields to change"
// @Success      200   {object}  domain.Place
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/places/{id} [put]
func (h *PlaceHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req placeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.OwnerID != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "owner_id cannot be modified")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.places.AuthorizePlaceChange(ctx, id, actor); err != nil {
		return err
	}

	place, err := h.places.UpdatePlace(ctx, id, req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, place)
}

// Delete handles DELETE /api/v1/places/:id. The place's reviews go with it.
//
// @Summary      Delete a place (owner or admin)
// @Tags         places
// @Security     BearerAuth
// @Param        id  path  string  true  "Place ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/places/{id} [delete]
func (h *PlaceHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.places.AuthorizePlaceChange(ctx, id, actor); err != nil {
		return err
	}
	if err := h.places.DeletePlace(ctx, id); err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues("place").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Reviews handles GET /api/v1/places/:id/reviews.
//
// @Summary      List the reviews of a place
// @Tags         places
// @Produce      json
// @Param        id   path     string  true  "Place ID"
// @Success      200  {array}  domain.Review
// @Failure      404  {object} map[string]string
// @Router       /api/v1/places/{id}/reviews [get]
func (h *PlaceHandler) Reviews(c echo.Context) error {
	reviews, err := h.reviews.GetReviewsByPlace(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}
