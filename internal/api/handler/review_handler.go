package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/rental-api/internal/api/metrics"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /api/v1/reviews. The caller is the author.
//
// @Summary      Review a place
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.CreateReview(c.Request().Context(), req.toInput(), actor.UserID)
	if err != nil {
		return err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("review").Inc()
	return c.JSON(http.StatusCreated, review)
}

// List handles GET /api/v1/reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}  domain.Review
// @Router       /api/v1/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.service.GetAllReviews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Get handles GET /api/v1/reviews/:id.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  domain.Review
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	review, err := h.service.GetReview(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Update handles PUT /api/v1/reviews/:id. Only text and rating may change.
//
// @Summary      Update a review (author or admin)
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review ID"
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  domain.Review
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserID != nil || req.PlaceID != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and place_id cannot be modified")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.service.AuthorizeReviewChange(ctx, id, actor); err != nil {
		return err
	}

	review, err := h.service.UpdateReview(ctx, id, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Delete handles DELETE /api/v1/reviews/:id.
//
// @Summary      Delete a review (author or admin)
// @Tags         reviews
// @Security     BearerAuth
// @Param        id  path  string  true  "Review ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.service.AuthorizeReviewChange(ctx, id, actor); err != nil {
		return err
	}
	if err := h.service.DeleteReview(ctx, id); err != nil {
		return err
	}

	metrics.EntitiesDeletedTotal.WithLabelValues("review").Inc()
	return c.NoContent(http.StatusNoContent)
}
