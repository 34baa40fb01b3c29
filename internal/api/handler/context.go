package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/rental-api/internal/api/middleware"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// ctxActor extracts the caller injected by the Auth middleware. A missing
// actor means the route was mounted without Auth; reject with 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	actor, ok := c.Get(middleware.ActorKey).(ports.Actor)
	if !ok || actor.UserID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the JSON body into req and runs the struct tags
// through the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
