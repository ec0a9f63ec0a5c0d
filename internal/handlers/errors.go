package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/yatube/backend/internal/apperr"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// httpError maps a service error onto the HTTP status the client sees.
func httpError(err error) error {
	if verr, ok := apperr.AsValidation(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"success": false,
			"field":   verr.Field,
			"message": verr.Message,
		})
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, apperr.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Permission denied")
	case errors.Is(err, apperr.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, apperr.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Already exists")
	}
	zap.L().Error("request failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return httpError(err)
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(id), nil
}
