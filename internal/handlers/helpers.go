package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// getUserIDFromContext returns the authenticated user's ID, 0 if absent
func getUserIDFromContext(c echo.Context) uint {
	uid, _ := c.Get(config.UserIDKey).(uint)
	return uid
}

// currentUser loads the authenticated account
func currentUser(c echo.Context, users *services.UserService) (*models.User, error) {
	uid := getUserIDFromContext(c)
	if uid == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := users.GetUser(c.Request().Context(), uid)
	if errors.Is(err, models.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
	}
	if err != nil {
		return nil, toHTTPError(err)
	}
	return user, nil
}

// parsePage reads ?page= and ?limit=, clamping bad values
func parsePage(c echo.Context, def int) models.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return models.NewPage(page, limit, def, maxPageSize)
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// bindAndValidate decodes the request body into req and runs its validation tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// toHTTPError maps the domain error taxonomy onto HTTP status codes
func toHTTPError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var status int
	msg := err.Error()
	switch {
	case errors.Is(err, models.ErrNotFound):
		status, msg = http.StatusNotFound, "Resource not found"
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		status, msg = http.StatusForbidden, "You are not allowed to perform this action"
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, models.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		status, msg = http.StatusInternalServerError, "Internal server error"
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}
